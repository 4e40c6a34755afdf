package schema

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
)

// Type defines the contract for option value validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "[int]").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Scalars ---

type scalarType struct {
	name  string
	check func(any) error
}

func (t *scalarType) Name() string             { return t.name }
func (t *scalarType) Validate(value any) error { return t.check(value) }

var (
	stringType = &scalarType{name: "string", check: func(v any) error {
		if _, ok := v.(string); !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		return nil
	}}

	intType = &scalarType{name: "int", check: func(v any) error {
		switch n := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return nil
		case float64:
			// Whole floats come from JSON decoding.
			if n == float64(int64(n)) {
				return nil
			}
			return fmt.Errorf("expected int, got float (not a whole number)")
		default:
			return fmt.Errorf("expected int, got %T", v)
		}
	}}

	floatType = &scalarType{name: "float", check: func(v any) error {
		switch v.(type) {
		case float32, float64, int, int8, int16, int32, int64:
			return nil
		default:
			return fmt.Errorf("expected float, got %T", v)
		}
	}}

	boolType = &scalarType{name: "bool", check: func(v any) error {
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
		return nil
	}}

	anyType = &scalarType{name: "any", check: func(any) error { return nil }}
)

// String accepts string values.
func String() Type { return stringType }

// Int accepts integers and whole floats.
func Int() Type { return intType }

// Float accepts any numeric value.
func Float() Type { return floatType }

// Bool accepts booleans.
func Bool() Type { return boolType }

// Any accepts every value.
func Any() Type { return anyType }

// --- Composites ---

type sliceType struct{ elem Type }

// Slice accepts slices or arrays whose elements all satisfy elem.
func Slice(elem Type) Type { return &sliceType{elem: elem} }

func (t *sliceType) Name() string { return "[" + t.elem.Name() + "]" }

func (t *sliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("expected slice, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elem.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

type mapType struct{ elem Type }

// Map accepts string-keyed maps whose values all satisfy elem.
func Map(elem Type) Type { return &mapType{elem: elem} }

func (t *mapType) Name() string { return "{" + t.elem.Name() + "}" }

func (t *mapType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("expected map with string keys, got %T", value)
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := t.elem.Validate(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	return nil
}

type oneOfType struct{ values []string }

// OneOf accepts one of the listed strings.
func OneOf(values ...string) Type { return &oneOfType{values: values} }

func (t *oneOfType) Name() string { return strings.Join(t.values, "|") }

func (t *oneOfType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	if !slices.Contains(t.values, s) {
		return fmt.Errorf("expected one of %s, got %q", t.Name(), s)
	}
	return nil
}

type customType struct {
	name     string
	validate func(any) error
}

// Custom creates a type backed by a user-defined validation function.
func Custom(name string, validate func(any) error) Type {
	return &customType{name: name, validate: validate}
}

func (t *customType) Name() string             { return t.name }
func (t *customType) Validate(value any) error { return t.validate(value) }

// ParseType converts a type string to a Type.
// Supports "string", "int", "float", "bool", "any", "[elem]" and "{elem}".
func ParseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)
	if n := len(typeStr); n > 2 {
		switch {
		case typeStr[0] == '[' && typeStr[n-1] == ']':
			elem, err := ParseType(typeStr[1 : n-1])
			if err != nil {
				return nil, err
			}
			return Slice(elem), nil
		case typeStr[0] == '{' && typeStr[n-1] == '}':
			elem, err := ParseType(typeStr[1 : n-1])
			if err != nil {
				return nil, err
			}
			return Map(elem), nil
		}
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "any":
		return Any(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts a map of option names to type strings into a Schema
// of optional fields.
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema, len(typeMap))
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", key, err)
		}
		result[key] = Optional(t)
	}
	return result, nil
}
