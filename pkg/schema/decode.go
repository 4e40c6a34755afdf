package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode copies normalized options into target, a pointer to a struct whose
// fields carry `mapstructure` tags. Numeric and slice conversions are weak, so
// values decoded from JSON or YAML fit int and []string fields.
func Decode(options map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("schema: decoder: %w", err)
	}
	if err := dec.Decode(options); err != nil {
		return fmt.Errorf("schema: decode options: %w", err)
	}
	return nil
}
