package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Reserved keys that decode into Node struct fields instead of ordered Fields.
const (
	KeyType             = "type"
	KeyLeadingComments  = "leadingComments"
	KeyTrailingComments = "trailingComments"
)

// MaxDepth bounds how deeply objects and lists may nest in decoded input.
const MaxDepth = 10000

// MarshalJSON encodes the node as an ESTree-style object with fields in order.
// Comment lists are emitted when non-nil, so an empty list round-trips as [].
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value any) error {
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(b)
		return nil
	}

	if n.Type != "" {
		if err := write(KeyType, n.Type); err != nil {
			return nil, err
		}
	}
	for _, f := range n.fields {
		if err := write(f.Key, f.Value); err != nil {
			return nil, err
		}
	}
	if n.LeadingComments != nil {
		if err := write(KeyLeadingComments, n.LeadingComments); err != nil {
			return nil, err
		}
	}
	if n.TrailingComments != nil {
		if err := write(KeyTrailingComments, n.TrailingComments); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object while preserving field order.
func (n *Node) UnmarshalJSON(data []byte) error {
	node, err := DecodeJSON(data, false)
	if err != nil {
		return err
	}
	*n = *node
	return nil
}

// DecodeJSON decodes a single JSON object into a tree, preserving field order.
// When withLoc is set, every object's Loc records where its opening brace was.
// Malformed input yields *json.SyntaxError or *OffsetError so callers can map offsets.
func DecodeJSON(data []byte, withLoc bool) (*Node, error) {
	d := &jsonDecoder{dec: json.NewDecoder(bytes.NewReader(data))}
	d.dec.UseNumber()
	if withLoc {
		d.lines = lineStarts(data)
	}
	v, err := d.value(0)
	if err != nil {
		return nil, err
	}
	node, ok := v.(*Node)
	if !ok {
		return nil, errors.New("ast: expected a JSON object")
	}
	if _, err := d.dec.Token(); err != io.EOF {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, err
		}
		return nil, &OffsetError{Offset: d.dec.InputOffset(), Msg: "unexpected data after root node"}
	}
	return node, nil
}

// OffsetError is a decoding error at a byte offset of the input.
type OffsetError struct {
	Offset int64
	Msg    string
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("ast: %s at offset %d", e.Msg, e.Offset)
}

// Locate converts a byte offset into a 1-based line and column.
func Locate(data []byte, offset int64) Position {
	return locate(lineStarts(data), offset)
}

func lineStarts(data []byte) []int64 {
	starts := []int64{0}
	for i, b := range data {
		if b == '\n' {
			starts = append(starts, int64(i+1))
		}
	}
	return starts
}

func locate(starts []int64, offset int64) Position {
	line := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Position{Line: line + 1, Column: int(offset-starts[line]) + 1}
}

type jsonDecoder struct {
	dec   *json.Decoder
	lines []int64
}

func (d *jsonDecoder) value(depth int) (any, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if depth >= MaxDepth {
			return nil, &OffsetError{Offset: d.dec.InputOffset() - 1, Msg: fmt.Sprintf("exceeded max depth of %d", MaxDepth)}
		}
		switch t {
		case '{':
			return d.object(d.dec.InputOffset()-1, depth+1)
		case '[':
			return d.array(depth + 1)
		}
		return nil, fmt.Errorf("ast: unexpected delimiter %q", t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		return t.Float64()
	default:
		return t, nil
	}
}

func (d *jsonDecoder) object(start int64, depth int) (*Node, error) {
	n := &Node{}
	if d.lines != nil {
		pos := locate(d.lines, start)
		n.Loc = &pos
	}
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		switch key {
		case KeyType:
			if err := d.dec.Decode(&n.Type); err != nil {
				return nil, fmt.Errorf("ast: field %q: %w", key, err)
			}
		case KeyLeadingComments:
			n.LeadingComments = []Comment{}
			if err := d.dec.Decode(&n.LeadingComments); err != nil {
				return nil, fmt.Errorf("ast: field %q: %w", key, err)
			}
		case KeyTrailingComments:
			n.TrailingComments = []Comment{}
			if err := d.dec.Decode(&n.TrailingComments); err != nil {
				return nil, fmt.Errorf("ast: field %q: %w", key, err)
			}
		default:
			v, err := d.value(depth)
			if err != nil {
				return nil, err
			}
			// Last duplicate wins, as with encoding/json.
			n.Set(key, v)
		}
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func (d *jsonDecoder) array(depth int) ([]any, error) {
	list := []any{}
	for d.dec.More() {
		v, err := d.value(depth)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return list, nil
}
