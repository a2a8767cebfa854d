// Package jsondata is the JSON codec for StarTable table blocks. It
// normalizes the value universe produced by the parser (typed column arrays,
// missing-data sentinels, date-times) into JSON-native values, and defines an
// order-preserving JSON representation of a table:
//
//	{"name": ..., "destinations": {dest: null, ...},
//	 "columns": {col: {"unit": ..., "values": [...]}}, "origin": ...}
//
// The codec is a closed system over the types the parser can produce; an
// unrecognized type is a hard error, never a silent stringification.
package jsondata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/startable/startable-go/table"
)

// Column is one column of a JSON-flavored table: its unit indicator and its
// values as JSON-native data (float64, string, bool or nil).
type Column struct {
	Name   string
	Unit   string
	Values []any
}

// Table is the JSON-flavored representation of a table block. Column and
// destination order is significant and survives marshalling, unlike with a
// plain Go map.
type Table struct {
	Name         string
	Destinations []string
	Columns      []Column
	Origin       string
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// ToJSONSerializable converts a value to a JSON-native structure of nested
// maps, slices and values. Floating-point NaN becomes null; date-times become
// their canonical string form or null for the NaT sentinel; typed column
// arrays become value slices. Any other type is an error.
func ToJSONSerializable(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string, int, int64:
		return val, nil
	case float64:
		if math.IsNaN(val) {
			return nil, nil
		}
		return val, nil
	case time.Time:
		if table.IsNaT(val) {
			return nil, nil
		}
		return table.FormatDateTime(val), nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			conv, err := ToJSONSerializable(elem)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			conv, err := ToJSONSerializable(elem)
			if err != nil {
				return nil, err
			}
			out[k] = conv
		}
		return out, nil
	case table.Values:
		out := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			conv, err := ToJSONSerializable(val.Cell(i))
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	}
	return nil, fmt.Errorf("converting %T to a JSON-encodable type is not supported", v)
}

// FromTable converts a typed table to its JSON-flavored representation.
func FromTable(t *table.Table) (*Table, error) {
	jt := &Table{
		Name:         t.Name,
		Destinations: append([]string(nil), t.Destinations...),
		Columns:      make([]Column, len(t.Columns)),
		Origin:       t.Origin.Input,
	}
	for i, c := range t.Columns {
		values, err := ToJSONSerializable(c.Values)
		if err != nil {
			return nil, fmt.Errorf("column %q of table %q: %w", c.Name, t.Name, err)
		}
		jt.Columns[i] = Column{Name: c.Name, Unit: c.Unit, Values: values.([]any)}
	}
	return jt, nil
}

// MarshalJSON writes the table in its wire shape, preserving destination and
// column order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeKey := func(key string) {
		b, _ := json.Marshal(key)
		buf.Write(b)
		buf.WriteByte(':')
	}

	writeKey("name")
	name, err := json.Marshal(t.Name)
	if err != nil {
		return nil, err
	}
	buf.Write(name)

	buf.WriteByte(',')
	writeKey("destinations")
	buf.WriteByte('{')
	for i, d := range t.Destinations {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := json.Marshal(d)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
		buf.WriteString(":null")
	}
	buf.WriteByte('}')

	buf.WriteByte(',')
	writeKey("columns")
	buf.WriteByte('{')
	for i, c := range t.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		nameB, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(nameB)
		buf.WriteString(`:{"unit":`)
		unitB, err := json.Marshal(c.Unit)
		if err != nil {
			return nil, err
		}
		buf.Write(unitB)
		buf.WriteString(`,"values":`)
		valuesB, err := json.Marshal(c.Values)
		if err != nil {
			return nil, err
		}
		buf.Write(valuesB)
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	if t.Origin != "" {
		buf.WriteByte(',')
		writeKey("origin")
		originB, err := json.Marshal(t.Origin)
		if err != nil {
			return nil, err
		}
		buf.Write(originB)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the wire shape back, preserving destination and column
// order by walking the token stream instead of decoding into maps.
func (t *Table) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("table json: %w", err)
	}
	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return fmt.Errorf("table json: %w", err)
		}
		switch key {
		case "name":
			if err := dec.Decode(&t.Name); err != nil {
				return fmt.Errorf("table json name: %w", err)
			}
		case "origin":
			if err := dec.Decode(&t.Origin); err != nil {
				return fmt.Errorf("table json origin: %w", err)
			}
		case "destinations":
			if err := expectDelim(dec, '{'); err != nil {
				return fmt.Errorf("table json destinations: %w", err)
			}
			for dec.More() {
				dest, err := stringToken(dec)
				if err != nil {
					return fmt.Errorf("table json destinations: %w", err)
				}
				var discard any
				if err := dec.Decode(&discard); err != nil {
					return fmt.Errorf("table json destinations: %w", err)
				}
				t.Destinations = append(t.Destinations, dest)
			}
			if err := expectDelim(dec, '}'); err != nil {
				return fmt.Errorf("table json destinations: %w", err)
			}
		case "columns":
			if err := expectDelim(dec, '{'); err != nil {
				return fmt.Errorf("table json columns: %w", err)
			}
			for dec.More() {
				name, err := stringToken(dec)
				if err != nil {
					return fmt.Errorf("table json columns: %w", err)
				}
				var col struct {
					Unit   string `json:"unit"`
					Values []any  `json:"values"`
				}
				if err := dec.Decode(&col); err != nil {
					return fmt.Errorf("table json column %q: %w", name, err)
				}
				t.Columns = append(t.Columns, Column{Name: name, Unit: col.Unit, Values: col.Values})
			}
			if err := expectDelim(dec, '}'); err != nil {
				return fmt.Errorf("table json columns: %w", err)
			}
		default:
			var discard json.RawMessage
			if err := dec.Decode(&discard); err != nil {
				return fmt.Errorf("table json %q: %w", key, err)
			}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return fmt.Errorf("table json: %w", err)
	}
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected string key, got %v", tok)
	}
	return s, nil
}
