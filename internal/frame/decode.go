package frame

import (
	"fmt"

	"github.com/wandb/simplejsonext"
)

// DecodeError describes why a serialized table could not be decoded.
//
// Path locates the offending value, e.g. "schema.fields[2].name". An
// empty path means the document itself could not be parsed.
type DecodeError struct {
	Path string
	Msg  string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("frame: decode: %s", e.Msg)
	}
	return fmt.Sprintf("frame: decode %s: %s", e.Path, e.Msg)
}

// Decode parses a table serialized in the "table" orientation used by
// pandas:
//
//	{
//	  "schema": {"fields": [{"name": ..., "type": ...}], "primaryKey": [...]},
//	  "data": [{...}, ...]
//	}
//
// The schema is optional; the data section is required. NaN and Infinity
// literals in the data are tolerated and decode to the corresponding
// float64 values.
func Decode(data []byte) (Frame[Row], error) {
	obj, err := simplejsonext.UnmarshalObject(data)
	if err != nil {
		return Frame[Row]{}, &DecodeError{Msg: err.Error()}
	}
	return decodeTable(obj)
}

// DecodeString is Decode for string input.
func DecodeString(data string) (Frame[Row], error) {
	obj, err := simplejsonext.UnmarshalObjectString(data)
	if err != nil {
		return Frame[Row]{}, &DecodeError{Msg: err.Error()}
	}
	return decodeTable(obj)
}

func decodeTable(obj map[string]any) (Frame[Row], error) {
	var schema *Schema
	if raw, ok := obj["schema"]; ok {
		s, err := decodeSchema(raw)
		if err != nil {
			return Frame[Row]{}, err
		}
		schema = s
	}

	raw, ok := obj["data"]
	if !ok {
		return Frame[Row]{}, &DecodeError{Path: "data", Msg: "missing field"}
	}
	list, ok := raw.([]any)
	if !ok {
		return Frame[Row]{}, &DecodeError{
			Path: "data",
			Msg:  fmt.Sprintf("expected a list, got %T", raw),
		}
	}

	rows := make([]Row, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return Frame[Row]{}, &DecodeError{
				Path: fmt.Sprintf("data[%d]", i),
				Msg:  fmt.Sprintf("expected an object, got %T", item),
			}
		}
		rows = append(rows, Row(m))
	}

	return NewWithSchema(rows, schema), nil
}

func decodeSchema(raw any) (*Schema, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &DecodeError{
			Path: "schema",
			Msg:  fmt.Sprintf("expected an object, got %T", raw),
		}
	}

	s := &Schema{}
	if rawFields, ok := m["fields"]; ok {
		list, ok := rawFields.([]any)
		if !ok {
			return nil, &DecodeError{
				Path: "schema.fields",
				Msg:  fmt.Sprintf("expected a list, got %T", rawFields),
			}
		}
		for i, item := range list {
			fm, ok := item.(map[string]any)
			if !ok {
				return nil, &DecodeError{
					Path: fmt.Sprintf("schema.fields[%d]", i),
					Msg:  fmt.Sprintf("expected an object, got %T", item),
				}
			}
			name, ok := fm["name"].(string)
			if !ok {
				return nil, &DecodeError{
					Path: fmt.Sprintf("schema.fields[%d].name", i),
					Msg:  "missing field",
				}
			}
			// The type is informational and tolerated when absent.
			typ, _ := fm["type"].(string)
			s.Fields = append(s.Fields, Field{Name: name, Type: typ})
		}
	}

	if rawPK, ok := m["primaryKey"]; ok {
		list, ok := rawPK.([]any)
		if !ok {
			return nil, &DecodeError{
				Path: "schema.primaryKey",
				Msg:  fmt.Sprintf("expected a list, got %T", rawPK),
			}
		}
		for i, item := range list {
			key, ok := item.(string)
			if !ok {
				return nil, &DecodeError{
					Path: fmt.Sprintf("schema.primaryKey[%d]", i),
					Msg:  fmt.Sprintf("expected a string, got %T", item),
				}
			}
			s.PrimaryKey = append(s.PrimaryKey, key)
		}
	}

	return s, nil
}
