package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// Kind is the primitive type tag of a tool parameter value.
type Kind int

const (
	KindString Kind = iota + 1
	KindInteger
	KindBoolean
)

// String returns the schema name of the kind ("string", "integer", "boolean").
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// ParseKind maps a schema type name to its Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "string":
		return KindString, true
	case "integer":
		return KindInteger, true
	case "boolean":
		return KindBoolean, true
	}
	return 0, false
}

// Value is a tool parameter value: exactly one of string, integer or boolean.
type Value struct {
	kind Kind
	s    string
	i    int64
	b    bool
}

func String(s string) Value { return Value{kind: KindString, s: s} }
func Int(i int64) Value     { return Value{kind: KindInteger, i: i} }
func Bool(b bool) Value     { return Value{kind: KindBoolean, b: b} }

func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Integer returns the integer payload and whether v is an integer.
func (v Value) Integer() (int64, bool) { return v.i, v.kind == KindInteger }

// Boolean returns the boolean payload and whether v is a boolean.
func (v Value) Boolean() (bool, bool) { return v.b, v.kind == KindBoolean }

// String renders the value the way it would appear in a message to the model.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	}
	return "<invalid>"
}

// MarshalJSON encodes the value as its JSON primitive.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.s)
	case KindInteger:
		return json.Marshal(v.i)
	case KindBoolean:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a JSON string, integer literal or boolean.
// Floats, null, arrays and objects are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case string:
		*v = String(x)
	case bool:
		*v = Bool(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return &UnsupportedTypeError{JSONType: "float"}
		}
		*v = Int(i)
	default:
		return &UnsupportedTypeError{JSONType: jsonTypeName(raw)}
	}
	return nil
}

// UnsupportedTypeError reports a parameter value outside the three primitives.
type UnsupportedTypeError struct {
	Param    string
	JSONType string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("unsupported value type %s", e.JSONType)
	}
	return fmt.Sprintf("Parameter '%s' has unsupported type %s (expected string, integer or boolean)", e.Param, e.JSONType)
}

// DecodeParams decodes a JSON object into a parameter mapping.
// Parameters are checked in sorted key order so the reported error is stable.
func DecodeParams(data json.RawMessage) (map[string]Value, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]Value, len(raw))
	for _, k := range keys {
		var v Value
		if err := v.UnmarshalJSON(raw[k]); err != nil {
			var ut *UnsupportedTypeError
			if errors.As(err, &ut) {
				ut.Param = k
				return nil, ut
			}
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
