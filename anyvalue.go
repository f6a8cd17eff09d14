package walletgo

import (
	"bytes"
	"encoding/json"

	"github.com/go-errors/errors"
	"github.com/spf13/cast"
)

// AnyKind enumerates the JSON kinds an AnyValue can hold.
type AnyKind int

// JSON value kinds
const (
	AnyNull AnyKind = iota
	AnyBool
	AnyNumber
	AnyString
	AnyArray
	AnyObject
)

// AnyValue holds an arbitrary JSON value of an agent-defined schema, such as a
// claim bag or a properties map. It decodes and re-encodes losslessly: numbers
// keep their original representation and object members keep their order.
type AnyValue struct {
	kind AnyKind
	b    bool
	num  json.Number
	str  string
	arr  []AnyValue
	obj  []AnyField
}

// AnyField is a single member of a JSON object.
type AnyField struct {
	Key   string
	Value AnyValue
}

func NewAnyBool(b bool) AnyValue     { return AnyValue{kind: AnyBool, b: b} }
func NewAnyString(s string) AnyValue { return AnyValue{kind: AnyString, str: s} }

func NewAnyNumber(n json.Number) AnyValue { return AnyValue{kind: AnyNumber, num: n} }

func NewAnyArray(elems ...AnyValue) AnyValue { return AnyValue{kind: AnyArray, arr: elems} }

func NewAnyObject(fields ...AnyField) AnyValue { return AnyValue{kind: AnyObject, obj: fields} }

func (v AnyValue) Kind() AnyKind { return v.kind }

func (v AnyValue) IsNull() bool { return v.kind == AnyNull }

func (v AnyValue) Bool() bool { return v.b }

func (v AnyValue) Number() json.Number { return v.num }

func (v AnyValue) Str() string { return v.str }

func (v AnyValue) Array() []AnyValue { return v.arr }

// Fields returns the object members in their original order.
func (v AnyValue) Fields() []AnyField { return v.obj }

// Field looks up an object member by key. The second return is false when the
// value is not an object or the key is absent.
func (v AnyValue) Field(key string) (AnyValue, bool) {
	if v.kind != AnyObject {
		return AnyValue{}, false
	}
	for _, f := range v.obj {
		if f.Key == key {
			return f.Value, true
		}
	}
	return AnyValue{}, false
}

// StringValue coerces the value to a string if it is string-like
// (string, number or bool). Arrays, objects and null do not coerce.
func (v AnyValue) StringValue() (string, bool) {
	switch v.kind {
	case AnyString:
		return v.str, true
	case AnyNumber:
		return v.num.String(), true
	case AnyBool:
		s, err := cast.ToStringE(v.b)
		if err != nil {
			return "", false
		}
		return s, true
	default:
		return "", false
	}
}

// Interface converts the value to its native Go representation
// (nil, bool, json.Number, string, []interface{} or map[string]interface{}).
// Object member order is not preserved by the resulting map.
func (v AnyValue) Interface() interface{} {
	switch v.kind {
	case AnyBool:
		return v.b
	case AnyNumber:
		return v.num
	case AnyString:
		return v.str
	case AnyArray:
		arr := make([]interface{}, len(v.arr))
		for i, elem := range v.arr {
			arr[i] = elem.Interface()
		}
		return arr
	case AnyObject:
		obj := make(map[string]interface{}, len(v.obj))
		for _, f := range v.obj {
			obj[f.Key] = f.Value.Interface()
		}
		return obj
	default:
		return nil
	}
}

// ParseAnyValue parses raw JSON into an AnyValue.
func ParseAnyValue(data []byte) (AnyValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseAnyValue(dec)
	if err != nil {
		return AnyValue{}, err
	}
	if dec.More() {
		return AnyValue{}, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func (v *AnyValue) UnmarshalJSON(data []byte) error {
	parsed, err := ParseAnyValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v AnyValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parseAnyValue(dec *json.Decoder) (AnyValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return AnyValue{}, err
	}
	switch t := tok.(type) {
	case nil:
		return AnyValue{}, nil
	case bool:
		return NewAnyBool(t), nil
	case json.Number:
		return NewAnyNumber(t), nil
	case string:
		return NewAnyString(t), nil
	case json.Delim:
		switch t {
		case '[':
			arr := []AnyValue{}
			for dec.More() {
				elem, err := parseAnyValue(dec)
				if err != nil {
					return AnyValue{}, err
				}
				arr = append(arr, elem)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return AnyValue{}, err
			}
			return AnyValue{kind: AnyArray, arr: arr}, nil
		case '{':
			obj := []AnyField{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return AnyValue{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return AnyValue{}, errors.Errorf("unexpected object key token %v", keyTok)
				}
				val, err := parseAnyValue(dec)
				if err != nil {
					return AnyValue{}, err
				}
				obj = append(obj, AnyField{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // closing }
				return AnyValue{}, err
			}
			return AnyValue{kind: AnyObject, obj: obj}, nil
		}
	}
	return AnyValue{}, errors.Errorf("unexpected JSON token %v", tok)
}

func (v AnyValue) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case AnyNull:
		buf.WriteString("null")
	case AnyBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case AnyNumber:
		buf.WriteString(v.num.String())
	case AnyString:
		bts, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(bts)
	case AnyArray:
		buf.WriteByte('[')
		for i, elem := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := elem.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case AnyObject:
		buf.WriteByte('{')
		for i, f := range v.obj {
			if i > 0 {
				buf.WriteByte(',')
			}
			bts, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			buf.Write(bts)
			buf.WriteByte(':')
			if err := f.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}
