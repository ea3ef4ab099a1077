package block

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueKind discriminates a Value.
type ValueKind uint8

const (
	IntValue ValueKind = iota
	FloatValue
	StringValue
	BoolValue
)

// Value is a variable's initial value or a list element.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

// Int returns an integer value.
func Int(v int64) Value { return Value{Kind: IntValue, Int: v} }

// Float returns a float value.
func Float(v float64) Value { return Value{Kind: FloatValue, Float: v} }

// String returns a string value.
func String(s string) Value { return Value{Kind: StringValue, Str: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: BoolValue, Bool: b} }

// Text renders v the way it appears inside a literal input: integers
// without a fraction, floats always with one ("10.0"), booleans as
// "True"/"False".
func (v Value) Text() string {
	switch v.Kind {
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	case FloatValue:
		return FormatFloat(v.Float)
	case BoolValue:
		if v.Bool {
			return "True"
		}
		return "False"
	}
	return v.Str
}

// FormatFloat renders f with a trailing ".0" when it is integral.
func FormatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if math.IsNaN(f) {
		return "nan"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// MarshalJSON writes numbers as JSON numbers, strings and booleans as-is.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case IntValue:
		return []byte(strconv.FormatInt(v.Int, 10)), nil
	case FloatValue:
		if math.IsInf(v.Float, 0) || math.IsNaN(v.Float) {
			return json.Marshal(FormatFloat(v.Float))
		}
		return []byte(strconv.FormatFloat(v.Float, 'g', -1, 64)), nil
	case BoolValue:
		return json.Marshal(v.Bool)
	}
	return json.Marshal(v.Str)
}

// UnmarshalJSON accepts a number, string or boolean.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			*v = Int(int64(x))
		} else {
			*v = Float(x)
		}
	case string:
		*v = String(x)
	case bool:
		*v = Bool(x)
	case nil:
		*v = String("")
	default:
		return fmt.Errorf("block: unsupported value %s", data)
	}
	return nil
}
