package ir

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Value is a sealed interface over the scalar values a filter clause can
// carry. Only Null, String, Int, Float, Bool and Time implement it.
type Value interface {
	value() // Sealed
	fmt.Stringer
}

// Null represents a missing cell.
type Null struct{}

func (Null) value()         {}
func (Null) String() string { return "null" }

// String is a text value.
type String string

func (String) value()           {}
func (s String) String() string { return string(s) }

// Int is an integral value.
type Int int64

func (Int) value()           {}
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a floating point value.
type Float float64

func (Float) value() {}
func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

// Bool is a boolean value.
type Bool bool

func (Bool) value()           {}
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Time is a timestamp value. Always stored in UTC.
type Time time.Time

func (Time) value()           {}
func (t Time) String() string { return time.Time(t).UTC().Format(time.RFC3339) }

// NewTime creates a Time normalised to UTC.
func NewTime(t time.Time) Time {
	return Time(t.UTC())
}

// FromAny converts a Go value (as produced by database/sql scanning, YAML,
// JSON or CUE decoding) into a Value.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case []byte:
		return String(string(val)), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		if val > 1<<63-1 {
			return nil, fmt.Errorf("unsigned value out of int64 range: %d", val)
		}
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return Int(n), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val, err)
		}
		return Float(f), nil
	case time.Time:
		return NewTime(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

// ToAny converts a Value back to a native Go value suitable for use as a
// SQL parameter.
func ToAny(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case Time:
		return time.Time(val)
	default:
		return nil
	}
}

// rank orders value kinds so that Compare is total across kinds.
// Int and Float share a rank and compare numerically.
func rank(v Value) int {
	switch v.(type) {
	case Null, nil:
		return 0
	case Bool:
		return 1
	case Int, Float:
		return 2
	case Time:
		return 3
	case String:
		return 4
	default:
		return 5
	}
}

// Compare orders two values. Nulls sort first, then booleans, numbers,
// times and strings. Ints and Floats compare numerically.
func Compare(a, b Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch av := a.(type) {
	case Bool:
		bv := b.(Bool)
		switch {
		case av == bv:
			return 0
		case !bool(av):
			return -1
		default:
			return 1
		}
	case Int:
		if bv, ok := b.(Int); ok {
			return cmp.Compare(av, bv)
		}
		return cmp.Compare(float64(av), float64(b.(Float)))
	case Float:
		if bv, ok := b.(Float); ok {
			return cmp.Compare(av, bv)
		}
		return cmp.Compare(float64(av), float64(b.(Int)))
	case Time:
		return time.Time(av).Compare(time.Time(b.(Time)))
	case String:
		return cmp.Compare(av, b.(String))
	default:
		return 0
	}
}

// Equal reports whether two values are equal under Compare.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}
