package rowmap

import (
	"errors"
	"fmt"
	"math"
)

// ErrNull marks a NULL value read into a non-nullable field.
var ErrNull = errors.New("unexpected NULL")

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, ErrNull
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to integer", v)
	}
}

func toInt32(v any) (int32, error) {
	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("value %d overflows int32", n)
	}
	return int32(n), nil
}

func toInt16(v any) (int16, error) {
	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt16 || n > math.MaxInt16 {
		return 0, fmt.Errorf("value %d overflows int16", n)
	}
	return int16(n), nil
}

// toBool accepts driver booleans and the 0/1 integers engines without a
// boolean storage class return.
func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, ErrNull
	case bool:
		return b, nil
	case int64:
		switch b {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return false, fmt.Errorf("integer %d is not a boolean", b)
	default:
		return false, fmt.Errorf("cannot coerce %T to bool", v)
	}
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", ErrNull
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("cannot coerce %T to text", v)
	}
}
