package table

import (
	"fmt"
	"strconv"

	"github.com/reldb/reldb/internal/reldberr"
)

// Coerce converts value to the given ColumnType, failing with
// reldberr.ErrTypeCoercion when the conversion is lossy-unsafe or the value
// has no sensible representation in t (spec.md S3's "every value inserted
// is coerced to its column's type; coercion failure aborts the insert").
func Coerce(value any, t ColumnType) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch t {
	case TypeString:
		return coerceString(value)
	case TypeInteger:
		return coerceInteger(value)
	case TypeReal:
		return coerceReal(value)
	case TypeBoolean:
		return coerceBoolean(value)
	case TypeList:
		return coerceList(value)
	default:
		return nil, fmt.Errorf("coerce to unknown type: %w", reldberr.ErrTypeCoercion)
	}
}

func coerceString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return nil, fmt.Errorf("coerce %v to string: %w", value, reldberr.ErrTypeCoercion)
	}
}

func coerceInteger(value any) (any, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("coerce %q to integer: %w", v, reldberr.ErrTypeCoercion)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("coerce %v to integer: %w", value, reldberr.ErrTypeCoercion)
	}
}

func coerceReal(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("coerce %q to real: %w", v, reldberr.ErrTypeCoercion)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("coerce %v to real: %w", value, reldberr.ErrTypeCoercion)
	}
}

func coerceBoolean(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("coerce %q to boolean: %w", v, reldberr.ErrTypeCoercion)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("coerce %v to boolean: %w", value, reldberr.ErrTypeCoercion)
	}
}

func coerceList(value any) (any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	default:
		return nil, fmt.Errorf("coerce %v to list: %w", value, reldberr.ErrTypeCoercion)
	}
}

// Compare orders two already-coerced values of type t, returning a negative
// number, zero, or a positive number as a sorts before, equal to, or after
// b. A nil value (tombstone slot or SQL-style null) always sorts last, per
// spec.md S8's "order_by on a column containing nulls (nulls sort last)".
func Compare(a, b any, t ColumnType) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}

	switch t {
	case TypeInteger:
		av, bv := a.(int64), b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case TypeReal:
		av, bv := a.(float64), b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case TypeBoolean:
		av, bv := a.(bool), b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case TypeList:
		av, bv := a.([]any), b.([]any)
		if len(av) != len(bv) {
			return len(av) - len(bv)
		}
		return 0
	default: // TypeString
		av, bv := a.(string), b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	}
}

// Less adapts Compare into the strict-less predicate internal/btree needs.
func Less(t ColumnType) func(a, b any) bool {
	return func(a, b any) bool {
		return Compare(a, b, t) < 0
	}
}
