package driver

import (
	"fmt"
	"reflect"
)

// bindArgs normalizes statement parameters. The bind kind is inferred
// purely from each value's runtime kind: integers of any width bind as
// int64, floats as float64, and anything that is not already text binds
// as its textual form. All parameters for one statement are bound
// together.
func bindArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = bindValue(a)
	}
	return out
}

func bindValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		return v
	case []byte:
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		if rv.Bool() {
			return int64(1)
		}
		return int64(0)
	default:
		return fmt.Sprint(v)
	}
}
