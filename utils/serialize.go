package utils

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
)

var (
	bigIntPtrType = reflect.TypeOf((*big.Int)(nil))
	bigIntType    = reflect.TypeOf(big.Int{})
)

// StringifyBigInts walks v and returns a copy with every big integer rendered
// as a decimal string. Structs become maps keyed by field name, slices and
// maps are walked recursively, everything else passes through unchanged. Use
// this to make simulation traces printable and JSON-safe: a 256-bit amount
// does not survive a float64 round trip.
func StringifyBigInts(v interface{}) interface{} {
	return rewriteBigInts(reflect.ValueOf(v), func(x *big.Int) string {
		return x.String()
	})
}

// HexifyBigInts is StringifyBigInts with 0x-prefixed hexadecimal rendering,
// matching how amounts appear in raw transaction payloads.
func HexifyBigInts(v interface{}) interface{} {
	return rewriteBigInts(reflect.ValueOf(v), func(x *big.Int) string {
		s := x.Text(16)
		if strings.HasPrefix(s, "-") {
			return "-0x" + s[1:]
		}
		return "0x" + s
	})
}

func rewriteBigInts(rv reflect.Value, render func(*big.Int) string) interface{} {
	if !rv.IsValid() {
		return nil
	}

	if rv.Type() == bigIntPtrType {
		if rv.IsNil() {
			return nil
		}
		return render(rv.Interface().(*big.Int))
	}
	if rv.Type() == bigIntType && rv.CanInterface() {
		x := rv.Interface().(big.Int)
		return render(&x)
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return rewriteBigInts(rv.Elem(), render)
	case reflect.Struct:
		t := rv.Type()
		out := make(map[string]interface{}, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			field := t.Field(i)
			if field.PkgPath != "" { // unexported
				continue
			}
			out[field.Name] = rewriteBigInts(rv.Field(i), render)
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		fallthrough
	case reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rewriteBigInts(rv.Index(i), render)
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = rewriteBigInts(iter.Value(), render)
		}
		return out
	default:
		if !rv.CanInterface() {
			return nil
		}
		return rv.Interface()
	}
}
