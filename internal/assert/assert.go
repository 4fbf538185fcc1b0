// Package assert panics on programmer errors, such as a constructor handed a
// missing dependency. It is never used for conditions caused by the backend.
package assert

import (
	"fmt"
	"reflect"
)

// NotNil panics if value is nil, including a nil pointer, map, slice, func or
// channel stored in an interface.
func NotNil(value any, name string) {
	if isNil(value) {
		panic(fmt.Sprintf("%s must not be nil", name))
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func NotEmpty(str, name string) {
	if str == "" {
		panic(fmt.Sprintf("%s must not be empty", name))
	}
}
