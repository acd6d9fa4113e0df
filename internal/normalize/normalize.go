// Package normalize provides reflection helpers that reshape loosely typed values
// before they are returned to API clients.
package normalize

import (
	"fmt"
	"reflect"

	"github.com/oszuidwest/zwfm-webutils/internal/jsonpatch"
	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
)

var stringPtrType = reflect.TypeOf((*string)(nil))

// NullToEmpty walks v and replaces every nil *string field with a pointer to "".
// Nested structs, pointers, interfaces, slices and arrays are followed. v must be a
// pointer (or a slice) for the changes to be visible to the caller; anything else is a no-op.
func NullToEmpty(v any) {
	if v == nil {
		return
	}
	w := walker{seen: make(map[visit]struct{})}
	w.walk(reflect.ValueOf(v))
}

// visit identifies a pointer by address and type. A struct and its first
// field share an address, so the address alone is not enough.
type visit struct {
	typ reflect.Type
	ptr uintptr
}

type walker struct {
	// pointers already visited, so cyclic graphs terminate
	seen map[visit]struct{}
}

func (w *walker) walk(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return
		}
		key := visit{typ: v.Type(), ptr: v.Pointer()}
		if _, ok := w.seen[key]; ok {
			return
		}
		w.seen[key] = struct{}{}
		w.walk(v.Elem())

	case reflect.Interface:
		if !v.IsNil() {
			w.walk(v.Elem())
		}

	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			w.walk(v.Index(i))
		}

	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			field := v.Field(i)
			if field.Type() == stringPtrType {
				if field.IsNil() && field.CanSet() {
					empty := ""
					field.Set(reflect.ValueOf(&empty))
				}
				continue
			}
			w.walk(field)
		}
	}
}

// ConvertTo copies v into a value of a similarly shaped type T by way of JSON.
// Fields are matched by their JSON names; unmatched fields are dropped.
func ConvertTo[T any](v any) (T, error) {
	data := jsonpatch.Serialize(v)
	if data == "" {
		var zero T
		err := fmt.Errorf("cannot serialize %T", v)
		logger.Error("Conversion to %T failed: %v", zero, err)
		return zero, err
	}

	out, err := jsonpatch.Deserialize[T](data)
	if err != nil {
		logger.Error("Conversion of %T to %T failed: %v", v, out, err)
		return out, err
	}
	return out, nil
}
