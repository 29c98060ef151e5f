package dto

import (
	"reflect"
	"strings"
)

// SanitizeStruct trims whitespace on every exported string field
// (including *string) of a struct pointer before validation.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(strings.TrimSpace(elem.String()))
			}
		}
	}
}
