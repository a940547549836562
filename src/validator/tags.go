package validator

import (
	"reflect"
	"strings"
)

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
	}
	if name == "" {
		return fld.Name
	}
	return name
}
