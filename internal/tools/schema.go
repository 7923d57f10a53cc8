package tools

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// schemaFor derives the input schema of a params struct. jsonschema-go
// reads property names, required fields and descriptions from the json and
// jsonschema tags; oneof, min and max are lifted from validate tags.
func schemaFor[P any]() *jsonschema.Schema {
	s, err := jsonschema.For[P](nil)
	if err != nil {
		panic(fmt.Sprintf("tools: cannot derive schema for %T: %v", *new(P), err))
	}
	constrain(s, reflect.TypeFor[P]())
	return s
}

func constrain(s *jsonschema.Schema, t reflect.Type) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	for i := range t.NumField() {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		prop, ok := s.Properties[name]
		if !ok {
			continue
		}

		// Optional pointers are omitted, never sent as null.
		if prop.Type == "" && len(prop.Types) == 2 && slices.Contains(prop.Types, "null") {
			null := slices.Index(prop.Types, "null")
			prop.Type, prop.Types = prop.Types[1-null], nil
		}

		for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
			key, arg, _ := strings.Cut(rule, "=")
			switch key {
			case "oneof":
				for _, v := range strings.Fields(arg) {
					prop.Enum = append(prop.Enum, v)
				}
			case "min":
				if n, err := strconv.ParseFloat(arg, 64); err == nil {
					prop.Minimum = &n
				}
			case "max":
				if n, err := strconv.ParseFloat(arg, 64); err == nil {
					prop.Maximum = &n
				}
			}
		}
	}
}

// jsonKind names the JSON type a Go value decodes from.
func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	default:
		return "a string"
	}
}
