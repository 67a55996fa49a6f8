package rolodex

import (
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// SchemaOf builds an OpenAPI object schema from a struct's `json`, `desc`,
// `ex` and `validate` tags. Embedded structs are flattened the way
// encoding/json flattens them.
func SchemaOf(description string, v any) *OpenAPISchema {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	schema := &OpenAPISchema{
		Type:        "object",
		Description: description,
		Properties:  map[string]*OpenAPISchema{},
	}
	collectFields(t, schema)
	return schema
}

func collectFields(t reflect.Type, schema *OpenAPISchema) {
	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			collectFields(field.Type, schema)
			continue
		}
		if !field.IsExported() {
			continue
		}

		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		prop := propertyOf(field.Type)
		prop.Description = field.Tag.Get("desc")
		if ex := field.Tag.Get("ex"); ex != "" {
			if prop.Type == "array" {
				prop.Example = strings.Split(ex, ",")
			} else {
				prop.Example = ex
			}
		}
		schema.Properties[name] = prop

		for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
			if rule == "required" {
				schema.Required = append(schema.Required, name)
			}
		}
	}
}

func propertyOf(t reflect.Type) *OpenAPISchema {
	if t == timeType {
		return &OpenAPISchema{Type: "string", Format: "date-time"}
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int32:
		return &OpenAPISchema{Type: "integer", Format: "int32"}
	case reflect.Int64:
		return &OpenAPISchema{Type: "integer", Format: "int64"}
	case reflect.Float32:
		return &OpenAPISchema{Type: "number", Format: "float"}
	case reflect.Float64:
		return &OpenAPISchema{Type: "number", Format: "double"}
	case reflect.Bool:
		return &OpenAPISchema{Type: "boolean"}
	case reflect.Slice:
		return &OpenAPISchema{Type: "array", Items: propertyOf(t.Elem())}
	default:
		return &OpenAPISchema{Type: "string"}
	}
}
