//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package tool provides internal utilities for tool schema generation.
package tool

import (
	"reflect"
	"strings"

	"github.com/agentgraph-go/agentgraph/tool"
)

// maxNestingDepth bounds schema generation for recursive struct types.
const maxNestingDepth = 16

// GenerateJSONSchema generates a JSON schema from a reflect.Type.
// Struct fields map to object properties using their json tags; non-pointer
// fields without omitempty are required.
func GenerateJSONSchema(t reflect.Type) *tool.Schema {
	if t == nil {
		return &tool.Schema{Type: "object"}
	}
	return structSchema(t, 0)
}

func structSchema(t reflect.Type, depth int) *tool.Schema {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fieldSchema(t, depth)
	}
	if depth > maxNestingDepth {
		return &tool.Schema{Type: "object"}
	}

	schema := &tool.Schema{
		Type:       "object",
		Properties: map[string]*tool.Schema{},
	}
	var required []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := parseJSONTag(field)
		if skip {
			continue
		}
		fs := fieldSchema(field.Type, depth+1)
		applySchemaTag(field.Tag, fs)
		if field.Type.Kind() != reflect.Ptr && !omitEmpty {
			required = append(required, name)
		}
		schema.Properties[name] = fs
	}
	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}

// parseJSONTag resolves the property name of a struct field from its json
// tag and reports whether the field is optional or skipped.
func parseJSONTag(field reflect.StructField) (name string, omitEmpty, skip bool) {
	name = field.Name
	jsonTag := field.Tag.Get("json")
	if jsonTag == "-" {
		return "", false, true
	}
	if jsonTag == "" {
		return name, false, false
	}
	if idx := strings.Index(jsonTag, ","); idx != -1 {
		if jsonTag[:idx] != "" {
			name = jsonTag[:idx]
		}
		omitEmpty = strings.Contains(jsonTag[idx:], "omitempty")
		return name, omitEmpty, false
	}
	return jsonTag, false, false
}

// applySchemaTag applies the jsonschema struct tag to the schema.
// Supported: jsonschema:"description=xxx".
func applySchemaTag(tag reflect.StructTag, schema *tool.Schema) {
	schemaTag := tag.Get("jsonschema")
	if schemaTag == "" {
		return
	}
	for _, item := range strings.Split(schemaTag, ",") {
		kv := strings.SplitN(item, "=", 2)
		if len(kv) == 2 && kv[0] == "description" {
			schema.Description = kv[1]
		}
	}
}

// fieldSchema generates the schema for a single value type.
func fieldSchema(t reflect.Type, depth int) *tool.Schema {
	switch t.Kind() {
	case reflect.String:
		return &tool.Schema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &tool.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &tool.Schema{Type: "number"}
	case reflect.Bool:
		return &tool.Schema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &tool.Schema{
			Type:  "array",
			Items: fieldSchema(t.Elem(), depth+1),
		}
	case reflect.Map:
		return &tool.Schema{
			Type:                 "object",
			AdditionalProperties: fieldSchema(t.Elem(), depth+1),
		}
	case reflect.Ptr:
		return fieldSchema(t.Elem(), depth)
	case reflect.Struct:
		return structSchema(t, depth)
	default:
		return &tool.Schema{Type: "object"}
	}
}
