//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package tool provides the tool abstraction used by the graph nodes.
package tool

import "context"

// Tool is the interface that all tools must implement.
// A Tool carries metadata; whether it can be executed depends on the
// additional interfaces it implements.
type Tool interface {
	// Declaration returns the tool's declaration information.
	Declaration() *Declaration
}

// CallableTool is a tool that can be executed with json-encoded arguments.
type CallableTool interface {
	Tool

	// Call executes the tool with the given json-encoded arguments.
	Call(ctx context.Context, jsonArgs []byte) (any, error)
}

// Declaration describes a tool: its name, description, and the JSON schemas
// of its input and output.
type Declaration struct {
	// Name is the unique name of the tool.
	Name string `json:"name"`
	// Description describes what the tool does.
	Description string `json:"description"`
	// InputSchema is the JSON schema of the tool's arguments.
	InputSchema *Schema `json:"input_schema,omitempty"`
	// OutputSchema is the JSON schema of the tool's result.
	OutputSchema *Schema `json:"output_schema,omitempty"`
}

// Schema is a JSON schema describing a value. It covers the subset of JSON
// Schema that tool declarations need.
type Schema struct {
	// Type is the JSON type: "object", "array", "string", "integer",
	// "number", "boolean".
	Type string `json:"type,omitempty"`
	// Description describes the value.
	Description string `json:"description,omitempty"`
	// Properties maps property names to their schemas for object types.
	Properties map[string]*Schema `json:"properties,omitempty"`
	// Required lists the property names that must be present.
	Required []string `json:"required,omitempty"`
	// Items is the element schema for array types.
	Items *Schema `json:"items,omitempty"`
	// Enum restricts the value to a fixed set.
	Enum []any `json:"enum,omitempty"`
	// AdditionalProperties is the value schema for map-like objects.
	AdditionalProperties *Schema `json:"additionalProperties,omitempty"`
	// Ref is a reference to a schema under $defs.
	Ref string `json:"$ref,omitempty"`
	// Defs holds reusable schema definitions.
	Defs map[string]*Schema `json:"$defs,omitempty"`
}
