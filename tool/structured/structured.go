//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package structured provides schema-only tools declared from struct types.
// A StructTool carries the JSON schema of a record type without any
// execution logic, which is what validation nodes need.
package structured

import (
	"reflect"

	itool "github.com/agentgraph-go/agentgraph/internal/tool"
	"github.com/agentgraph-go/agentgraph/log"
	"github.com/agentgraph-go/agentgraph/tool"
)

// StructTool declares a tool whose input schema is generated from the
// struct type T. It is not callable.
type StructTool[T any] struct {
	name        string
	description string
	inputSchema *tool.Schema
}

// Option is a function that configures a StructTool.
type Option func(*structToolOptions)

// structToolOptions holds the configuration options for StructTool.
type structToolOptions struct {
	name        string
	description string
}

// WithName sets the name of the tool.
func WithName(name string) Option {
	return func(opts *structToolOptions) {
		opts.name = name
	}
}

// WithDescription sets the description of the tool.
func WithDescription(description string) Option {
	return func(opts *structToolOptions) {
		opts.description = description
	}
}

// New creates a StructTool for the struct type T.
func New[T any](opts ...Option) *StructTool[T] {
	options := &structToolOptions{}
	for _, opt := range opts {
		opt(options)
	}
	var empty T
	if options.name == "" {
		if t := reflect.TypeOf(empty); t != nil && t.Name() != "" {
			options.name = t.Name()
		} else {
			log.Warnf("StructTool: name is empty")
		}
	}
	return &StructTool[T]{
		name:        options.name,
		description: options.description,
		inputSchema: itool.GenerateJSONSchema(reflect.TypeOf(empty)),
	}
}

// Declaration returns the tool's declaration information.
func (st *StructTool[T]) Declaration() *tool.Declaration {
	return &tool.Declaration{
		Name:        st.name,
		Description: st.description,
		InputSchema: st.inputSchema,
	}
}
