//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package function provides function-based tool implementations.
package function

import (
	"context"
	"encoding/json"
	"reflect"

	itool "github.com/agentgraph-go/agentgraph/internal/tool"
	"github.com/agentgraph-go/agentgraph/log"
	"github.com/agentgraph-go/agentgraph/tool"
)

// FunctionTool implements the CallableTool interface for executing functions
// with arguments. It provides a generic way to wrap any typed function as a
// tool that can be called with JSON arguments.
type FunctionTool[I, O any] struct {
	name          string
	description   string
	inputSchema   *tool.Schema
	outputSchema  *tool.Schema
	fn            func(context.Context, I) (O, error)
	captureErrors bool
}

// Option is a function that configures a FunctionTool.
type Option func(*functionToolOptions)

// functionToolOptions holds the configuration options for FunctionTool.
type functionToolOptions struct {
	name          string
	description   string
	inputSchema   *tool.Schema
	outputSchema  *tool.Schema
	captureErrors bool
}

// WithName sets the name of the function tool.
//
// Tool names must comply with model API requirements: use only English
// letters, numbers, underscores, and hyphens.
func WithName(name string) Option {
	return func(opts *functionToolOptions) {
		opts.name = name
	}
}

// WithDescription sets the description of the function tool.
func WithDescription(description string) Option {
	return func(opts *functionToolOptions) {
		opts.description = description
	}
}

// WithInputSchema sets a custom input schema for the function tool.
// When provided, the automatic schema generation will be skipped.
func WithInputSchema(schema *tool.Schema) Option {
	return func(opts *functionToolOptions) {
		opts.inputSchema = schema
	}
}

// WithOutputSchema sets a custom output schema for the function tool.
// When provided, the automatic schema generation will be skipped.
func WithOutputSchema(schema *tool.Schema) Option {
	return func(opts *functionToolOptions) {
		opts.outputSchema = schema
	}
}

// WithCaptureErrors marks the tool's failures as recoverable: a dispatching
// node converts them to error messages even when its own error handling is
// disabled.
func WithCaptureErrors(capture bool) Option {
	return func(opts *functionToolOptions) {
		opts.captureErrors = capture
	}
}

// NewFunctionTool creates a new FunctionTool wrapping the given function.
// Input and output schemas are generated from the function's type parameters
// unless custom schemas are provided.
func NewFunctionTool[I, O any](fn func(context.Context, I) (O, error), opts ...Option) *FunctionTool[I, O] {
	options := &functionToolOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.name == "" {
		log.Warnf("FunctionTool: name is empty")
	}

	var (
		emptyI I
		emptyO O
	)
	iSchema := options.inputSchema
	if iSchema == nil {
		iSchema = itool.GenerateJSONSchema(reflect.TypeOf(emptyI))
	}
	oSchema := options.outputSchema
	if oSchema == nil {
		oSchema = itool.GenerateJSONSchema(reflect.TypeOf(emptyO))
	}

	return &FunctionTool[I, O]{
		name:          options.name,
		description:   options.description,
		fn:            fn,
		inputSchema:   iSchema,
		outputSchema:  oSchema,
		captureErrors: options.captureErrors,
	}
}

// Call executes the function tool with the provided JSON arguments.
// It unmarshals the given arguments into the tool's input type, then calls
// the underlying function.
func (ft *FunctionTool[I, O]) Call(ctx context.Context, jsonArgs []byte) (any, error) {
	var input I
	if err := json.Unmarshal(jsonArgs, &input); err != nil {
		return nil, err
	}
	return ft.fn(ctx, input)
}

// CaptureErrorAsMessage reports whether failures of this tool should be
// captured as error messages rather than propagated.
func (ft *FunctionTool[I, O]) CaptureErrorAsMessage() bool {
	return ft.captureErrors
}

// Declaration returns the tool's declaration information.
func (ft *FunctionTool[I, O]) Declaration() *tool.Declaration {
	return &tool.Declaration{
		Name:         ft.name,
		Description:  ft.description,
		InputSchema:  ft.inputSchema,
		OutputSchema: ft.outputSchema,
	}
}
