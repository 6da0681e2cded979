//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package prebuilt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/panjf2000/ants/v2"
	"github.com/xeipuuv/gojsonschema"

	"github.com/agentgraph-go/agentgraph/graph"
	"github.com/agentgraph-go/agentgraph/model"
	"github.com/agentgraph-go/agentgraph/telemetry/trace"
	"github.com/agentgraph-go/agentgraph/tool"
)

// ValidationNode checks the arguments of pending tool calls against the
// registered input schemas without executing any tool logic. Every request
// produces one tool response message: the canonical form of the coerced
// arguments on success, or an error message on failure. A malformed request
// never aborts the batch.
//
// Schemas come from the same source forms as ToolNode's tools: a typed
// function (tool/function), a struct type (tool/structured), or any
// pre-wrapped tool.Tool.
type ValidationNode struct {
	validators map[string]*argumentValidator
	names      []string
	pool       *ants.Pool
}

// argumentValidator validates one tool's arguments against its compiled
// JSON schema.
type argumentValidator struct {
	name   string
	schema *gojsonschema.Schema
}

// NewValidationNode creates a ValidationNode for the given schema sources.
// Schema names must be unique; every declared input schema must compile.
func NewValidationNode(schemas []tool.Tool) (*ValidationNode, error) {
	node := &ValidationNode{
		validators: make(map[string]*argumentValidator, len(schemas)),
	}
	for _, t := range schemas {
		decl := t.Declaration()
		if decl == nil || decl.Name == "" {
			return nil, fmt.Errorf("prebuilt: %w", ErrUnnamedTool)
		}
		if _, exists := node.validators[decl.Name]; exists {
			return nil, fmt.Errorf("prebuilt: schema %s: %w", decl.Name, ErrDuplicateTool)
		}
		compiled, err := compileSchema(decl.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("prebuilt: compile schema for %s: %w", decl.Name, err)
		}
		node.validators[decl.Name] = &argumentValidator{name: decl.Name, schema: compiled}
		node.names = append(node.names, decl.Name)
	}
	pool, err := ants.NewPool(defaultMaxParallelism)
	if err != nil {
		return nil, fmt.Errorf("prebuilt: create validation pool: %w", err)
	}
	node.pool = pool
	return node, nil
}

// Close releases the goroutine pool backing InvokeParallel.
func (n *ValidationNode) Close() {
	n.pool.Release()
}

func compileSchema(schema *tool.Schema) (*gojsonschema.Schema, error) {
	if schema == nil {
		schema = &tool.Schema{Type: "object"}
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
}

// Invoke validates the pending tool calls sequentially.
// The input is either a []model.Message or a graph.State holding one; the
// output has the same shape with one tool response per request appended.
func (n *ValidationNode) Invoke(ctx context.Context, input any) (any, error) {
	return n.invoke(ctx, input, false)
}

// InvokeParallel validates the pending tool calls concurrently, re-ordering
// results into request order. Output is identical to Invoke's for the same
// input.
func (n *ValidationNode) InvokeParallel(ctx context.Context, input any) (any, error) {
	return n.invoke(ctx, input, true)
}

func (n *ValidationNode) invoke(ctx context.Context, input any, parallel bool) (any, error) {
	in, err := decodeInput(input)
	if err != nil {
		return nil, err
	}
	calls, err := in.pendingToolCalls()
	if err != nil {
		return nil, err
	}
	var results []model.Message
	if parallel && len(calls) > 1 {
		results, err = runParallel(ctx, n.pool, calls, n.validate)
	} else {
		results, err = runSequential(ctx, calls, n.validate)
	}
	if err != nil {
		return nil, err
	}
	return in.withResults(results), nil
}

// NodeFunc adapts the node for use in a graph: it returns only the new tool
// response messages, which the executor merges into the message history.
func (n *ValidationNode) NodeFunc() graph.NodeFunc {
	return func(ctx context.Context, state graph.State) (graph.State, error) {
		in, err := decodeInput(state)
		if err != nil {
			return nil, err
		}
		calls, err := in.pendingToolCalls()
		if err != nil {
			return nil, err
		}
		results, err := runSequential(ctx, calls, n.validate)
		if err != nil {
			return nil, err
		}
		return graph.State{graph.StateKeyMessages: results}, nil
	}
}

// validate checks one tool call's arguments against the registered schema.
// All failures are encoded into the result message; validate never aborts
// the batch.
func (n *ValidationNode) validate(ctx context.Context, call model.ToolCall) (model.Message, error) {
	name := call.Function.Name
	_, span := trace.Tracer.Start(ctx, trace.SpanName(trace.OperationValidateTool, name))
	defer span.End()

	v, ok := n.validators[name]
	if !ok {
		content := fmt.Sprintf("Error: %s is not a valid tool, try one of [%s].",
			name, strings.Join(n.names, ", "))
		return model.NewToolErrorMessage(call.ID, name, content), nil
	}

	args := map[string]any{}
	if len(call.Function.Arguments) > 0 {
		if err := json.Unmarshal(call.Function.Arguments, &args); err != nil {
			content := fmt.Sprintf("Error: invalid arguments for %s: %v\n Please fix your mistakes.", name, err)
			return model.NewToolErrorMessage(call.ID, name, content), nil
		}
	}

	result, err := v.schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		content := fmt.Sprintf("Error: validating arguments for %s: %v\n Please fix your mistakes.", name, err)
		return model.NewToolErrorMessage(call.ID, name, content), nil
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			details = append(details, verr.String())
		}
		content := fmt.Sprintf("Error: validation failed for %s: %s\n Please fix your mistakes.",
			name, strings.Join(details, "; "))
		return model.NewToolErrorMessage(call.ID, name, content), nil
	}

	canonical, err := json.Marshal(args)
	if err != nil {
		content := fmt.Sprintf("Error: rendering arguments for %s: %v\n Please fix your mistakes.", name, err)
		return model.NewToolErrorMessage(call.ID, name, content), nil
	}
	return model.NewToolMessage(call.ID, name, string(canonical)), nil
}
