//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package prebuilt provides ready-made graph nodes and agent constructions:
// a tool-dispatch node, a schema-validation node, and a reactive agent
// helper wiring a model and a tool node into a compiled graph.
package prebuilt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/panjf2000/ants/v2"

	"github.com/agentgraph-go/agentgraph/graph"
	"github.com/agentgraph-go/agentgraph/log"
	"github.com/agentgraph-go/agentgraph/model"
	"github.com/agentgraph-go/agentgraph/telemetry/trace"
	"github.com/agentgraph-go/agentgraph/tool"
)

// defaultMaxParallelism bounds the goroutine pool used by InvokeParallel.
const defaultMaxParallelism = 8

// errorCapturer is implemented by tools that want their failures captured
// as error messages even when the node's own error handling is disabled.
type errorCapturer interface {
	CaptureErrorAsMessage() bool
}

// ToolNode executes the tool calls requested by the last assistant message
// and appends one tool response message per request, in request order.
//
// A ToolNode is safe for concurrent use: the tool registry is built at
// construction time and read-only afterwards.
type ToolNode struct {
	tools            map[string]tool.CallableTool
	names            []string
	handleToolErrors bool
	pool             *ants.Pool
}

// ToolNodeOption is a function that configures a ToolNode.
type ToolNodeOption func(*toolNodeOptions)

// toolNodeOptions holds the configuration options for ToolNode.
type toolNodeOptions struct {
	handleToolErrors bool
	maxParallelism   int
}

// WithHandleToolErrors controls how tool failures are reported. When true
// (the default), a failing tool produces an error message and the batch
// continues; when false, the failure propagates out of the invocation and
// aborts the remaining requests.
func WithHandleToolErrors(handle bool) ToolNodeOption {
	return func(opts *toolNodeOptions) {
		opts.handleToolErrors = handle
	}
}

// WithMaxParallelism sets the size of the goroutine pool used by
// InvokeParallel (default 8).
func WithMaxParallelism(n int) ToolNodeOption {
	return func(opts *toolNodeOptions) {
		if n > 0 {
			opts.maxParallelism = n
		}
	}
}

// NewToolNode creates a ToolNode dispatching to the given tools.
// Every tool must be callable and carry a unique, non-empty name.
func NewToolNode(tools []tool.Tool, opts ...ToolNodeOption) (*ToolNode, error) {
	options := &toolNodeOptions{
		handleToolErrors: true,
		maxParallelism:   defaultMaxParallelism,
	}
	for _, opt := range opts {
		opt(options)
	}

	node := &ToolNode{
		tools:            make(map[string]tool.CallableTool, len(tools)),
		handleToolErrors: options.handleToolErrors,
	}
	for _, t := range tools {
		decl := t.Declaration()
		if decl == nil || decl.Name == "" {
			return nil, fmt.Errorf("prebuilt: %w", ErrUnnamedTool)
		}
		callable, ok := t.(tool.CallableTool)
		if !ok {
			return nil, fmt.Errorf("prebuilt: tool %s: %w", decl.Name, ErrNotCallable)
		}
		if _, exists := node.tools[decl.Name]; exists {
			return nil, fmt.Errorf("prebuilt: tool %s: %w", decl.Name, ErrDuplicateTool)
		}
		node.tools[decl.Name] = callable
		node.names = append(node.names, decl.Name)
	}

	pool, err := ants.NewPool(options.maxParallelism)
	if err != nil {
		return nil, fmt.Errorf("prebuilt: create tool pool: %w", err)
	}
	node.pool = pool
	return node, nil
}

// Close releases the goroutine pool backing InvokeParallel.
func (n *ToolNode) Close() {
	n.pool.Release()
}

// Invoke dispatches the pending tool calls sequentially.
// The input is either a []model.Message or a graph.State holding one; the
// output has the same shape with one tool response per request appended.
func (n *ToolNode) Invoke(ctx context.Context, input any) (any, error) {
	return n.invoke(ctx, input, false)
}

// InvokeParallel dispatches the pending tool calls concurrently. The result
// messages are re-ordered into request order before being appended, so the
// output is identical to Invoke's for the same input.
func (n *ToolNode) InvokeParallel(ctx context.Context, input any) (any, error) {
	return n.invoke(ctx, input, true)
}

func (n *ToolNode) invoke(ctx context.Context, input any, parallel bool) (any, error) {
	in, err := decodeInput(input)
	if err != nil {
		return nil, err
	}
	calls, err := in.pendingToolCalls()
	if err != nil {
		return nil, err
	}
	results, err := n.dispatch(ctx, calls, parallel)
	if err != nil {
		return nil, err
	}
	return in.withResults(results), nil
}

// NodeFunc adapts the node for use in a graph: it returns only the new tool
// response messages, which the executor merges into the message history.
func (n *ToolNode) NodeFunc() graph.NodeFunc {
	return func(ctx context.Context, state graph.State) (graph.State, error) {
		in, err := decodeInput(state)
		if err != nil {
			return nil, err
		}
		calls, err := in.pendingToolCalls()
		if err != nil {
			return nil, err
		}
		results, err := n.dispatch(ctx, calls, false)
		if err != nil {
			return nil, err
		}
		return graph.State{graph.StateKeyMessages: results}, nil
	}
}

func (n *ToolNode) dispatch(ctx context.Context, calls []model.ToolCall, parallel bool) ([]model.Message, error) {
	if parallel && len(calls) > 1 {
		return runParallel(ctx, n.pool, calls, n.execute)
	}
	return runSequential(ctx, calls, n.execute)
}

// execute runs one tool call. Unknown tools and, when error handling is on,
// tool failures are encoded into the result message; otherwise the failure
// is returned as a *ToolExecutionError.
func (n *ToolNode) execute(ctx context.Context, call model.ToolCall) (model.Message, error) {
	name := call.Function.Name
	ctx, span := trace.Tracer.Start(ctx, trace.SpanName(trace.OperationExecuteTool, name))
	defer span.End()

	t, ok := n.tools[name]
	if !ok {
		content := fmt.Sprintf("Error: %s is not a valid tool, try one of [%s].",
			name, strings.Join(n.names, ", "))
		return model.NewToolErrorMessage(call.ID, name, content), nil
	}

	log.Debugf("executing tool %s with args: %s", name, call.Function.Arguments)
	result, err := safeCall(ctx, t, call.Function.Arguments)
	if err == nil {
		var content string
		content, err = renderResult(result)
		if err == nil {
			return model.NewToolMessage(call.ID, name, content), nil
		}
	}

	if n.handleToolErrors || capturesErrors(t) {
		content := fmt.Sprintf("Error: %v\n Please fix your mistakes.", err)
		return model.NewToolErrorMessage(call.ID, name, content), nil
	}
	return model.Message{}, &ToolExecutionError{Tool: name, CallID: call.ID, Err: err}
}

// safeCall invokes the tool and converts panics into errors, so a panicking
// tool cannot break sibling requests in the same batch.
func safeCall(ctx context.Context, t tool.CallableTool, args []byte) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panic: %v", r)
		}
	}()
	return t.Call(ctx, args)
}

// renderResult renders a tool result as message content: strings verbatim,
// everything else JSON-encoded.
func renderResult(result any) (string, error) {
	if s, ok := result.(string); ok {
		return s, nil
	}
	content, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return string(content), nil
}

// capturesErrors reports whether the tool opted into error capture.
func capturesErrors(t tool.Tool) bool {
	capturer, ok := t.(errorCapturer)
	return ok && capturer.CaptureErrorAsMessage()
}
