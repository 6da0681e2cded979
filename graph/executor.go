//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"context"
	"fmt"

	"github.com/agentgraph-go/agentgraph/log"
	"github.com/agentgraph-go/agentgraph/telemetry/trace"
)

// defaultMaxSteps bounds the number of node executions per invocation so
// that cyclic graphs with a broken exit condition terminate.
const defaultMaxSteps = 100

// Executor executes a compiled graph with an initial state.
type Executor struct {
	graph    *Graph
	maxSteps int
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption func(*ExecutorOptions)

// ExecutorOptions contains configuration options for creating an Executor.
type ExecutorOptions struct {
	// MaxSteps is the maximum number of node executions per invocation.
	MaxSteps int
}

// WithMaxSteps sets the maximum number of node executions per invocation.
func WithMaxSteps(steps int) ExecutorOption {
	return func(opts *ExecutorOptions) {
		if steps > 0 {
			opts.MaxSteps = steps
		}
	}
}

// NewExecutor creates a new graph executor.
func NewExecutor(graph *Graph, opts ...ExecutorOption) (*Executor, error) {
	if err := graph.validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	options := ExecutorOptions{MaxSteps: defaultMaxSteps}
	for _, opt := range opts {
		opt(&options)
	}
	return &Executor{
		graph:    graph,
		maxSteps: options.MaxSteps,
	}, nil
}

// Execute runs the graph to completion and returns the final state.
// The initial state is merged over the schema defaults; the input state is
// not mutated.
func (e *Executor) Execute(ctx context.Context, initialState State, invocationID string) (State, error) {
	ctx, span := trace.Tracer.Start(ctx, trace.SpanName(trace.OperationExecuteGraph, invocationID))
	defer span.End()

	schema := e.graph.Schema()
	state := schema.Init()
	state = schema.ApplyUpdate(state, initialState.Clone())

	currentNodeID := e.graph.EntryPoint()
	for step := 0; ; step++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if currentNodeID == End {
			return state, nil
		}
		if step >= e.maxSteps {
			return nil, fmt.Errorf("executing graph %s: %w", invocationID, ErrMaxStepsExceeded)
		}

		node, exists := e.graph.GetNode(currentNodeID)
		if !exists {
			return nil, fmt.Errorf("node %s: %w", currentNodeID, ErrNodeNotFound)
		}
		log.Debugf("executing node %s (invocation %s)", node.ID, invocationID)
		if node.Function != nil {
			update, err := node.Function(ctx, state)
			if err != nil {
				return nil, fmt.Errorf("error executing node %s: %w", node.ID, err)
			}
			state = schema.ApplyUpdate(state, update)
		}

		nextNodeID, err := e.selectNextNode(ctx, node, state)
		if err != nil {
			return nil, err
		}
		currentNodeID = nextNodeID
	}
}

// selectNextNode picks the next node from the conditional edge when one is
// declared, otherwise from the first unconditional edge.
func (e *Executor) selectNextNode(ctx context.Context, node *Node, state State) (string, error) {
	if condEdge, ok := e.graph.GetConditionalEdge(node.ID); ok {
		key, err := condEdge.Condition(ctx, state)
		if err != nil {
			return "", fmt.Errorf("condition evaluation failed for node %s: %w", node.ID, err)
		}
		if target, ok := condEdge.PathMap[key]; ok {
			return target, nil
		}
		// Conditions may also return a node ID directly.
		if key == End {
			return End, nil
		}
		if _, exists := e.graph.GetNode(key); exists {
			return key, nil
		}
		return "", fmt.Errorf("node %s routing key %q: %w", node.ID, key, ErrUnknownRoutingKey)
	}
	edges := e.graph.GetEdges(node.ID)
	if len(edges) == 0 {
		return "", fmt.Errorf("node %s: %w", node.ID, ErrNoOutgoingEdge)
	}
	return edges[0].To, nil
}
