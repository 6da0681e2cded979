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
	"fmt"

	"github.com/agentgraph-go/agentgraph/graph"
	"github.com/agentgraph-go/agentgraph/model"
)

// inputShape records which of the two accepted input forms a caller used,
// so the output can mirror it.
type inputShape int

const (
	// shapeMessageList is a bare []model.Message input.
	shapeMessageList inputShape = iota
	// shapeState is a graph.State input carrying a messages field.
	shapeState
	// shapeStateMap is a state passed as a plain map[string]any; the output
	// uses the same plain map type so callers can assert it back.
	shapeStateMap
)

// nodeInput is the decoded form of a node invocation input. The shape is
// detected once at entry and carried through to output encoding.
type nodeInput struct {
	shape    inputShape
	messages []model.Message
	// state holds the original state for shapeState inputs.
	state graph.State
}

// decodeInput accepts either a bare message list or a state holding a
// messages field.
func decodeInput(input any) (*nodeInput, error) {
	switch v := input.(type) {
	case []model.Message:
		return &nodeInput{shape: shapeMessageList, messages: v}, nil
	case graph.State:
		return decodeStateInput(v, shapeState)
	case map[string]any:
		return decodeStateInput(graph.State(v), shapeStateMap)
	default:
		return nil, fmt.Errorf("prebuilt: %w, got %T", ErrInvalidInput, input)
	}
}

func decodeStateInput(state graph.State, shape inputShape) (*nodeInput, error) {
	msgData, ok := state[graph.StateKeyMessages]
	if !ok {
		return nil, fmt.Errorf("prebuilt: %w", ErrNoMessages)
	}
	messages, ok := msgData.([]model.Message)
	if !ok {
		return nil, fmt.Errorf("prebuilt: %w, messages has type %T", ErrInvalidInput, msgData)
	}
	return &nodeInput{shape: shape, messages: messages, state: state}, nil
}

// pendingToolCalls extracts the tool-call requests from the last message.
func (in *nodeInput) pendingToolCalls() ([]model.ToolCall, error) {
	if len(in.messages) == 0 {
		return nil, fmt.Errorf("prebuilt: %w", ErrNoMessages)
	}
	last := in.messages[len(in.messages)-1]
	if last.Role != model.RoleAssistant {
		return nil, fmt.Errorf("prebuilt: %w", ErrLastMessageNotAssistant)
	}
	if len(last.ToolCalls) == 0 {
		return nil, fmt.Errorf("prebuilt: %w", ErrNoToolCalls)
	}
	return last.ToolCalls, nil
}

// withResults returns the input with the result messages appended, in the
// same shape the caller used. The input itself is not mutated.
func (in *nodeInput) withResults(results []model.Message) any {
	merged := make([]model.Message, 0, len(in.messages)+len(results))
	merged = append(merged, in.messages...)
	merged = append(merged, results...)
	if in.shape == shapeMessageList {
		return merged
	}
	out := in.state.Clone()
	out[graph.StateKeyMessages] = merged
	if in.shape == shapeStateMap {
		return map[string]any(out)
	}
	return out
}
