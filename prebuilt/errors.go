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
	"errors"
	"fmt"
)

// Configuration errors returned at construction time.
var (
	ErrUnnamedTool          = errors.New("tool has no name")
	ErrDuplicateTool        = errors.New("duplicate tool name")
	ErrNotCallable          = errors.New("tool is not callable")
	ErrConflictingModifiers = errors.New("cannot set both messages modifier and state modifier")
)

// Input errors returned at invocation time.
var (
	ErrInvalidInput            = errors.New("input must be []model.Message or graph.State")
	ErrNoMessages              = errors.New("no messages in input")
	ErrNoToolCalls             = errors.New("last message has no pending tool calls")
	ErrLastMessageNotAssistant = errors.New("last message is not an assistant message")
)

// ToolExecutionError reports a tool failure that was not captured as an
// error message. It aborts the remaining requests of the batch.
type ToolExecutionError struct {
	// Tool is the name of the failing tool.
	Tool string
	// CallID is the ID of the originating tool call.
	CallID string
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s (call %s) failed: %v", e.Tool, e.CallID, e.Err)
}

// Unwrap returns the underlying failure.
func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}
