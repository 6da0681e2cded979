//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package model provides the message and model abstractions shared by the
// graph runtime and the prebuilt nodes.
package model

// Role represents the role of a message author.
type Role string

// Role constants for message authors.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// Message represents a single message in a conversation.
type Message struct {
	// Role is the role of the message author.
	Role Role `json:"role"`
	// Content is the message content.
	Content string `json:"content,omitempty"`
	// ToolID is the ID of the tool call this message responds to.
	ToolID string `json:"tool_id,omitempty"`
	// ToolName is the name of the tool that produced this message.
	ToolName string `json:"tool_name,omitempty"`
	// ToolCalls is the optional tool calls requested by the message.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// IsError marks a tool response that reports a failure instead of a
	// result. Downstream model turns use it to decide whether to retry
	// with corrected arguments.
	IsError bool `json:"is_error,omitempty"`
}

// ToolCall represents a call to a tool (function) requested by the model.
type ToolCall struct {
	// Type of the tool. Currently, only `function` is supported.
	Type string `json:"type"`
	// Function definition for the tool.
	Function FunctionDefinitionParam `json:"function,omitempty"`
	// The ID of the tool call returned by the model.
	ID string `json:"id,omitempty"`
}

// FunctionDefinitionParam represents the function part of a tool call.
type FunctionDefinitionParam struct {
	// The name of the function to be called.
	Name string `json:"name"`
	// A description of what the function does.
	Description string `json:"description,omitempty"`
	// Optional arguments to pass to the function, json-encoded.
	Arguments []byte `json:"arguments,omitempty"`
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return Message{
		Role:    RoleSystem,
		Content: content,
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return Message{
		Role:    RoleUser,
		Content: content,
	}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return Message{
		Role:    RoleAssistant,
		Content: content,
	}
}

// NewToolMessage creates a new tool response message.
func NewToolMessage(toolID, toolName, content string) Message {
	return Message{
		Role:     RoleTool,
		ToolID:   toolID,
		ToolName: toolName,
		Content:  content,
	}
}

// NewToolErrorMessage creates a tool response message that reports a failure.
func NewToolErrorMessage(toolID, toolName, content string) Message {
	return Message{
		Role:     RoleTool,
		ToolID:   toolID,
		ToolName: toolName,
		Content:  content,
		IsError:  true,
	}
}

// NewToolCall creates a function tool call with json-encoded arguments.
func NewToolCall(id, name string, args []byte) ToolCall {
	return ToolCall{
		Type: "function",
		ID:   id,
		Function: FunctionDefinitionParam{
			Name:      name,
			Arguments: args,
		},
	}
}
