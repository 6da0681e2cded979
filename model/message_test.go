//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	require.True(t, RoleAssistant.IsValid())
	require.True(t, RoleTool.IsValid())
	require.False(t, Role("robot").IsValid())
	require.Equal(t, "assistant", RoleAssistant.String())
}

func TestMessageConstructors(t *testing.T) {
	require.Equal(t, Message{Role: RoleSystem, Content: "s"}, NewSystemMessage("s"))
	require.Equal(t, Message{Role: RoleUser, Content: "u"}, NewUserMessage("u"))
	require.Equal(t, Message{Role: RoleAssistant, Content: "a"}, NewAssistantMessage("a"))

	msg := NewToolMessage("id-1", "calc", "42")
	require.Equal(t, RoleTool, msg.Role)
	require.Equal(t, "id-1", msg.ToolID)
	require.Equal(t, "calc", msg.ToolName)
	require.False(t, msg.IsError)

	errMsg := NewToolErrorMessage("id-1", "calc", "Error: boom")
	require.True(t, errMsg.IsError)
}

func TestNewToolCall(t *testing.T) {
	call := NewToolCall("id-1", "calc", []byte(`{"a":1}`))
	require.Equal(t, "function", call.Type)
	require.Equal(t, "id-1", call.ID)
	require.Equal(t, "calc", call.Function.Name)
	require.JSONEq(t, `{"a":1}`, string(call.Function.Arguments))
}

func TestResponse_IsToolCallResponse(t *testing.T) {
	require.False(t, (&Response{}).IsToolCallResponse())
	require.False(t, (&Response{
		Choices: []Choice{{Message: NewAssistantMessage("hi")}},
	}).IsToolCallResponse())
	require.True(t, (&Response{
		Choices: []Choice{{Message: Message{
			Role:      RoleAssistant,
			ToolCalls: []ToolCall{NewToolCall("id", "calc", nil)},
		}}},
	}).IsToolCallResponse())
}
