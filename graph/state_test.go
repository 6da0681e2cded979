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
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentgraph-go/agentgraph/model"
)

func TestStateClone(t *testing.T) {
	original := State{"a": 1, "b": "two"}
	clone := original.Clone()
	clone["a"] = 10
	require.Equal(t, 1, original["a"])
	require.Equal(t, "two", clone["b"])
}

func TestDefaultReducer(t *testing.T) {
	require.Equal(t, "new", DefaultReducer("old", "new"))
	require.Equal(t, "old", DefaultReducer("old", nil))
}

func TestMessageReducer(t *testing.T) {
	existing := []model.Message{model.NewUserMessage("hi")}

	t.Run("appends slice", func(t *testing.T) {
		merged := MessageReducer(existing, []model.Message{model.NewAssistantMessage("hello")})
		messages := merged.([]model.Message)
		require.Len(t, messages, 2)
		require.Equal(t, "hello", messages[1].Content)
		// The original backing slice is not shared.
		require.Len(t, existing, 1)
	})

	t.Run("accepts single message", func(t *testing.T) {
		merged := MessageReducer(existing, model.NewAssistantMessage("hello"))
		require.Len(t, merged.([]model.Message), 2)
	})

	t.Run("ignores other types", func(t *testing.T) {
		merged := MessageReducer(existing, 42)
		require.Equal(t, existing, merged)
	})

	t.Run("nil existing", func(t *testing.T) {
		merged := MessageReducer(nil, []model.Message{model.NewUserMessage("hi")})
		require.Len(t, merged.([]model.Message), 1)
	})
}

func TestMergeReducer(t *testing.T) {
	existing := map[string]any{"a": 1, "b": 2}
	merged := MergeReducer(existing, map[string]any{"b": 20, "c": 3})
	require.Equal(t, map[string]any{"a": 1, "b": 20, "c": 3}, merged)
	require.Equal(t, 2, existing["b"], "existing map must not be mutated")
}

func TestStateSchema_InitAndApplyUpdate(t *testing.T) {
	schema := NewStateSchema().
		AddField("counter", StateField{
			Type:    reflect.TypeOf(0),
			Default: func() any { return 0 },
		})

	state := schema.Init()
	require.Equal(t, 0, state["counter"])

	state = schema.ApplyUpdate(state, State{"counter": 5, "extra": "x"})
	require.Equal(t, 5, state["counter"])
	// Fields absent from the schema fall back to replacement.
	require.Equal(t, "x", state["extra"])
}

func TestMessagesStateSchema(t *testing.T) {
	schema := MessagesStateSchema()
	state := schema.Init()

	messages, ok := state[StateKeyMessages].([]model.Message)
	require.True(t, ok)
	require.Empty(t, messages)
	require.NotNil(t, state[StateKeyMetadata])

	state = schema.ApplyUpdate(state, State{
		StateKeyMessages: []model.Message{model.NewUserMessage("hi")},
		StateKeyMetadata: map[string]any{"k": "v"},
	})
	state = schema.ApplyUpdate(state, State{
		StateKeyMessages: []model.Message{model.NewAssistantMessage("hello")},
		StateKeyMetadata: map[string]any{"k2": "v2"},
	})

	messages = state[StateKeyMessages].([]model.Message)
	require.Len(t, messages, 2)
	require.Equal(t, map[string]any{"k": "v", "k2": "v2"}, state[StateKeyMetadata])
}
