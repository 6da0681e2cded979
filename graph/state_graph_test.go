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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentgraph-go/agentgraph/model"
)

func passThrough(ctx context.Context, state State) (State, error) {
	return nil, nil
}

func TestStateGraph_Compile(t *testing.T) {
	g, err := NewStateGraph(MessagesStateSchema()).
		AddNode("a", passThrough).
		AddNode("b", passThrough).
		AddEdge("a", "b").
		SetEntryPoint("a").
		SetFinishPoint("b").
		Compile()
	require.NoError(t, err)
	require.Equal(t, "a", g.EntryPoint())

	node, ok := g.GetNode("b")
	require.True(t, ok)
	require.Equal(t, "b", node.Name)
}

func TestStateGraph_CompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *StateGraph
		wantErr error
	}{
		{
			name: "entry point not set",
			build: func() *StateGraph {
				return NewStateGraph(MessagesStateSchema()).
					AddNode("a", passThrough).
					SetFinishPoint("a")
			},
			wantErr: ErrEntryPointNotSet,
		},
		{
			name: "duplicate node",
			build: func() *StateGraph {
				return NewStateGraph(MessagesStateSchema()).
					AddNode("a", passThrough).
					AddNode("a", passThrough).
					SetEntryPoint("a").
					SetFinishPoint("a")
			},
			wantErr: ErrDuplicateNode,
		},
		{
			name: "empty node ID",
			build: func() *StateGraph {
				return NewStateGraph(MessagesStateSchema()).
					AddNode("", passThrough)
			},
			wantErr: ErrEmptyNodeID,
		},
		{
			name: "edge target missing",
			build: func() *StateGraph {
				return NewStateGraph(MessagesStateSchema()).
					AddNode("a", passThrough).
					AddEdge("a", "ghost").
					SetEntryPoint("a")
			},
			wantErr: ErrNodeNotFound,
		},
		{
			name: "conditional edge target missing",
			build: func() *StateGraph {
				return NewStateGraph(MessagesStateSchema()).
					AddNode("a", passThrough).
					AddConditionalEdges("a", func(ctx context.Context, state State) (string, error) {
						return "x", nil
					}, map[string]string{"x": "ghost"}).
					SetEntryPoint("a")
			},
			wantErr: ErrNodeNotFound,
		},
		{
			name: "entry point missing",
			build: func() *StateGraph {
				return NewStateGraph(MessagesStateSchema()).
					AddNode("a", passThrough).
					SetEntryPoint("ghost")
			},
			wantErr: ErrNodeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Compile()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStateGraph_MustCompilePanics(t *testing.T) {
	require.Panics(t, func() {
		NewStateGraph(MessagesStateSchema()).MustCompile()
	})
}

func TestStateGraph_NodeOptions(t *testing.T) {
	g, err := NewStateGraph(MessagesStateSchema()).
		AddNode("a", passThrough, WithName("Agent"), WithDescription("the agent node")).
		SetEntryPoint("a").
		SetFinishPoint("a").
		Compile()
	require.NoError(t, err)

	node, ok := g.GetNode("a")
	require.True(t, ok)
	require.Equal(t, "Agent", node.Name)
	require.Equal(t, "the agent node", node.Description)
}

// echoModel answers with a fixed assistant message.
type echoModel struct {
	content string
}

func (m *echoModel) Info() model.Info { return model.Info{Name: "echo-model"} }

func (m *echoModel) GenerateContent(ctx context.Context, request *model.Request) (<-chan *model.Response, error) {
	ch := make(chan *model.Response, 1)
	ch <- &model.Response{
		Done:    true,
		Choices: []model.Choice{{Message: model.NewAssistantMessage(m.content)}},
	}
	close(ch)
	return ch, nil
}

func TestNewLLMNodeFunc(t *testing.T) {
	fn := NewLLMNodeFunc(&echoModel{content: "hello"}, "be nice", nil)

	update, err := fn(context.Background(), State{
		StateKeyMessages:  []model.Message{},
		StateKeyUserInput: "hi",
	})
	require.NoError(t, err)

	messages := update[StateKeyMessages].([]model.Message)
	require.Len(t, messages, 1)
	require.Equal(t, model.RoleAssistant, messages[0].Role)
	require.Equal(t, "hello", messages[0].Content)
	require.Equal(t, "hello", update[StateKeyLastResponse])
	require.Equal(t, "", update[StateKeyUserInput], "user input is consumed")
}

func TestAddLLMNode_EndToEnd(t *testing.T) {
	g, err := NewStateGraph(MessagesStateSchema()).
		AddLLMNode("llm", &echoModel{content: "hello"}, "be nice", nil).
		SetEntryPoint("llm").
		SetFinishPoint("llm").
		Compile()
	require.NoError(t, err)

	executor, err := NewExecutor(g)
	require.NoError(t, err)
	final, err := executor.Execute(context.Background(), State{StateKeyUserInput: "hi"}, "inv-1")
	require.NoError(t, err)

	messages := final[StateKeyMessages].([]model.Message)
	require.Len(t, messages, 1)
	require.Equal(t, "hello", messages[0].Content)
	require.Equal(t, "hello", final[StateKeyLastResponse])
}
