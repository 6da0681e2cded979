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
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentgraph-go/agentgraph/graph"
	"github.com/agentgraph-go/agentgraph/model"
	"github.com/agentgraph-go/agentgraph/tool"
)

// joinModel answers with the contents of all request messages joined by "-".
// It makes modifier effects observable in the reply.
type joinModel struct{}

func (m *joinModel) Info() model.Info { return model.Info{Name: "join-model"} }

func (m *joinModel) GenerateContent(ctx context.Context, request *model.Request) (<-chan *model.Response, error) {
	contents := make([]string, 0, len(request.Messages))
	for _, msg := range request.Messages {
		contents = append(contents, msg.Content)
	}
	ch := make(chan *model.Response, 1)
	ch <- &model.Response{
		Done: true,
		Choices: []model.Choice{{
			Message: model.NewAssistantMessage(strings.Join(contents, "-")),
		}},
	}
	close(ch)
	return ch, nil
}

// scriptedModel replays a fixed sequence of assistant messages, one per call.
type scriptedModel struct {
	mu      sync.Mutex
	replies []model.Message
	calls   int
}

func (m *scriptedModel) Info() model.Info { return model.Info{Name: "scripted-model"} }

func (m *scriptedModel) GenerateContent(ctx context.Context, request *model.Request) (<-chan *model.Response, error) {
	m.mu.Lock()
	reply := m.replies[m.calls]
	m.calls++
	m.mu.Unlock()

	ch := make(chan *model.Response, 1)
	ch <- &model.Response{
		Done:    true,
		Choices: []model.Choice{{Message: reply}},
	}
	close(ch)
	return ch, nil
}

func TestNewReactAgent_NoModifier(t *testing.T) {
	agent, err := NewReactAgent(&joinModel{}, nil)
	require.NoError(t, err)
	defer agent.Close()

	output, err := agent.Invoke(context.Background(), []model.Message{model.NewUserMessage("hi?")})
	require.NoError(t, err)

	messages, ok := output.([]model.Message)
	require.True(t, ok)
	require.Len(t, messages, 2)
	require.Equal(t, model.RoleAssistant, messages[1].Role)
	require.Equal(t, "hi?", messages[1].Content)
}

func TestNewReactAgent_SystemMessage(t *testing.T) {
	agent, err := NewReactAgent(&joinModel{}, nil, WithSystemMessage("Foo"))
	require.NoError(t, err)
	defer agent.Close()

	output, err := agent.Invoke(context.Background(), []model.Message{model.NewUserMessage("hi?")})
	require.NoError(t, err)

	messages := output.([]model.Message)
	require.Equal(t, "Foo-hi?", messages[len(messages)-1].Content)
}

func TestNewReactAgent_MessagesModifier(t *testing.T) {
	modifier := func(ctx context.Context, messages []model.Message) []model.Message {
		return []model.Message{model.NewUserMessage("Bar hi?")}
	}
	agent, err := NewReactAgent(&joinModel{}, nil, WithMessagesModifier(modifier))
	require.NoError(t, err)
	defer agent.Close()

	output, err := agent.Invoke(context.Background(), []model.Message{model.NewUserMessage("hi?")})
	require.NoError(t, err)

	messages := output.([]model.Message)
	require.Equal(t, "Bar hi?", messages[len(messages)-1].Content)
}

func TestNewReactAgent_StateModifier(t *testing.T) {
	modifier := func(ctx context.Context, state graph.State) []model.Message {
		history, _ := state[graph.StateKeyMessages].([]model.Message)
		return append([]model.Message{model.NewSystemMessage("Baz")}, history...)
	}
	agent, err := NewReactAgent(&joinModel{}, nil, WithStateModifier(modifier))
	require.NoError(t, err)
	defer agent.Close()

	output, err := agent.Invoke(context.Background(), graph.State{
		graph.StateKeyMessages: []model.Message{model.NewUserMessage("hi?")},
	})
	require.NoError(t, err)

	messages := stateMessages(t, output)
	require.Equal(t, "Baz-hi?", messages[len(messages)-1].Content)
}

func TestNewReactAgent_MapShape(t *testing.T) {
	agent, err := NewReactAgent(&joinModel{}, nil)
	require.NoError(t, err)
	defer agent.Close()

	output, err := agent.Invoke(context.Background(), map[string]any{
		graph.StateKeyMessages: []model.Message{model.NewUserMessage("hi?")},
	})
	require.NoError(t, err)

	outMap, ok := output.(map[string]any)
	require.True(t, ok, "map[string]any input must produce map[string]any output, got %T", output)
	messages := outMap[graph.StateKeyMessages].([]model.Message)
	require.Equal(t, "hi?", messages[len(messages)-1].Content)
}

func TestNewReactAgent_ConflictingModifiers(t *testing.T) {
	_, err := NewReactAgent(&joinModel{}, nil,
		WithMessagesModifier(func(ctx context.Context, messages []model.Message) []model.Message {
			return messages
		}),
		WithStateModifier(func(ctx context.Context, state graph.State) []model.Message {
			return nil
		}),
	)
	require.ErrorIs(t, err, ErrConflictingModifiers)
}

func TestNewReactAgent_ToolLoop(t *testing.T) {
	m := &scriptedModel{replies: []model.Message{
		{
			Role: model.RoleAssistant,
			ToolCalls: []model.ToolCall{
				toolCall("call 1", "tool1", `{"some_val": 2, "some_other_val": "foo"}`),
			},
		},
		model.NewAssistantMessage("done"),
	}}
	agent, err := NewReactAgent(m, []tool.Tool{newTool1()})
	require.NoError(t, err)
	defer agent.Close()

	output, err := agent.Invoke(context.Background(), []model.Message{model.NewUserMessage("hi")})
	require.NoError(t, err)

	messages := output.([]model.Message)
	require.Len(t, messages, 4)
	require.Equal(t, model.RoleUser, messages[0].Role)
	require.Len(t, messages[1].ToolCalls, 1)
	require.Equal(t, model.RoleTool, messages[2].Role)
	require.Equal(t, "2 - foo", messages[2].Content)
	require.Equal(t, "call 1", messages[2].ToolID)
	require.Equal(t, "done", messages[3].Content)
}

func TestNewReactAgent_MaxIterations(t *testing.T) {
	// A model that always requests another tool call never terminates on
	// its own; the step bound must stop it.
	loop := &loopModel{}
	agent, err := NewReactAgent(loop, []tool.Tool{newTool1()}, WithMaxIterations(4))
	require.NoError(t, err)
	defer agent.Close()

	_, err = agent.Invoke(context.Background(), []model.Message{model.NewUserMessage("hi")})
	require.ErrorIs(t, err, graph.ErrMaxStepsExceeded)
}

type loopModel struct{}

func (m *loopModel) Info() model.Info { return model.Info{Name: "loop-model"} }

func (m *loopModel) GenerateContent(ctx context.Context, request *model.Request) (<-chan *model.Response, error) {
	ch := make(chan *model.Response, 1)
	ch <- &model.Response{
		Done: true,
		Choices: []model.Choice{{Message: model.Message{
			Role: model.RoleAssistant,
			ToolCalls: []model.ToolCall{
				toolCall("call 1", "tool1", `{"some_val": 1, "some_other_val": "x"}`),
			},
		}}},
	}
	close(ch)
	return ch, nil
}

func TestNewReactAgent_ModelError(t *testing.T) {
	agent, err := NewReactAgent(&errorModel{}, nil)
	require.NoError(t, err)
	defer agent.Close()

	_, err = agent.Invoke(context.Background(), []model.Message{model.NewUserMessage("hi")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "model API error")
}

type errorModel struct{}

func (m *errorModel) Info() model.Info { return model.Info{Name: "error-model"} }

func (m *errorModel) GenerateContent(ctx context.Context, request *model.Request) (<-chan *model.Response, error) {
	ch := make(chan *model.Response, 1)
	ch <- &model.Response{
		Done:  true,
		Error: &model.ResponseError{Type: "server_error", Message: "backend unavailable"},
	}
	close(ch)
	return ch, nil
}
