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
	"fmt"

	"github.com/google/uuid"

	"github.com/agentgraph-go/agentgraph/graph"
	"github.com/agentgraph-go/agentgraph/model"
	"github.com/agentgraph-go/agentgraph/tool"
)

// Node IDs and routing keys of the react graph.
const (
	nodeAgent  = "agent"
	nodeTools  = "tools"
	routeTools = "tools"
	routeEnd   = "end"
)

// MessagesModifier rewrites the message history before each model call.
type MessagesModifier func(ctx context.Context, messages []model.Message) []model.Message

// StateModifier derives the messages for the next model call from the full
// graph state.
type StateModifier func(ctx context.Context, state graph.State) []model.Message

// ReactAgent runs the classic reason-act loop: the model is called with the
// conversation, requested tool calls are dispatched by a ToolNode, and the
// results are fed back to the model until it answers without tool calls.
type ReactAgent struct {
	executor *graph.Executor
	toolNode *ToolNode
}

// ReactAgentOption is a function that configures a ReactAgent.
type ReactAgentOption func(*reactAgentOptions)

// reactAgentOptions holds the configuration options for ReactAgent.
type reactAgentOptions struct {
	systemMessage    string
	messagesModifier MessagesModifier
	stateModifier    StateModifier
	maxIterations    int
}

// WithSystemMessage prepends a system message before each model call.
// Shorthand for a messages modifier.
func WithSystemMessage(content string) ReactAgentOption {
	return func(opts *reactAgentOptions) {
		opts.systemMessage = content
	}
}

// WithMessagesModifier sets a modifier applied to the message history
// before each model call. Mutually exclusive with WithStateModifier.
func WithMessagesModifier(modifier MessagesModifier) ReactAgentOption {
	return func(opts *reactAgentOptions) {
		opts.messagesModifier = modifier
	}
}

// WithStateModifier sets a modifier deriving the model input from the full
// graph state. Mutually exclusive with WithMessagesModifier.
func WithStateModifier(modifier StateModifier) ReactAgentOption {
	return func(opts *reactAgentOptions) {
		opts.stateModifier = modifier
	}
}

// WithMaxIterations bounds the number of graph steps per invocation.
func WithMaxIterations(n int) ReactAgentOption {
	return func(opts *reactAgentOptions) {
		opts.maxIterations = n
	}
}

// NewReactAgent compiles a react graph around the given model and tools.
// With no tools the graph is a single model call.
func NewReactAgent(m model.Model, tools []tool.Tool, opts ...ReactAgentOption) (*ReactAgent, error) {
	options := &reactAgentOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.messagesModifier != nil && options.stateModifier != nil {
		return nil, fmt.Errorf("prebuilt: %w", ErrConflictingModifiers)
	}
	modifier := resolveStateModifier(options)

	toolMap := make(map[string]tool.Tool, len(tools))
	var toolNode *ToolNode
	if len(tools) > 0 {
		var err error
		toolNode, err = NewToolNode(tools)
		if err != nil {
			return nil, err
		}
		for _, t := range tools {
			toolMap[t.Declaration().Name] = t
		}
	}

	sg := graph.NewStateGraph(graph.MessagesStateSchema()).
		AddNode(nodeAgent, newAgentNodeFunc(m, modifier, toolMap))
	if toolNode != nil {
		sg.AddNode(nodeTools, toolNode.NodeFunc()).
			AddConditionalEdges(nodeAgent, shouldContinue, map[string]string{
				routeTools: nodeTools,
				routeEnd:   graph.End,
			}).
			AddEdge(nodeTools, nodeAgent)
	} else {
		sg.SetFinishPoint(nodeAgent)
	}
	sg.SetEntryPoint(nodeAgent)

	g, err := sg.Compile()
	if err != nil {
		if toolNode != nil {
			toolNode.Close()
		}
		return nil, err
	}
	var execOpts []graph.ExecutorOption
	if options.maxIterations > 0 {
		execOpts = append(execOpts, graph.WithMaxSteps(options.maxIterations))
	}
	executor, err := graph.NewExecutor(g, execOpts...)
	if err != nil {
		if toolNode != nil {
			toolNode.Close()
		}
		return nil, err
	}
	return &ReactAgent{executor: executor, toolNode: toolNode}, nil
}

// resolveStateModifier folds the modifier options into a single state
// modifier. The default reads the message history unchanged.
func resolveStateModifier(options *reactAgentOptions) StateModifier {
	if options.stateModifier != nil {
		return options.stateModifier
	}
	if options.messagesModifier != nil {
		modifier := options.messagesModifier
		return func(ctx context.Context, state graph.State) []model.Message {
			return modifier(ctx, messagesFromState(state))
		}
	}
	if options.systemMessage != "" {
		content := options.systemMessage
		return func(ctx context.Context, state graph.State) []model.Message {
			messages := messagesFromState(state)
			if len(messages) > 0 && messages[0].Role == model.RoleSystem {
				return messages
			}
			return append([]model.Message{model.NewSystemMessage(content)}, messages...)
		}
	}
	return func(ctx context.Context, state graph.State) []model.Message {
		return messagesFromState(state)
	}
}

func messagesFromState(state graph.State) []model.Message {
	messages, _ := state[graph.StateKeyMessages].([]model.Message)
	return messages
}

// newAgentNodeFunc builds the model node: it applies the modifier, calls
// the model, and returns the assistant reply as a message update.
func newAgentNodeFunc(m model.Model, modifier StateModifier, tools map[string]tool.Tool) graph.NodeFunc {
	return func(ctx context.Context, state graph.State) (graph.State, error) {
		request := &model.Request{
			Messages: modifier(ctx, state),
			Tools:    tools,
		}
		responseChan, err := m.GenerateContent(ctx, request)
		if err != nil {
			return nil, fmt.Errorf("failed to generate content: %w", err)
		}
		var finalResponse *model.Response
		var toolCalls []model.ToolCall
		for response := range responseChan {
			if response.Error != nil {
				return nil, fmt.Errorf("model API error: %s", response.Error.Message)
			}
			if response.IsToolCallResponse() {
				toolCalls = append(toolCalls, response.Choices[0].Message.ToolCalls...)
			}
			finalResponse = response
		}
		if finalResponse == nil || len(finalResponse.Choices) == 0 {
			return nil, graph.ErrNoResponseFromModel
		}
		reply := model.Message{
			Role:      model.RoleAssistant,
			Content:   finalResponse.Choices[0].Message.Content,
			ToolCalls: toolCalls,
		}
		return graph.State{
			graph.StateKeyMessages:     []model.Message{reply},
			graph.StateKeyLastResponse: reply.Content,
		}, nil
	}
}

// shouldContinue routes to the tools node while the last assistant message
// requests tool calls.
func shouldContinue(ctx context.Context, state graph.State) (string, error) {
	messages := messagesFromState(state)
	if len(messages) > 0 && len(messages[len(messages)-1].ToolCalls) > 0 {
		return routeTools, nil
	}
	return routeEnd, nil
}

// Invoke runs the react loop to completion. The input is either a
// []model.Message or a graph.State; the output mirrors the input's shape
// and contains the full message history including tool responses.
func (a *ReactAgent) Invoke(ctx context.Context, input any) (any, error) {
	in, err := decodeInput(input)
	if err != nil {
		return nil, err
	}
	initial := graph.State{graph.StateKeyMessages: in.messages}
	if in.shape != shapeMessageList {
		initial = in.state.Clone()
	}
	final, err := a.executor.Execute(ctx, initial, uuid.NewString())
	if err != nil {
		return nil, err
	}
	switch in.shape {
	case shapeMessageList:
		return messagesFromState(final), nil
	case shapeStateMap:
		return map[string]any(final), nil
	default:
		return final, nil
	}
}

// Close releases the resources held by the agent's tool node.
func (a *ReactAgent) Close() {
	if a.toolNode != nil {
		a.toolNode.Close()
	}
}
