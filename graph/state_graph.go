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

	"github.com/agentgraph-go/agentgraph/model"
	"github.com/agentgraph-go/agentgraph/tool"
)

// StateGraph provides a fluent interface for building graphs.
// This is the primary public API for creating executable graphs.
//
// Example usage:
//
//	schema := MessagesStateSchema()
//	graph, err := NewStateGraph(schema).
//	  AddNode("agent", agentFunc).
//	  SetEntryPoint("agent").
//	  SetFinishPoint("agent").
//	  Compile()
//
// The compiled Graph can then be executed with NewExecutor(graph).
type StateGraph struct {
	graph *Graph
	err   error
}

// NewStateGraph creates a new graph builder with the given state schema.
func NewStateGraph(schema *StateSchema) *StateGraph {
	return &StateGraph{
		graph: New(schema),
	}
}

// Option is a function that configures a Node.
type Option func(*Node)

// WithName sets the name of the node.
func WithName(name string) Option {
	return func(node *Node) {
		node.Name = name
	}
}

// WithDescription sets the description of the node.
func WithDescription(description string) Option {
	return func(node *Node) {
		node.Description = description
	}
}

// AddNode adds a node with the given ID and function.
// The name and description of the node can be set with the options.
func (sg *StateGraph) AddNode(id string, function NodeFunc, opts ...Option) *StateGraph {
	node := &Node{
		ID:       id,
		Name:     id,
		Function: function,
	}
	for _, opt := range opts {
		opt(node)
	}
	if err := sg.graph.addNode(node); err != nil && sg.err == nil {
		sg.err = err
	}
	return sg
}

// AddLLMNode adds a node that calls the model with the state's messages.
func (sg *StateGraph) AddLLMNode(
	id string,
	m model.Model,
	instruction string,
	tools map[string]tool.Tool,
	opts ...Option,
) *StateGraph {
	return sg.AddNode(id, NewLLMNodeFunc(m, instruction, tools), opts...)
}

// AddEdge adds a normal edge between two nodes.
func (sg *StateGraph) AddEdge(from, to string) *StateGraph {
	sg.graph.addEdge(&Edge{From: from, To: to})
	return sg
}

// AddConditionalEdges adds conditional routing from a node.
func (sg *StateGraph) AddConditionalEdges(
	from string,
	condition ConditionalFunc,
	pathMap map[string]string,
) *StateGraph {
	sg.graph.addConditionalEdge(&ConditionalEdge{
		From:      from,
		Condition: condition,
		PathMap:   pathMap,
	})
	return sg
}

// SetEntryPoint sets the entry point of the graph.
// This is equivalent to AddEdge(Start, nodeID).
func (sg *StateGraph) SetEntryPoint(nodeID string) *StateGraph {
	sg.graph.setEntryPoint(nodeID)
	sg.AddEdge(Start, nodeID)
	return sg
}

// SetFinishPoint adds an edge from the node to End.
// This is equivalent to AddEdge(nodeID, End).
func (sg *StateGraph) SetFinishPoint(nodeID string) *StateGraph {
	sg.AddEdge(nodeID, End)
	return sg
}

// Compile compiles the graph and returns it for execution.
func (sg *StateGraph) Compile() (*Graph, error) {
	if sg.err != nil {
		return nil, fmt.Errorf("invalid graph: %w", sg.err)
	}
	if err := sg.graph.validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	return sg.graph, nil
}

// MustCompile compiles the graph or panics if invalid.
func (sg *StateGraph) MustCompile() *Graph {
	graph, err := sg.Compile()
	if err != nil {
		panic(err)
	}
	return graph
}

// NewLLMNodeFunc creates a NodeFunc that calls the model with the state's
// message history, prepending the instruction as a system message when not
// already present. The assistant response, including any tool calls, is
// returned as a message update.
func NewLLMNodeFunc(m model.Model, instruction string, tools map[string]tool.Tool) NodeFunc {
	return func(ctx context.Context, state State) (State, error) {
		var messages []model.Message
		if msgData, exists := state[StateKeyMessages]; exists {
			if msgs, ok := msgData.([]model.Message); ok {
				messages = msgs
			}
		}
		if instruction != "" && (len(messages) == 0 || messages[0].Role != model.RoleSystem) {
			messages = append([]model.Message{model.NewSystemMessage(instruction)}, messages...)
		}
		if userInput, exists := state[StateKeyUserInput]; exists {
			if input, ok := userInput.(string); ok && input != "" {
				messages = append(messages, model.NewUserMessage(input))
			}
		}
		request := &model.Request{
			Messages: messages,
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
			if len(response.Choices) > 0 && len(response.Choices[0].Message.ToolCalls) > 0 {
				toolCalls = append(toolCalls, response.Choices[0].Message.ToolCalls...)
			}
			finalResponse = response
		}
		if finalResponse == nil || len(finalResponse.Choices) == 0 {
			return nil, ErrNoResponseFromModel
		}
		newMessage := model.Message{
			Role:      model.RoleAssistant,
			Content:   finalResponse.Choices[0].Message.Content,
			ToolCalls: toolCalls,
		}
		return State{
			// The new message will be merged into the history by the executor.
			StateKeyMessages:     []model.Message{newMessage},
			StateKeyLastResponse: finalResponse.Choices[0].Message.Content,
			// Consumed: the input is now part of the message history.
			StateKeyUserInput: "",
		}, nil
	}
}
