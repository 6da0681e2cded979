//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package graph provides graph-based execution functionality similar to LangGraph.
package graph

import (
	"context"
	"fmt"
	"sync"
)

// Virtual node names marking the boundaries of a graph.
const (
	// Start is the virtual entry node of the graph.
	Start = "__start__"
	// End is the virtual exit node of the graph.
	End = "__end__"
)

// State represents the state that flows through the graph.
type State map[string]any

// Clone creates a shallow copy of the state.
func (s State) Clone() State {
	clone := make(State, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// NodeFunc is the function executed by a node. It receives the current
// state and returns a state update, which the executor merges into the
// current state using the schema's reducers.
type NodeFunc func(ctx context.Context, state State) (State, error)

// ConditionalFunc decides the routing key after a node completes.
type ConditionalFunc func(ctx context.Context, state State) (string, error)

// Node represents a node in the graph.
type Node struct {
	// ID is the unique identifier of the node.
	ID string
	// Name is the human-readable name of the node.
	Name string
	// Description is the description of the node.
	Description string
	// Function is the function to execute.
	Function NodeFunc
}

// Edge represents an unconditional edge between two nodes.
type Edge struct {
	// From is the source node ID.
	From string
	// To is the target node ID.
	To string
}

// ConditionalEdge routes from a node based on a condition result.
type ConditionalEdge struct {
	// From is the source node ID.
	From string
	// Condition computes the routing key.
	Condition ConditionalFunc
	// PathMap maps routing keys to target node IDs.
	PathMap map[string]string
}

// Graph represents a directed graph of nodes and edges.
// A Graph is built through StateGraph and is immutable after Compile.
type Graph struct {
	schema           *StateSchema
	nodes            map[string]*Node
	edges            map[string][]*Edge
	conditionalEdges map[string]*ConditionalEdge
	entryPoint       string
	mutex            sync.RWMutex
}

// New creates a new empty graph with the given state schema.
func New(schema *StateSchema) *Graph {
	return &Graph{
		schema:           schema,
		nodes:            make(map[string]*Node),
		edges:            make(map[string][]*Edge),
		conditionalEdges: make(map[string]*ConditionalEdge),
	}
}

// Schema returns the state schema of the graph.
func (g *Graph) Schema() *StateSchema {
	return g.schema
}

func (g *Graph) addNode(node *Node) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	if node.ID == "" {
		return fmt.Errorf("graph: %w", ErrEmptyNodeID)
	}
	if _, exists := g.nodes[node.ID]; exists {
		return fmt.Errorf("graph: node %s: %w", node.ID, ErrDuplicateNode)
	}
	g.nodes[node.ID] = node
	return nil
}

func (g *Graph) addEdge(edge *Edge) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.edges[edge.From] = append(g.edges[edge.From], edge)
}

func (g *Graph) addConditionalEdge(edge *ConditionalEdge) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.conditionalEdges[edge.From] = edge
}

func (g *Graph) setEntryPoint(nodeID string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.entryPoint = nodeID
}

// EntryPoint returns the ID of the entry node.
func (g *Graph) EntryPoint() string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.entryPoint
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	node, exists := g.nodes[id]
	return node, exists
}

// GetEdges returns all unconditional edges leaving a node.
func (g *Graph) GetEdges(nodeID string) []*Edge {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.edges[nodeID]
}

// GetConditionalEdge returns the conditional edge leaving a node, if any.
func (g *Graph) GetConditionalEdge(nodeID string) (*ConditionalEdge, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	edge, exists := g.conditionalEdges[nodeID]
	return edge, exists
}

// validate checks the structural integrity of the graph.
func (g *Graph) validate() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	if g.entryPoint == "" {
		return ErrEntryPointNotSet
	}
	if _, exists := g.nodes[g.entryPoint]; !exists {
		return fmt.Errorf("entry point %s: %w", g.entryPoint, ErrNodeNotFound)
	}
	for from, edges := range g.edges {
		if from != Start {
			if _, exists := g.nodes[from]; !exists {
				return fmt.Errorf("edge source %s: %w", from, ErrNodeNotFound)
			}
		}
		for _, edge := range edges {
			if edge.To == End {
				continue
			}
			if _, exists := g.nodes[edge.To]; !exists {
				return fmt.Errorf("edge target %s: %w", edge.To, ErrNodeNotFound)
			}
		}
	}
	for from, condEdge := range g.conditionalEdges {
		if _, exists := g.nodes[from]; !exists {
			return fmt.Errorf("conditional edge source %s: %w", from, ErrNodeNotFound)
		}
		for _, to := range condEdge.PathMap {
			if to == End {
				continue
			}
			if _, exists := g.nodes[to]; !exists {
				return fmt.Errorf("conditional edge target %s: %w", to, ErrNodeNotFound)
			}
		}
	}
	return nil
}
