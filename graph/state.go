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

	"github.com/agentgraph-go/agentgraph/model"
)

// Reducer merges a state update into the existing value of a field.
type Reducer func(existing, update any) any

// StateField describes one field of the graph state.
type StateField struct {
	// Type is the expected Go type of the field value.
	Type reflect.Type
	// Reducer merges updates into the field. Defaults to DefaultReducer.
	Reducer Reducer
	// Default produces the initial value of the field.
	Default func() any
}

// StateSchema describes the fields of the graph state and how node updates
// are merged into it.
type StateSchema struct {
	fields map[string]StateField
}

// NewStateSchema creates an empty state schema.
func NewStateSchema() *StateSchema {
	return &StateSchema{fields: make(map[string]StateField)}
}

// AddField registers a field in the schema.
func (s *StateSchema) AddField(name string, field StateField) *StateSchema {
	if field.Reducer == nil {
		field.Reducer = DefaultReducer
	}
	s.fields[name] = field
	return s
}

// Init returns a new state populated with the schema's default values.
func (s *StateSchema) Init() State {
	state := make(State, len(s.fields))
	for name, field := range s.fields {
		if field.Default != nil {
			state[name] = field.Default()
		}
	}
	return state
}

// ApplyUpdate merges an update into the state using the field reducers.
// Fields absent from the schema use DefaultReducer.
func (s *StateSchema) ApplyUpdate(state, update State) State {
	for key, value := range update {
		reducer := DefaultReducer
		if field, ok := s.fields[key]; ok {
			reducer = field.Reducer
		}
		state[key] = reducer(state[key], value)
	}
	return state
}

// DefaultReducer replaces the existing value with the update.
func DefaultReducer(existing, update any) any {
	if update == nil {
		return existing
	}
	return update
}

// MessageReducer appends update messages to the existing message history.
func MessageReducer(existing, update any) any {
	existingMsgs, _ := existing.([]model.Message)
	updateMsgs, ok := update.([]model.Message)
	if !ok {
		if msg, ok := update.(model.Message); ok {
			updateMsgs = []model.Message{msg}
		} else {
			return existing
		}
	}
	merged := make([]model.Message, 0, len(existingMsgs)+len(updateMsgs))
	merged = append(merged, existingMsgs...)
	merged = append(merged, updateMsgs...)
	return merged
}

// MergeReducer merges update map entries into the existing map.
func MergeReducer(existing, update any) any {
	existingMap, _ := existing.(map[string]any)
	updateMap, ok := update.(map[string]any)
	if !ok {
		return existing
	}
	merged := make(map[string]any, len(existingMap)+len(updateMap))
	for k, v := range existingMap {
		merged[k] = v
	}
	for k, v := range updateMap {
		merged[k] = v
	}
	return merged
}

// MessagesStateSchema creates a state schema for message-based workflows.
func MessagesStateSchema() *StateSchema {
	schema := NewStateSchema()
	schema.AddField(StateKeyMessages, StateField{
		Type:    reflect.TypeOf([]model.Message{}),
		Reducer: MessageReducer,
		Default: func() any { return []model.Message{} },
	})
	schema.AddField(StateKeyUserInput, StateField{
		Type:    reflect.TypeOf(""),
		Reducer: DefaultReducer,
	})
	schema.AddField(StateKeyLastResponse, StateField{
		Type:    reflect.TypeOf(""),
		Reducer: DefaultReducer,
	})
	schema.AddField(StateKeyMetadata, StateField{
		Type:    reflect.TypeOf(map[string]any{}),
		Reducer: MergeReducer,
		Default: func() any { return make(map[string]any) },
	})
	return schema
}
