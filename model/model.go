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
	"context"
	"time"

	"github.com/agentgraph-go/agentgraph/tool"
)

// Model defines the interface for language model implementations.
// The graph runtime treats models as opaque: a request goes in, a stream of
// response chunks comes out, and the last chunk carries the final message.
type Model interface {
	// GenerateContent generates content from the model.
	GenerateContent(ctx context.Context, request *Request) (<-chan *Response, error)

	// Info returns basic information about the model.
	Info() Info
}

// Info contains basic information about a model.
type Info struct {
	// Name is the name of the model.
	Name string `json:"name"`
}

// Request is the request to send to the model.
type Request struct {
	// Messages is the conversation history.
	Messages []Message `json:"messages"`

	// Tools are not serialized, handled separately.
	Tools map[string]tool.Tool `json:"-"`
}

// ResponseError represents an error reported inside a model response.
type ResponseError struct {
	// Type is the error classification.
	Type string `json:"type"`
	// Message is the human-readable error description.
	Message string `json:"message"`
}

// Choice represents one generated completion.
type Choice struct {
	// Index is the index of the choice.
	Index int `json:"index"`
	// Message is the message content.
	Message Message `json:"message,omitempty"`
}

// Response is one chunk of model output. The final chunk has Done set.
type Response struct {
	// ID is the unique identifier for this response.
	ID string `json:"id,omitempty"`
	// Model is the model used to generate the response.
	Model string `json:"model,omitempty"`
	// Choices contains the generated completions.
	Choices []Choice `json:"choices"`
	// Error is an error reported by the model backend, distinct from
	// function-level errors returned by GenerateContent.
	Error *ResponseError `json:"error,omitempty"`
	// Timestamp when this response chunk was produced.
	Timestamp time.Time `json:"timestamp"`
	// Done indicates the stream is complete.
	Done bool `json:"done"`
	// IsPartial indicates this is a partial (streaming) chunk.
	IsPartial bool `json:"is_partial"`
}

// IsToolCallResponse reports whether the response requests tool calls.
func (r *Response) IsToolCallResponse() bool {
	return len(r.Choices) > 0 && len(r.Choices[0].Message.ToolCalls) > 0
}
