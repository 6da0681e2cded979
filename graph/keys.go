//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package graph

// Well-known state keys used by message-based workflows.
const (
	// StateKeyMessages holds the conversation history ([]model.Message).
	StateKeyMessages = "messages"
	// StateKeyUserInput holds the pending user input (string).
	StateKeyUserInput = "user_input"
	// StateKeyLastResponse holds the last model response content (string).
	StateKeyLastResponse = "last_response"
	// StateKeyMetadata holds arbitrary metadata (map[string]any).
	StateKeyMetadata = "metadata"
)
