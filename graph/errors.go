//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

package graph

import "errors"

var (
	ErrEntryPointNotSet    = errors.New("entry point not set")
	ErrEmptyNodeID         = errors.New("node ID cannot be empty")
	ErrDuplicateNode       = errors.New("node already exists")
	ErrNodeNotFound        = errors.New("node not found")
	ErrNoOutgoingEdge      = errors.New("node has no outgoing edge")
	ErrUnknownRoutingKey   = errors.New("condition returned unknown routing key")
	ErrMaxStepsExceeded    = errors.New("max execution steps exceeded")
	ErrNoResponseFromModel = errors.New("no response received from model")
)
