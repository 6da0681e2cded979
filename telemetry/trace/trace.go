//
// Tencent is pleased to support the open source community by making agentgraph available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// agentgraph is licensed under the Apache License Version 2.0.
//
//

// Package trace holds the tracer used for graph and tool execution spans.
// Spans are recorded against whatever tracer provider the host application
// installs via otel.SetTracerProvider; without one they are no-ops.
package trace

import (
	"go.opentelemetry.io/otel"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// InstrumentName identifies this library to the tracer provider.
const InstrumentName = "github.com/agentgraph-go/agentgraph"

// Operation names used as span name prefixes.
const (
	OperationExecuteTool  = "execute_tool"
	OperationValidateTool = "validate_tool"
	OperationExecuteGraph = "execute_graph"
)

// Tracer is the tracer used for all spans emitted by this module.
var Tracer oteltrace.Tracer = otel.Tracer(InstrumentName)

// SpanName builds a span name from an operation and a target.
func SpanName(operation, target string) string {
	return operation + " " + target
}
