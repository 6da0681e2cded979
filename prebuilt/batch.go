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
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/agentgraph-go/agentgraph/model"
)

// execFunc processes a single tool-call request into its result message.
// A non-nil error aborts the batch; recoverable failures are encoded into
// the returned message instead.
type execFunc func(ctx context.Context, call model.ToolCall) (model.Message, error)

// runSequential processes the requests one by one, in input order.
func runSequential(ctx context.Context, calls []model.ToolCall, exec execFunc) ([]model.Message, error) {
	results := make([]model.Message, 0, len(calls))
	for _, call := range calls {
		msg, err := exec(ctx, call)
		if err != nil {
			return nil, err
		}
		results = append(results, msg)
	}
	return results, nil
}

// runParallel processes the requests concurrently and re-orders the result
// messages into input order. Requests are independent: each writes its own
// slot. When several requests fail, the error of the lowest index is
// returned so that both execution modes report the same failure.
func runParallel(ctx context.Context, pool *ants.Pool, calls []model.ToolCall, exec execFunc) ([]model.Message, error) {
	results := make([]model.Message, len(calls))
	errs := make([]error, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		i, call := i, call
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i], errs[i] = exec(ctx, call)
		}
		if err := pool.Submit(task); err != nil {
			errs[i] = err
			wg.Done()
		}
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
