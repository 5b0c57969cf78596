// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package flow

// Bounded wraps a consumer with an explicit byte budget. Writes beyond
// the budget are cut short (a short count, no error), which is exactly
// the backpressure signal producers must honor. Raising the budget
// with Grant lets more bytes through.
//
// Bounded is used by tests to exercise producer backpressure handling
// deterministically, and by callers that want to meter how many bytes
// a producer may emit before an external condition (a drained send
// window, a quota refresh) grants more.
//
// Bounded is not safe for concurrent use with itself; the producer
// contract already guarantees a single writer.
type Bounded struct {
	inner  Consumer
	budget int
}

// NewBounded wraps inner with an initial byte budget.
func NewBounded(inner Consumer, budget int) *Bounded {
	return &Bounded{inner: inner, budget: budget}
}

// Grant raises the budget by n bytes.
func (b *Bounded) Grant(n int) {
	b.budget += n
}

// Budget returns the number of bytes the consumer will still accept.
func (b *Bounded) Budget() int {
	return b.budget
}

// Write forwards at most the budgeted number of bytes to the inner
// consumer. With an exhausted budget it accepts nothing, returning
// (0, nil): pure backpressure, not an error.
func (b *Bounded) Write(p []byte) (int, error) {
	allowed := len(p)
	if allowed > b.budget {
		allowed = b.budget
	}
	if allowed == 0 {
		return 0, nil
	}

	n, err := b.inner.Write(p[:allowed])
	b.budget -= n
	return n, err
}
