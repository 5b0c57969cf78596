// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package flow

import (
	"runtime"
	"sync"
)

// Runner is the production scheduler: each scheduled step loop runs on
// its own goroutine. The loop yields the processor between invocations
// so that a step retrying against a backpressured consumer does not
// monopolize its thread.
//
// The zero value is ready to use. Runner is stateless and safe for
// concurrent use; each Schedule call is independent.
type Runner struct{}

// Schedule starts a goroutine that invokes step until it reports done,
// returns an error, or the task is stopped.
func (Runner) Schedule(step Step) Task {
	task := &runnerTask{}
	task.cond = sync.NewCond(&task.mu)
	go task.loop(step)
	return task
}

// runnerTask holds the control state for one scheduled loop. The
// condition variable parks the loop goroutine while paused.
type runnerTask struct {
	mu      sync.Mutex
	cond    *sync.Cond
	paused  bool
	stopped bool
}

func (t *runnerTask) loop(step Step) {
	for {
		t.mu.Lock()
		for t.paused && !t.stopped {
			t.cond.Wait()
		}
		if t.stopped {
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()

		done, err := step()
		if done || err != nil {
			return
		}
		runtime.Gosched()
	}
}

func (t *runnerTask) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
}

func (t *runnerTask) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.paused {
		return
	}
	t.paused = false
	t.cond.Signal()
}

func (t *runnerTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.cond.Signal()
}
