// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package flow

// Manual is a deterministic scheduler for tests. Nothing runs on its
// own: every pending step invocation sits in a queue until the test
// calls Tick or Run.
//
// A paused task stays in the queue: its tick performs no work but
// keeps the invocation scheduled, so a later Resume plus Tick picks up
// exactly where production left off. A stopped or finished task is
// dropped from the queue the next time it reaches the front.
//
// Manual is not safe for concurrent use. It is meant for
// single-goroutine tests that interleave ticks with control calls.
type Manual struct {
	queue []*manualTask
}

type manualTask struct {
	step     Step
	paused   bool
	stopped  bool
	finished bool
}

// Schedule queues the step's first invocation and returns its handle.
func (m *Manual) Schedule(step Step) Task {
	task := &manualTask{step: step}
	m.queue = append(m.queue, task)
	return task
}

// Tick consumes one scheduled invocation. Stopped and finished tasks
// at the front of the queue are discarded first. Returns false when no
// invocation remained.
func (m *Manual) Tick() bool {
	for len(m.queue) > 0 {
		task := m.queue[0]
		m.queue = m.queue[1:]

		if task.stopped || task.finished {
			continue
		}
		if task.paused {
			// The invocation fires but the task does no work and
			// stays scheduled.
			m.queue = append(m.queue, task)
			return true
		}

		done, err := task.step()
		if done || err != nil {
			task.finished = true
		} else {
			m.queue = append(m.queue, task)
		}
		return true
	}
	return false
}

// Run ticks until every remaining task is paused, stopped, or
// finished.
func (m *Manual) Run() {
	for m.runnable() {
		m.Tick()
	}
}

// Pending reports how many queued invocations remain, including those
// of paused tasks.
func (m *Manual) Pending() int {
	count := 0
	for _, task := range m.queue {
		if !task.stopped && !task.finished {
			count++
		}
	}
	return count
}

// runnable reports whether any queued task would actually execute a
// step on its next tick.
func (m *Manual) runnable() bool {
	for _, task := range m.queue {
		if !task.paused && !task.stopped && !task.finished {
			return true
		}
	}
	return false
}

func (t *manualTask) Pause()  { t.paused = true }
func (t *manualTask) Resume() { t.paused = false }
func (t *manualTask) Stop()   { t.stopped = true }
