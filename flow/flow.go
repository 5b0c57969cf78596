// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package flow

// Step performs one bounded unit of work. It returns done=true when
// the overall job has finished (successfully or not) and must not be
// invoked again, or a non-nil error to abort. A (false, nil) return
// means "more work remains, invoke me again later".
//
// A step must not block indefinitely and must not loop internally
// until completion: bounding each invocation is what lets the
// scheduler interleave tasks and react to pause and stop requests at
// step granularity.
type Step func() (done bool, err error)

// Task is the control handle for a scheduled step loop.
//
// All methods are idempotent and safe to call from any goroutine.
// Calls after the task has finished or been stopped are no-ops.
type Task interface {
	// Pause suspends stepping. Any invocation already in flight
	// completes; no further invocation begins until Resume.
	Pause()

	// Resume continues stepping after a Pause. Calling Resume on a
	// task that is not paused has no effect.
	Resume()

	// Stop terminates the task. Any invocation already in flight
	// completes; the step is never invoked again. Stop does not
	// report success or failure. It is cancellation, and the caller
	// owns any follow-up.
	Stop()
}

// Scheduler accepts a repeatable bounded step and drives it to
// completion. Implementations decide the invocation cadence; callers
// control the task through the returned handle.
type Scheduler interface {
	Schedule(step Step) Task
}

// Consumer accepts byte chunks from a producer.
//
// Write reports how many bytes were accepted. A short count with a nil
// error signals backpressure: the producer must retain the unwritten
// remainder and retry it on a later step, without blocking and without
// unbounded buffering. A non-nil error aborts production.
//
// Any io.Writer satisfies Consumer; plain writers simply never signal
// backpressure.
type Consumer interface {
	Write(p []byte) (n int, err error)
}
