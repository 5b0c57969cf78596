// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

// Package flow defines the cooperative production contracts shared by
// Partstream producers and their hosts: a bounded unit of work
// ([Step]), a backpressure-aware byte sink ([Consumer]), and a
// scheduler that repeatedly invokes steps until the work completes
// ([Scheduler], [Task]).
//
// The model is deliberately minimal. A producer never runs its own
// loop: it hands a Step to a Scheduler and the scheduler decides when
// each invocation happens. Each invocation performs one bounded unit
// of work and returns. This maps onto any concurrency substrate (a
// dedicated goroutine, an event-loop callback, a task queue) as long
// as the host honors the contract: bounded work per invocation, no
// invocation while paused, no invocation after stop.
//
// Schedulers are injected explicitly. There is no process-wide default:
// every producer receives its scheduler handle at construction, which
// keeps scheduling policy visible at every call site and makes tests
// deterministic.
//
// Key exports:
//
//   - [Step], [Task], [Scheduler], [Consumer] -- the contracts
//   - [Runner] -- goroutine-backed scheduler for production use
//   - [Manual] -- single-threaded, tick-driven scheduler for tests
//   - [Bounded] -- consumer wrapper with an explicit byte budget,
//     for throttling and for exercising backpressure
//
// This package depends on no other Partstream packages.
package flow
