// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package multipart

import (
	"fmt"
	"io"
	"sync"

	"github.com/partstream/partstream/flow"
)

// State is the encoder's lifecycle state.
type State int

const (
	// StateIdle is the initial state: constructed, not yet started.
	StateIdle State = iota

	// StateProducing means the step loop is registered and emitting.
	StateProducing

	// StatePaused means production is suspended; no bytes are emitted
	// until Resume.
	StatePaused

	// StateCompleted is terminal: every byte was delivered and the
	// completion channel received nil.
	StateCompleted

	// StateStopped is terminal: the caller cancelled production. The
	// completion channel never receives a value.
	StateStopped

	// StateFailed is terminal: a body read or consumer write failed
	// and the completion channel received the error.
	StateFailed
)

// String returns the human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProducing:
		return "producing"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// phase tracks the encoder's position within the wire format.
type phase int

const (
	// phaseHeader: the next piece is the current field's header block,
	// or the final boundary line if no fields remain.
	phaseHeader phase = iota

	// phaseBody: the current field's body source is open and being
	// pulled chunk by chunk.
	phaseBody

	// phaseFinished: the final boundary line has been handed to the
	// pending buffer; once drained, production is complete.
	phaseFinished
)

// Encoder converts an ordered field list into a multipart/form-data
// byte stream, delivered piece by piece to a [flow.Consumer] under the
// control of an injected [flow.Scheduler].
//
// Each scheduler step performs one bounded unit of work: render one
// header block, pull one body chunk, emit one line terminator, or
// retry bytes a backpressured consumer declined. At most one body
// source is open at a time; fields never interleave; every source is
// closed exactly once across all exit paths.
//
// The total output length is computed eagerly at construction and
// never changes. Methods are safe for concurrent use; production steps
// for one encoder never run concurrently with each other.
type Encoder struct {
	mu sync.Mutex

	scheduler flow.Scheduler
	fields    Fields
	boundary  []byte
	length    int64

	state    State
	consumer flow.Consumer
	task     flow.Task
	complete chan error

	phase      phase
	fieldIndex int
	current    BodySource
	pending    []byte
}

// Option customizes an Encoder at construction.
type Option func(*Encoder) error

// WithBoundary overrides the generated boundary token. Carriage
// returns and line feeds are stripped; a token that is empty after
// stripping is rejected.
func WithBoundary(boundary []byte) Option {
	return func(e *Encoder) error {
		cleaned := []byte(sanitizeToken(string(boundary)))
		if len(cleaned) == 0 {
			return fmt.Errorf("boundary is empty")
		}
		e.boundary = cleaned
		return nil
	}
}

// NewEncoder creates an encoder for the given fields. The scheduler is
// required: there is no implicit process-wide default, so every
// encoder's stepping policy is explicit at the call site.
//
// The length probe runs here, once. After NewEncoder returns, Length
// reports the exact total output size, or UnknownLength if any
// attachment's size is undeclared. No body source has been read.
func NewEncoder(scheduler flow.Scheduler, fields Fields, opts ...Option) (*Encoder, error) {
	if scheduler == nil {
		return nil, fmt.Errorf("multipart: nil scheduler")
	}

	e := &Encoder{
		scheduler: scheduler,
		fields:    fields,
		state:     StateIdle,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("multipart: %w", err)
		}
	}
	if e.boundary == nil {
		e.boundary = generateBoundary()
	}

	e.length = probeLength(e.boundary, fields)
	return e, nil
}

// Boundary returns a copy of the boundary token in use.
func (e *Encoder) Boundary() []byte {
	return append([]byte(nil), e.boundary...)
}

// Length returns the exact total output size in bytes, or
// UnknownLength when any attachment's size is undeclared.
func (e *Encoder) Length() int64 {
	return e.length
}

// State returns the current lifecycle state.
func (e *Encoder) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start begins production into consumer. It registers the step loop
// with the encoder's scheduler and returns a completion channel that
// delivers exactly one value on a terminal state: nil for Completed,
// the causing error for Failed. After Stop the channel stays silent:
// cancellation is neither success nor failure.
//
// Start can be called once; any later call fails.
func (e *Encoder) Start(consumer flow.Consumer) (<-chan error, error) {
	if consumer == nil {
		return nil, fmt.Errorf("multipart: nil consumer")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		return nil, fmt.Errorf("multipart: encoder already started (state %s)", e.state)
	}

	e.consumer = consumer
	e.complete = make(chan error, 1)
	e.state = StateProducing
	e.task = e.scheduler.Schedule(e.step)
	return e.complete, nil
}

// Pause suspends production. The step already in flight (if any)
// finishes; no bytes are emitted afterwards until Resume. Pausing an
// encoder that is not producing has no effect.
func (e *Encoder) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateProducing {
		return
	}
	e.state = StatePaused
	e.task.Pause()
}

// Resume continues production from the exact point Pause left it: no
// retransmission, no gap, no duplication. Resuming an encoder that is
// not paused has no effect.
func (e *Encoder) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePaused {
		return
	}
	e.state = StateProducing
	e.task.Resume()
}

// Stop cancels production. The step loop is unregistered, the active
// body source (if any) is closed before Stop returns, and the
// completion channel never receives a value. Stopping an encoder that
// is not producing or paused has no effect.
func (e *Encoder) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateProducing && e.state != StatePaused {
		return
	}
	e.state = StateStopped
	e.task.Stop()
	e.closeCurrent()
	e.pending = nil
}

// step is the bounded unit of work handed to the scheduler. It either
// generates the next piece of output into the pending buffer or
// retries delivering what a backpressured consumer declined, never
// both unboundedly.
func (e *Encoder) step() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// A stop or failure may have landed between the scheduler
	// deciding to invoke this step and the lock being acquired.
	if e.state != StateProducing {
		return e.state != StatePaused, nil
	}

	if len(e.pending) == 0 {
		if err := e.generate(); err != nil {
			e.fail(err)
			return true, nil
		}
	}

	if len(e.pending) > 0 {
		n, err := e.consumer.Write(e.pending)
		if err != nil {
			e.closeCurrent()
			e.fail(fmt.Errorf("write to consumer: %w", err))
			return true, nil
		}
		e.pending = e.pending[n:]
		if len(e.pending) > 0 {
			// Backpressure: keep the remainder and let the
			// scheduler re-invoke us later.
			return false, nil
		}
		e.pending = nil
	}

	if e.phase == phaseFinished {
		e.state = StateCompleted
		e.complete <- nil
		return true, nil
	}
	return false, nil
}

// generate advances the state machine by one piece, filling the
// pending buffer. Body sources are closed here on end-of-data and on
// read failure; Stop covers the remaining exit path.
func (e *Encoder) generate() error {
	switch e.phase {
	case phaseHeader:
		if e.fieldIndex >= len(e.fields) {
			e.pending = renderFinalBoundary(e.boundary)
			e.phase = phaseFinished
			return nil
		}
		field := e.fields[e.fieldIndex]
		e.current = field.source
		e.pending = renderHeaderBlock(e.boundary, field)
		e.phase = phaseBody
		return nil

	case phaseBody:
		chunk, err := e.current.Next()
		if err == io.EOF {
			closeErr := e.current.Close()
			e.current = nil
			if closeErr != nil {
				return fmt.Errorf("close body of field %q: %w", e.fields[e.fieldIndex].name, closeErr)
			}
			e.pending = crlf
			e.fieldIndex++
			e.phase = phaseHeader
			return nil
		}
		if err != nil {
			e.closeCurrent()
			return fmt.Errorf("read body of field %q: %w", e.fields[e.fieldIndex].name, err)
		}
		e.pending = chunk
		return nil

	default:
		// phaseFinished with an empty pending buffer is handled by
		// the caller; there is nothing left to generate.
		return nil
	}
}

// fail moves to the Failed terminal state and fulfills the completion
// channel with err. Callers are responsible for having closed the
// active source first.
func (e *Encoder) fail(err error) {
	e.state = StateFailed
	e.pending = nil
	e.complete <- err
}

// closeCurrent closes the active body source, if any. Close errors on
// abandonment paths are discarded: the production outcome was already
// decided by whatever triggered the abandonment.
func (e *Encoder) closeCurrent() {
	if e.current != nil {
		_ = e.current.Close()
		e.current = nil
	}
}
