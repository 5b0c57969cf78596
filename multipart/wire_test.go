// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package multipart

import (
	"testing"

	"github.com/partstream/partstream/flow"
)

func TestGenerateBoundary(t *testing.T) {
	t.Parallel()

	first := generateBoundary()
	second := generateBoundary()

	if len(first) != 32 {
		t.Errorf("boundary length: got %d, want 32", len(first))
	}
	for _, c := range first {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Errorf("boundary contains non-hex byte %q", c)
		}
	}
	if string(first) == string(second) {
		t.Error("two generated boundaries are identical")
	}
}

func TestWithBoundaryRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := NewEncoder(nopScheduler{}, nil, WithBoundary(nil)); err == nil {
		t.Error("empty boundary accepted")
	}
	if _, err := NewEncoder(nopScheduler{}, nil, WithBoundary([]byte("\r\n"))); err == nil {
		t.Error("boundary that sanitizes to empty accepted")
	}
}

func TestWithBoundaryStripsNewlines(t *testing.T) {
	t.Parallel()

	encoder, err := NewEncoder(nopScheduler{}, nil, WithBoundary([]byte("to\r\nken")))
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if got := string(encoder.Boundary()); got != "token" {
		t.Errorf("boundary: got %q, want %q", got, "token")
	}
}

func TestBoundaryReturnsCopy(t *testing.T) {
	t.Parallel()

	fields, err := FromPairs([]Pair{{Name: "afield", Value: "hi"}})
	if err != nil {
		t.Fatalf("FromPairs: %v", err)
	}

	scheduler := &flow.Manual{}
	encoder, err := NewEncoder(scheduler, fields, WithBoundary([]byte("token")))
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	// Mutating the returned slice must not corrupt the boundary lines
	// of later output.
	mutated := encoder.Boundary()
	for i := range mutated {
		mutated[i] = 'X'
	}
	if got := string(encoder.Boundary()); got != "token" {
		t.Fatalf("boundary after caller mutation: got %q, want %q", got, "token")
	}

	output := produce(t, encoder, scheduler)
	want := "--token\r\n" +
		"Content-Disposition: form-data; name=\"afield\"\r\n" +
		"\r\n" +
		"hi\r\n" +
		"--token--\r\n"
	if string(output) != want {
		t.Errorf("output:\ngot  %q\nwant %q", output, want)
	}
}

// nopScheduler satisfies flow.Scheduler for tests that never start
// production.
type nopScheduler struct{}

func (nopScheduler) Schedule(flow.Step) flow.Task { panic("unused") }
