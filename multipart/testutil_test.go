// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package multipart

import (
	"bytes"
	"io"
	mimemultipart "mime/multipart"
	"testing"

	"github.com/partstream/partstream/flow"
)

// stubSource is a controllable body source for tests. It serves its
// data in one chunk and records close calls; a non-nil readErr makes
// every Next call fail instead.
type stubSource struct {
	data       []byte
	length     int64
	readErr    error
	served     bool
	closeCount int
}

func (s *stubSource) Len() int64 { return s.length }

func (s *stubSource) Next() ([]byte, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	if s.served {
		return nil, io.EOF
	}
	s.served = true
	return s.data, nil
}

func (s *stubSource) Close() error {
	s.closeCount++
	return nil
}

// iotestReader hides the Seeker half of a reader so length measurement
// has nothing to go on.
type iotestReader struct {
	inner io.Reader
}

func (r iotestReader) Read(p []byte) (int, error) { return r.inner.Read(p) }

// drain runs the manual scheduler dry with a safety bound.
func drain(t *testing.T, scheduler *flow.Manual) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if !scheduler.Tick() {
			return
		}
	}
	t.Fatal("scheduler did not drain within 10000 ticks")
}

// produce runs an encoder to completion on a manual scheduler and
// returns the output bytes.
func produce(t *testing.T, encoder *Encoder, scheduler *flow.Manual) []byte {
	t.Helper()

	var output bytes.Buffer
	complete, err := encoder.Start(&output)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	drain(t, scheduler)

	select {
	case err := <-complete:
		if err != nil {
			t.Fatalf("production failed: %v", err)
		}
	default:
		t.Fatal("completion channel empty after drain")
	}
	return output.Bytes()
}

// extractSinglePart parses output as multipart/form-data with the
// given boundary and returns the body of its only part.
func extractSinglePart(t *testing.T, output []byte, boundary string) []byte {
	t.Helper()

	reader := mimemultipart.NewReader(bytes.NewReader(output), boundary)
	part, err := reader.NextPart()
	if err != nil {
		t.Fatalf("NextPart: %v", err)
	}
	body, err := io.ReadAll(part)
	if err != nil {
		t.Fatalf("read part body: %v", err)
	}
	if _, err := reader.NextPart(); err != io.EOF {
		t.Fatalf("expected a single part, second NextPart returned %v", err)
	}
	return body
}
