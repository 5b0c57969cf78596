// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package multipart

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// DigestSource is a pass-through wrapper that computes the BLAKE3
// digest of the bytes as they stream out of the inner source. Length
// and close behavior are the inner source's own.
//
// The digest covers exactly the bytes delivered so far: after the
// source is drained it is the digest of the whole payload, which gives
// uploaders an integrity record of what actually went over the wire
// without a second read of the data.
type DigestSource struct {
	inner  BodySource
	hasher *blake3.Hasher
}

// NewDigestSource wraps inner with digest tracking.
func NewDigestSource(inner BodySource) *DigestSource {
	return &DigestSource{inner: inner, hasher: blake3.New()}
}

// Len reports the inner source's length.
func (s *DigestSource) Len() int64 {
	return s.inner.Len()
}

// Next pulls the next chunk from the inner source, folding it into
// the digest before returning it.
func (s *DigestSource) Next() ([]byte, error) {
	chunk, err := s.inner.Next()
	if len(chunk) > 0 {
		// blake3.Hasher.Write never fails.
		_, _ = s.hasher.Write(chunk)
	}
	return chunk, err
}

// Close closes the inner source.
func (s *DigestSource) Close() error {
	return s.inner.Close()
}

// Sum returns the 32-byte BLAKE3 digest of the bytes streamed so far.
func (s *DigestSource) Sum() [32]byte {
	var digest [32]byte
	copy(digest[:], s.hasher.Sum(nil))
	return digest
}

// SumHex returns the digest as a lowercase hex string.
func (s *DigestSource) SumHex() string {
	digest := s.Sum()
	return hex.EncodeToString(digest[:])
}
