// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package multipart

import (
	"fmt"
	"io"
	"os"
)

// UnknownLength is the sentinel returned by [BodySource.Len] (and by
// [Encoder.Length]) when the total size cannot be determined without
// reading.
const UnknownLength int64 = -1

// DefaultChunkSize is the chunk size used by sources when no explicit
// size is set. 64 KiB keeps per-step work bounded while staying large
// enough that syscall and framing overhead is negligible.
const DefaultChunkSize = 64 * 1024

// BodySource is a one-shot, forward-only byte payload. The encoder
// reads it start to end exactly once via Next and closes it exactly
// once, whether the body was fully consumed, abandoned on stop, or
// abandoned on a read failure. There is no rewind.
//
// Len reports the total remaining size in bytes, or UnknownLength. It
// must not advance the read position: the length probe calls it before
// production and the same source is read afterwards.
type BodySource interface {
	// Len returns the total number of bytes Next will deliver, or
	// UnknownLength when that cannot be known up front.
	Len() int64

	// Next returns the next chunk, or io.EOF after the final chunk.
	// The returned slice is only valid until the following Next call.
	Next() ([]byte, error)

	// Close releases the underlying resource. The encoder calls it
	// exactly once per source.
	Close() error
}

// MemorySource serves a fixed byte slice. Its length is always exact
// and Close is a no-op. The slice is not copied; the caller must not
// modify it while the source is in use.
type MemorySource struct {
	// ChunkSize bounds the size of each chunk returned by Next.
	// Zero means DefaultChunkSize. Must be set before the first Next
	// call.
	ChunkSize int

	data     []byte
	position int
}

// NewMemorySource creates a source over the given bytes.
func NewMemorySource(data []byte) *MemorySource {
	return &MemorySource{data: data}
}

// Len returns the full payload size, independent of how much has
// already been read.
func (s *MemorySource) Len() int64 {
	return int64(len(s.data))
}

// Next returns the next chunk of at most ChunkSize bytes, or io.EOF
// once the payload is exhausted.
func (s *MemorySource) Next() ([]byte, error) {
	if s.position >= len(s.data) {
		return nil, io.EOF
	}

	size := s.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	end := s.position + size
	if end > len(s.data) {
		end = len(s.data)
	}
	chunk := s.data[s.position:end]
	s.position = end
	return chunk, nil
}

// Close is a no-op: memory sources own no external resource.
func (s *MemorySource) Close() error {
	return nil
}

// ReaderSource streams from an io.Reader. The length is known only
// when the reader supports seeking: it is then measured once at
// construction by seeking to the end and back, leaving the current
// read position untouched. If the reader is also an io.Closer, Close
// closes it.
type ReaderSource struct {
	// ChunkSize bounds the size of each read. Zero means
	// DefaultChunkSize. Must be set before the first Next call.
	ChunkSize int

	reader io.Reader
	length int64
	buffer []byte
}

// NewReaderSource creates a streaming source over reader.
func NewReaderSource(reader io.Reader) *ReaderSource {
	return &ReaderSource{reader: reader, length: measureReader(reader)}
}

// measureReader returns the number of bytes between the reader's
// current position and its end, or UnknownLength when the reader
// cannot seek. The read position is restored before returning.
func measureReader(reader io.Reader) int64 {
	seeker, ok := reader.(io.Seeker)
	if !ok {
		return UnknownLength
	}

	current, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return UnknownLength
	}
	end, err := seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return UnknownLength
	}
	if _, err := seeker.Seek(current, io.SeekStart); err != nil {
		// The position could not be restored; the source is no
		// longer readable from where the caller left it, but that
		// is the seeker's failure mode, not ours. Report unknown.
		return UnknownLength
	}
	return end - current
}

// Len returns the remaining size measured at construction, or
// UnknownLength for unseekable readers.
func (s *ReaderSource) Len() int64 {
	return s.length
}

// Next reads and returns the next chunk. The returned slice is reused
// by the following Next call.
func (s *ReaderSource) Next() ([]byte, error) {
	if s.buffer == nil {
		size := s.ChunkSize
		if size <= 0 {
			size = DefaultChunkSize
		}
		s.buffer = make([]byte, size)
	}

	n, err := s.reader.Read(s.buffer)
	if n > 0 {
		// Deliver the bytes first; a terminal error surfaces on the
		// next call.
		return s.buffer[:n], nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

// Close closes the underlying reader when it is an io.Closer.
func (s *ReaderSource) Close() error {
	if closer, ok := s.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// FileSource opens the file at path and returns a source over it. The
// file size is known, so attachments built from it carry an exact
// Content-Length and count toward the encoder's declared total.
func FileSource(path string) (*ReaderSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open attachment file: %w", err)
	}
	return NewReaderSource(file), nil
}
