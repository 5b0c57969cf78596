// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package multipart

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies a streaming compression algorithm for
// [CompressSource].
type Codec string

const (
	// CodecZstd compresses with zstd at the default level. Better
	// ratios for text, JSON, logs and similar content.
	CodecZstd Codec = "zstd"

	// CodecLZ4 compresses with the LZ4 frame format. Fast default
	// for binary data where CPU cost matters more than ratio.
	CodecLZ4 Codec = "lz4"
)

// ParseCodec parses a codec from its string representation.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	default:
		return "", fmt.Errorf("unknown compression codec: %q", name)
	}
}

// CompressSource streams an inner source through a compression codec.
// The compressed length cannot be known without doing the work, so Len
// always reports UnknownLength: an attachment built from it carries
// no Content-Length header and makes the encoder's declared total
// unknown.
//
// Closing the source closes the inner source exactly once, whether or
// not the stream was fully drained.
type CompressSource struct {
	inner      BodySource
	compressor io.WriteCloser
	buffer     bytes.Buffer
	flushed    bool
}

// NewCompressSource wraps inner with the given codec.
func NewCompressSource(inner BodySource, codec Codec) (*CompressSource, error) {
	source := &CompressSource{inner: inner}

	switch codec {
	case CodecZstd:
		writer, err := zstd.NewWriter(&source.buffer,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
		)
		if err != nil {
			return nil, fmt.Errorf("zstd compressor: %w", err)
		}
		source.compressor = writer

	case CodecLZ4:
		source.compressor = lz4.NewWriter(&source.buffer)

	default:
		return nil, fmt.Errorf("unknown compression codec: %q", codec)
	}

	return source, nil
}

// Len always returns UnknownLength.
func (s *CompressSource) Len() int64 {
	return UnknownLength
}

// Next returns the next chunk of compressed bytes. It pulls from the
// inner source until the compressor emits output or the input ends;
// the codec's internal block buffering bounds how much input a single
// call consumes before producing anything.
func (s *CompressSource) Next() ([]byte, error) {
	for s.buffer.Len() == 0 && !s.flushed {
		chunk, err := s.inner.Next()
		if err == io.EOF {
			// Closing the compressor flushes the final block and
			// the stream trailer into the buffer.
			if err := s.compressor.Close(); err != nil {
				return nil, fmt.Errorf("finish compressed stream: %w", err)
			}
			s.flushed = true
			break
		}
		if err != nil {
			return nil, err
		}
		if _, err := s.compressor.Write(chunk); err != nil {
			return nil, fmt.Errorf("compress chunk: %w", err)
		}
	}

	if s.buffer.Len() == 0 {
		return nil, io.EOF
	}
	return s.buffer.Next(s.buffer.Len()), nil
}

// Close releases the compressor and closes the inner source.
func (s *CompressSource) Close() error {
	if !s.flushed {
		// Abandoned mid-stream: release compressor resources. The
		// flushed output is discarded along with the buffer.
		s.flushed = true
		_ = s.compressor.Close()
	}
	return s.inner.Close()
}
