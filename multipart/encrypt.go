// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package multipart

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"
)

// EncryptSource streams an inner source through age encryption to one
// or more x25519 recipients. The ciphertext length cannot be known up
// front, so Len always reports UnknownLength: an attachment built from
// it carries no Content-Length header and makes the encoder's declared
// total unknown.
//
// Closing the source closes the inner source exactly once, whether or
// not the stream was fully drained.
type EncryptSource struct {
	inner     BodySource
	encryptor io.WriteCloser
	buffer    bytes.Buffer
	flushed   bool
}

// NewEncryptSource wraps inner, encrypting to the given age public
// keys (age1... format). At least one recipient is required.
func NewEncryptSource(inner BodySource, recipientKeys []string) (*EncryptSource, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("parsing recipient key %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}

	source := &EncryptSource{inner: inner}
	encryptor, err := age.Encrypt(&source.buffer, recipients...)
	if err != nil {
		return nil, fmt.Errorf("age encryptor: %w", err)
	}
	source.encryptor = encryptor
	return source, nil
}

// Len always returns UnknownLength.
func (s *EncryptSource) Len() int64 {
	return UnknownLength
}

// Next returns the next chunk of ciphertext. It pulls from the inner
// source until the encryptor emits output or the input ends; the age
// format's internal chunking bounds how much input a single call
// consumes before producing anything.
func (s *EncryptSource) Next() ([]byte, error) {
	for s.buffer.Len() == 0 && !s.flushed {
		chunk, err := s.inner.Next()
		if err == io.EOF {
			// Closing the encryptor flushes the final payload chunk
			// and authentication tag into the buffer.
			if err := s.encryptor.Close(); err != nil {
				return nil, fmt.Errorf("finish encrypted stream: %w", err)
			}
			s.flushed = true
			break
		}
		if err != nil {
			return nil, err
		}
		if _, err := s.encryptor.Write(chunk); err != nil {
			return nil, fmt.Errorf("encrypt chunk: %w", err)
		}
	}

	if s.buffer.Len() == 0 {
		return nil, io.EOF
	}
	return s.buffer.Next(s.buffer.Len()), nil
}

// Close releases the encryptor and closes the inner source.
func (s *EncryptSource) Close() error {
	if !s.flushed {
		// Abandoned mid-stream: release encryptor state. The
		// buffered ciphertext is discarded along with the buffer.
		s.flushed = true
		_ = s.encryptor.Close()
	}
	return s.inner.Close()
}
