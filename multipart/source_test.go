// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package multipart

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestMemorySourceChunking(t *testing.T) {
	t.Parallel()

	source := NewMemorySource([]byte("abcdefghij"))
	source.ChunkSize = 4

	if source.Len() != 10 {
		t.Errorf("Len: got %d, want 10", source.Len())
	}

	var chunks [][]byte
	for {
		chunk, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		chunks = append(chunks, append([]byte(nil), chunk...))
	}

	want := [][]byte{[]byte("abcd"), []byte("efgh"), []byte("ij")}
	if len(chunks) != len(want) {
		t.Fatalf("chunk count: got %d, want %d", len(chunks), len(want))
	}
	for i := range want {
		if !bytes.Equal(chunks[i], want[i]) {
			t.Errorf("chunk %d: got %q, want %q", i, chunks[i], want[i])
		}
	}

	// Len reports the full payload size even after consumption.
	if source.Len() != 10 {
		t.Errorf("Len after drain: got %d, want 10", source.Len())
	}
	if err := source.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestMemorySourceEmpty(t *testing.T) {
	t.Parallel()

	source := NewMemorySource(nil)
	if source.Len() != 0 {
		t.Errorf("Len: got %d, want 0", source.Len())
	}
	if _, err := source.Next(); err != io.EOF {
		t.Errorf("Next on empty source: got %v, want io.EOF", err)
	}
}

func TestReaderSourceSeekableLength(t *testing.T) {
	t.Parallel()

	reader := bytes.NewReader([]byte("here are some bytes"))

	// Advance the position first: the declared length is the
	// remaining bytes, and measuring must not move the position.
	if _, err := reader.Seek(5, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	source := NewReaderSource(reader)
	if source.Len() != 14 {
		t.Errorf("Len: got %d, want 14", source.Len())
	}

	position, err := reader.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if position != 5 {
		t.Errorf("read position disturbed by measurement: got %d, want 5", position)
	}

	chunk, err := source.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if string(chunk) != "are some bytes" {
		t.Errorf("first chunk: got %q, want %q", chunk, "are some bytes")
	}
}

func TestReaderSourceUnseekableLength(t *testing.T) {
	t.Parallel()

	source := NewReaderSource(iotestReader{bytes.NewReader([]byte("data"))})
	if source.Len() != UnknownLength {
		t.Errorf("Len: got %d, want UnknownLength", source.Len())
	}
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "attachment.bin")
	content := []byte("file-backed attachment content")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	source, err := FileSource(path)
	if err != nil {
		t.Fatalf("FileSource: %v", err)
	}
	if source.Len() != int64(len(content)) {
		t.Errorf("Len: got %d, want %d", source.Len(), len(content))
	}

	var got []byte
	for {
		chunk, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, chunk...)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("content: got %q, want %q", got, content)
	}
	if err := source.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestFileSourceMissing(t *testing.T) {
	t.Parallel()

	if _, err := FileSource(filepath.Join(t.TempDir(), "no-such-file")); err == nil {
		t.Fatal("FileSource succeeded on a missing file, want error")
	}
}
