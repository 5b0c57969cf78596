// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

// Package multipart produces multipart/form-data byte streams under
// cooperative flow control.
//
// A field list is normalized once ([FromPairs], [FromMap]), an
// [Encoder] is constructed with an explicit [flow.Scheduler], and
// production runs step by step into a [flow.Consumer]: one header
// block, body chunk, or boundary line per step, honoring consumer
// backpressure, pause, resume, and stop. The exact total output
// length is precomputed at construction whenever every attachment
// declares its size, without reading any body.
//
// Body payloads are [BodySource] values: one-shot, forward-only, read
// exactly once and closed exactly once regardless of how production
// ends. [MemorySource] serves in-memory bytes, [ReaderSource] and
// [FileSource] stream from readers and files, [CompressSource] adds
// streaming zstd or LZ4 compression, and [DigestSource] records a
// BLAKE3 digest of the bytes as they pass.
//
// The package is a producer only: it writes the wire format and does
// not parse it. It guarantees nothing about boundary tokens colliding
// with field content; generated tokens are merely long enough to make
// that negligible.
//
// Key exports:
//
//   - [FromPairs], [FromMap], [Pair], [Attachment] -- field input
//   - [BodySource] and its implementations -- payloads
//   - [Encoder], [NewEncoder], [WithBoundary] -- production
//   - [UnknownLength] -- the "size not declared" sentinel
//
// This package depends only on the flow package.
package multipart
