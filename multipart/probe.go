// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package multipart

// countingSink tallies the byte counts of the structural pieces of the
// output without buffering them. The probe writes the exact same
// rendered header and boundary bytes the encoder will later write, so
// the two can never disagree about formatting overhead.
type countingSink struct {
	total int64
}

func (c *countingSink) Write(p []byte) (int, error) {
	c.total += int64(len(p))
	return len(p), nil
}

// probeLength computes the total output size for the given fields and
// boundary by replaying the production formatting against a counting
// sink and adding each body's declared length. If any body's length is
// unknown the result is UnknownLength; a partial sum would be worse
// than no answer. No body source is read: only Len is consulted, which
// never advances a read position.
func probeLength(boundary []byte, fields Fields) int64 {
	sink := &countingSink{}
	for _, field := range fields {
		bodyLength := field.source.Len()
		if bodyLength == UnknownLength {
			return UnknownLength
		}
		sink.Write(renderHeaderBlock(boundary, field))
		sink.total += bodyLength
		sink.Write(crlf)
	}
	sink.Write(renderFinalBoundary(boundary))
	return sink.total
}
