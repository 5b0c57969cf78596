// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package multipart

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"strconv"
)

// crlf terminates every structural line of the wire format.
var crlf = []byte("\r\n")

// boundaryRandomBytes is the entropy of a generated boundary token.
// 16 random bytes (32 hex characters) make an accidental collision
// with field content negligible; collision avoidance is convention,
// not something the encoder enforces.
const boundaryRandomBytes = 16

// generateBoundary returns a fresh random boundary token.
func generateBoundary() []byte {
	raw := make([]byte, boundaryRandomBytes)
	if _, err := rand.Read(raw); err != nil {
		// crypto/rand.Read does not fail on supported platforms.
		panic("multipart: reading random boundary bytes: " + err.Error())
	}
	token := make([]byte, hex.EncodedLen(len(raw)))
	hex.Encode(token, raw)
	return token
}

// renderHeaderBlock formats everything that precedes a field's body
// bytes: the boundary delimiter line, the header lines, and the blank
// separator line.
//
// Names, filenames, and content types were CRLF-stripped during
// normalization and are written verbatim, with no quoting or escaping
// beyond that, matching the historical producer behavior.
func renderHeaderBlock(boundary []byte, field Field) []byte {
	var block bytes.Buffer
	block.WriteString("--")
	block.Write(boundary)
	block.Write(crlf)

	block.WriteString(`Content-Disposition: form-data; name="`)
	block.WriteString(field.name)
	block.WriteString(`"`)
	if field.attachment && field.filename != "" {
		block.WriteString(`; filename="`)
		block.WriteString(field.filename)
		block.WriteString(`"`)
	}
	block.Write(crlf)

	if field.attachment {
		block.WriteString("Content-Type: ")
		block.WriteString(field.contentType)
		block.Write(crlf)

		if length := field.source.Len(); length != UnknownLength {
			block.WriteString("Content-Length: ")
			block.WriteString(strconv.FormatInt(length, 10))
			block.Write(crlf)
		}
	}

	block.Write(crlf)
	return block.Bytes()
}

// renderFinalBoundary formats the terminal line that closes the whole
// body: the boundary with the trailing terminator marker.
func renderFinalBoundary(boundary []byte) []byte {
	var line bytes.Buffer
	line.WriteString("--")
	line.Write(boundary)
	line.WriteString("--")
	line.Write(crlf)
	return line.Bytes()
}
