// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// fieldSpec is a parsed --field argument: a scalar form field.
type fieldSpec struct {
	name  string
	value string
}

// attachSpec is a parsed --attach argument: a file-backed attachment.
type attachSpec struct {
	name        string
	path        string
	filename    string
	contentType string
}

// parseFieldSpec parses "name=value". The value may itself contain
// '=' characters; only the first one separates.
func parseFieldSpec(spec string) (fieldSpec, error) {
	name, value, found := strings.Cut(spec, "=")
	if !found || name == "" {
		return fieldSpec{}, fmt.Errorf("malformed --field %q (want name=value)", spec)
	}
	return fieldSpec{name: name, value: value}, nil
}

// parseAttachSpec parses "name=path[;filename=NAME][;type=MIME]".
//
// When no filename is given, the file's base name is used. When no
// type is given, it is guessed from the file extension, falling back
// to application/octet-stream.
func parseAttachSpec(spec string) (attachSpec, error) {
	name, rest, found := strings.Cut(spec, "=")
	if !found || name == "" {
		return attachSpec{}, fmt.Errorf("malformed --attach %q (want name=path[;filename=NAME][;type=MIME])", spec)
	}

	parts := strings.Split(rest, ";")
	parsed := attachSpec{name: name, path: parts[0]}
	if parsed.path == "" {
		return attachSpec{}, fmt.Errorf("malformed --attach %q: empty path", spec)
	}

	for _, option := range parts[1:] {
		key, value, found := strings.Cut(option, "=")
		if !found {
			return attachSpec{}, fmt.Errorf("malformed --attach option %q (want key=value)", option)
		}
		switch key {
		case "filename":
			parsed.filename = value
		case "type":
			parsed.contentType = value
		default:
			return attachSpec{}, fmt.Errorf("unknown --attach option %q (want filename or type)", key)
		}
	}

	if parsed.filename == "" {
		parsed.filename = filepath.Base(parsed.path)
	}
	if parsed.contentType == "" {
		parsed.contentType = mime.TypeByExtension(filepath.Ext(parsed.path))
		if parsed.contentType == "" {
			parsed.contentType = "application/octet-stream"
		}
	}
	return parsed, nil
}
