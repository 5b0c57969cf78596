// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package multipart

import (
	"fmt"
	"sort"
	"strings"
)

// Attachment is the caller-facing value for a file or stream field.
// Filename is optional; ContentType and Source are required.
type Attachment struct {
	Filename    string
	ContentType string
	Source      BodySource
}

// Pair is one (name, value) entry of an ordered field list. The value
// must be a string, a []byte, or an [Attachment].
type Pair struct {
	Name  string
	Value any
}

// Field is one normalized form field. Scalars carry their bytes in a
// memory source; attachments carry the caller's source plus filename
// and content type. Construction goes through [FromPairs] or
// [FromMap]; a Field is never built by hand.
type Field struct {
	name        string
	filename    string
	contentType string
	attachment  bool
	source      BodySource
}

// Name returns the field's sanitized name.
func (f Field) Name() string {
	return f.name
}

// Fields is an ordered list of normalized form fields.
type Fields []Field

// FromPairs normalizes an ordered sequence of (name, value) pairs.
// Order is preserved exactly and duplicate names are allowed. Any
// malformed pair fails the whole normalization: no partial list is
// produced and no I/O has happened.
func FromPairs(pairs []Pair) (Fields, error) {
	fields := make(Fields, 0, len(pairs))
	for _, pair := range pairs {
		field, err := normalize(pair.Name, pair.Value)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// FromMap normalizes a unique-keyed name-to-value mapping. Go maps
// carry no insertion order, so the output order is deterministic
// instead: scalar fields first, sorted by name, then attachments,
// sorted by name. Use [FromPairs] when literal order or duplicate
// names matter.
func FromMap(values map[string]any) (Fields, error) {
	var scalars, attachments Fields
	for name, value := range values {
		field, err := normalize(name, value)
		if err != nil {
			return nil, err
		}
		if field.attachment {
			attachments = append(attachments, field)
		} else {
			scalars = append(scalars, field)
		}
	}

	sort.Slice(scalars, func(i, j int) bool { return scalars[i].name < scalars[j].name })
	sort.Slice(attachments, func(i, j int) bool { return attachments[i].name < attachments[j].name })
	return append(scalars, attachments...), nil
}

// normalize validates one (name, value) entry and produces its Field.
func normalize(name string, value any) (Field, error) {
	cleaned := sanitizeToken(name)
	if cleaned == "" {
		return Field{}, fmt.Errorf("empty field name (raw name %q)", name)
	}

	switch v := value.(type) {
	case string:
		return Field{name: cleaned, source: NewMemorySource([]byte(v))}, nil

	case []byte:
		return Field{name: cleaned, source: NewMemorySource(v)}, nil

	case Attachment:
		if v.Source == nil {
			return Field{}, fmt.Errorf("attachment %q has no body source", cleaned)
		}
		contentType := sanitizeToken(v.ContentType)
		if contentType == "" {
			return Field{}, fmt.Errorf("attachment %q has no content type", cleaned)
		}
		return Field{
			name:        cleaned,
			filename:    sanitizeToken(v.Filename),
			contentType: contentType,
			attachment:  true,
			source:      v.Source,
		}, nil

	case nil:
		return Field{}, fmt.Errorf("field %q has a nil value", cleaned)

	default:
		return Field{}, fmt.Errorf("field %q has unsupported value type %T (want string, []byte, or Attachment)", cleaned, value)
	}
}

// sanitizeToken strips carriage returns and line feeds from a value
// destined for a header line. Stripping (rather than escaping) matches
// the historical producer behavior; it blocks header-line injection
// but is not a general escaping scheme.
func sanitizeToken(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
