// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

package multipart

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fieldNames(fields Fields) []string {
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.Name()
	}
	return names
}

func TestFromPairsPreservesOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	fields, err := FromPairs([]Pair{
		{Name: "zfield", Value: "z"},
		{Name: "afield", Value: "a"},
		{Name: "zfield", Value: "z again"},
		{Name: "attachment", Value: Attachment{
			ContentType: "application/octet-stream",
			Source:      NewMemorySource([]byte("bytes")),
		}},
	})
	if err != nil {
		t.Fatalf("FromPairs: %v", err)
	}

	want := []string{"zfield", "afield", "zfield", "attachment"}
	if diff := cmp.Diff(want, fieldNames(fields)); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestFromMapOrdersScalarsThenAttachments(t *testing.T) {
	t.Parallel()

	fields, err := FromMap(map[string]any{
		"zscalar": "z",
		"ascalar": "a",
		"zfile": Attachment{ContentType: "text/plain",
			Source: NewMemorySource([]byte("zf"))},
		"afile": Attachment{ContentType: "text/plain",
			Source: NewMemorySource([]byte("af"))},
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}

	want := []string{"ascalar", "zscalar", "afile", "zfile"}
	if diff := cmp.Diff(want, fieldNames(fields)); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizationRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		pairs []Pair
	}{
		{"unsupported value type", []Pair{{Name: "a", Value: 42}}},
		{"map value", []Pair{{Name: "a", Value: map[string]string{"a": "b"}}}},
		{"nil value", []Pair{{Name: "a", Value: nil}}},
		{"attachment without source", []Pair{{Name: "a", Value: Attachment{ContentType: "text/plain"}}}},
		{"attachment without content type", []Pair{{Name: "a", Value: Attachment{
			Source: NewMemorySource(nil)}}}},
		{"empty name", []Pair{{Name: "", Value: "v"}}},
		{"name that sanitizes to empty", []Pair{{Name: "\r\n", Value: "v"}}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := FromPairs(tc.pairs); err == nil {
				t.Error("FromPairs succeeded, want error")
			}
		})
	}
}

func TestNormalizationStripsNewlines(t *testing.T) {
	t.Parallel()

	fields, err := FromPairs([]Pair{{Name: "na\r\nme", Value: "v"}})
	if err != nil {
		t.Fatalf("FromPairs: %v", err)
	}
	if got := fields[0].Name(); got != "name" {
		t.Errorf("sanitized name: got %q, want %q", got, "name")
	}
}

func TestNormalizationRejectsWholeListOnOneBadPair(t *testing.T) {
	t.Parallel()

	fields, err := FromPairs([]Pair{
		{Name: "good", Value: "fine"},
		{Name: "bad", Value: 3.14},
	})
	if err == nil {
		t.Fatal("FromPairs succeeded, want error")
	}
	if fields != nil {
		t.Errorf("partial field list produced: %v", fieldNames(fields))
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Errorf("error does not name the offending field: %v", err)
	}
}
