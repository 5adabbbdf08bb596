// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enex reads and writes ENEX export documents: a single en-export
// root wrapping repeated note records, each embedding an ENML content
// fragment and base64-encoded resources.
package enex

import (
	"time"
)

// TimeLayout is the fixed ENEX timestamp pattern.
const TimeLayout = "20060102T150405Z"

// ParseTime parses an ENEX timestamp, returning fallback when the value is
// empty or malformed.
func ParseTime(s string, fallback time.Time) time.Time {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return fallback
	}
	return t
}

// FormatTime renders a timestamp in the ENEX pattern (UTC).
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
