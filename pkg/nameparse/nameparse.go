// Package nameparse derives a series name and year from a file or folder name
// when an archive carries no usable embedded metadata. It is a best-effort
// fallback and never fails: the worst outcome is the whole segment as the
// series name and an unknown year.
package nameparse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// A 4-digit year in parentheses, e.g. "(2019)".
	yearRE = regexp.MustCompile(`\((\d{4})\)`)
	// A standalone 4-digit run, used to cut names like "Firefly 001 2019".
	bareYearRE = regexp.MustCompile(`\b\d{4}\b`)
)

// Year returns the first parenthesized 4-digit year in the segment, or nil
// when no such pattern exists.
func Year(segment string) *int {
	match := yearRE.FindStringSubmatch(segment)
	if match == nil {
		return nil
	}
	year, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}
	return &year
}

// SeriesName extracts a series name from a path segment: the text before the
// first "(" when present, else the text before the first standalone 4-digit
// run, else the whole segment.
func SeriesName(segment string) string {
	if idx := strings.Index(segment, "("); idx >= 0 {
		if name := strings.TrimSpace(segment[:idx]); name != "" {
			return name
		}
		return segment
	}

	if loc := bareYearRE.FindStringIndex(segment); loc != nil {
		if name := strings.TrimSpace(segment[:loc[0]]); name != "" {
			return name
		}
	}

	return segment
}
