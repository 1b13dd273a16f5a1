// Package edi implements the segment-delimited X12 wire format used by
// healthcare eligibility transactions (270/271). It models transactions as
// ordered segments of ordered elements and handles the interchange envelope
// (ISA/GS/ST ... SE/GE/IEA) including control-number bookkeeping.
package edi

import (
	"strings"
)

// X12 delimiters. The component separator is ':' in composite elements and
// '^' for repeated values within a single element (e.g. service-type lists).
const (
	SegmentTerminator   = "~"
	ElementSeparator    = "*"
	ComponentSeparator  = ":"
	RepetitionSeparator = "^"
)

// Segment is one X12 segment: a tag (NM1, EB, DTP, ...) followed by ordered
// elements. Elements are addressed 1-based to match X12 documentation
// (NM1*PR*... means Element(1) == "PR"). Out-of-range access returns "".
type Segment struct {
	Tag      string
	Elements []string
}

// ParseSegment splits a raw segment (without its terminator) into tag and
// elements. Leading/trailing whitespace around the segment is dropped since
// clearinghouses are inconsistent about newlines between segments.
func ParseSegment(raw string) Segment {
	parts := strings.Split(strings.TrimSpace(raw), ElementSeparator)
	if len(parts) == 0 || parts[0] == "" {
		return Segment{}
	}
	return Segment{Tag: parts[0], Elements: parts[1:]}
}

// NewSegment builds a segment from a tag and elements in order.
func NewSegment(tag string, elements ...string) Segment {
	return Segment{Tag: tag, Elements: elements}
}

// Element returns the n-th element (1-based), or "" when the segment is too
// short. Positional X12 parsing must never index past a short segment.
func (s Segment) Element(n int) string {
	if n < 1 || n > len(s.Elements) {
		return ""
	}
	return s.Elements[n-1]
}

// Has reports whether the n-th element (1-based) is present and non-empty.
func (s Segment) Has(n int) bool {
	return s.Element(n) != ""
}

// Components splits the n-th element on the repetition separator, used for
// service-type lists like "30^98^A8". A single value yields a one-item slice.
func (s Segment) Components(n int) []string {
	v := s.Element(n)
	if v == "" {
		return nil
	}
	return strings.Split(v, RepetitionSeparator)
}

// String renders the segment without its terminator. Trailing empty elements
// are preserved; payers are positional and some dialects require them.
func (s Segment) String() string {
	if s.Tag == "" {
		return ""
	}
	if len(s.Elements) == 0 {
		return s.Tag
	}
	return s.Tag + ElementSeparator + strings.Join(s.Elements, ElementSeparator)
}

// IsZero reports whether the segment is empty (failed parse or blank line).
func (s Segment) IsZero() bool {
	return s.Tag == ""
}
