package edi

import (
	"fmt"
	"strings"
)

// Transaction is an ordered sequence of segments between (and including) the
// interchange header and trailer.
type Transaction struct {
	Segments []Segment
}

// Parse splits raw X12 text on the segment terminator. Blank fragments
// (trailing terminator, stray newlines) are dropped.
func Parse(raw string) Transaction {
	var t Transaction
	for _, part := range strings.Split(raw, SegmentTerminator) {
		seg := ParseSegment(part)
		if seg.IsZero() {
			continue
		}
		t.Segments = append(t.Segments, seg)
	}
	return t
}

// String renders the transaction with one segment per terminator.
func (t Transaction) String() string {
	var b strings.Builder
	for _, seg := range t.Segments {
		b.WriteString(seg.String())
		b.WriteString(SegmentTerminator)
	}
	return b.String()
}

// Append adds a segment built from tag and elements.
func (t *Transaction) Append(tag string, elements ...string) {
	t.Segments = append(t.Segments, NewSegment(tag, elements...))
}

// First returns the first segment with the given tag.
func (t Transaction) First(tag string) (Segment, bool) {
	for _, seg := range t.Segments {
		if seg.Tag == tag {
			return seg, true
		}
	}
	return Segment{}, false
}

// All returns every segment with the given tag, in order.
func (t Transaction) All(tag string) []Segment {
	var out []Segment
	for _, seg := range t.Segments {
		if seg.Tag == tag {
			out = append(out, seg)
		}
	}
	return out
}

// Validate checks the structural invariants every interchange must satisfy:
// the ISA/IEA control numbers match, the GS/GE control numbers match, and the
// SE segment count equals the actual number of segments from ST through SE
// inclusive. Most clearinghouses silently tolerate an off-by-one SE count,
// which is exactly why it has to be caught here instead.
func (t Transaction) Validate() error {
	isa, ok := t.First("ISA")
	if !ok {
		return fmt.Errorf("edi: missing ISA interchange header")
	}
	iea, ok := t.First("IEA")
	if !ok {
		return fmt.Errorf("edi: missing IEA interchange trailer")
	}
	if isa.Element(13) == "" || strings.TrimLeft(isa.Element(13), "0") != strings.TrimLeft(iea.Element(2), "0") {
		return fmt.Errorf("edi: interchange control number mismatch: ISA13=%q IEA02=%q", isa.Element(13), iea.Element(2))
	}

	if gs, ok := t.First("GS"); ok {
		ge, ok := t.First("GE")
		if !ok {
			return fmt.Errorf("edi: GS present without GE trailer")
		}
		if gs.Element(6) != ge.Element(2) {
			return fmt.Errorf("edi: group control number mismatch: GS06=%q GE02=%q", gs.Element(6), ge.Element(2))
		}
	}

	stIdx := -1
	for i, seg := range t.Segments {
		switch seg.Tag {
		case "ST":
			stIdx = i
		case "SE":
			if stIdx < 0 {
				return fmt.Errorf("edi: SE without preceding ST")
			}
			st := t.Segments[stIdx]
			if st.Element(2) != seg.Element(2) {
				return fmt.Errorf("edi: transaction set control number mismatch: ST02=%q SE02=%q", st.Element(2), seg.Element(2))
			}
			declared := seg.Element(1)
			actual := fmt.Sprintf("%d", i-stIdx+1)
			if declared != actual {
				return fmt.Errorf("edi: SE segment count %s does not match actual %s", declared, actual)
			}
			stIdx = -1
		}
	}
	if stIdx >= 0 {
		return fmt.Errorf("edi: ST without matching SE")
	}
	return nil
}
