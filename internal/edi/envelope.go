package edi

import (
	"fmt"
	"math/rand"
	"time"
)

// Envelope carries the identifiers needed to open and close an interchange.
// Sender and receiver IDs are space-padded to exactly 15 characters inside
// the ISA segment, per the X12 fixed-width interchange header rules.
type Envelope struct {
	SenderQualifier   string // usually "ZZ" (mutually defined)
	SenderID          string
	ReceiverQualifier string
	ReceiverID        string
	ControlNumber     string // 9 digits, numeric
	Usage             string // "P" production, "T" test
}

// NewControlNumber derives a 9-digit interchange control number from the
// current time plus a random suffix. Concurrent checks need only local
// uniqueness; a shared monotonic counter is deliberately avoided.
func NewControlNumber(now time.Time) string {
	return fmt.Sprintf("%s%03d", now.Format("150405"), rand.Intn(1000))
}

func padID(id string) string {
	if len(id) > 15 {
		return id[:15]
	}
	return fmt.Sprintf("%-15s", id)
}

// OpenInterchange appends ISA and GS headers for an eligibility inquiry
// functional group (HS).
func (e Envelope) OpenInterchange(t *Transaction, now time.Time) {
	usage := e.Usage
	if usage == "" {
		usage = "P"
	}
	t.Append("ISA",
		"00", "          ",
		"00", "          ",
		e.SenderQualifier, padID(e.SenderID),
		e.ReceiverQualifier, padID(e.ReceiverID),
		now.Format("060102"), now.Format("1504"),
		RepetitionSeparator, "00501",
		e.ControlNumber, "0", usage, ComponentSeparator,
	)
	t.Append("GS",
		"HS",
		e.SenderID, e.ReceiverID,
		now.Format("20060102"), now.Format("1504"),
		groupControl(e.ControlNumber), "X", "005010X279A1",
	)
}

// CloseInterchange appends GE and IEA trailers matching OpenInterchange.
func (e Envelope) CloseInterchange(t *Transaction) {
	t.Append("GE", "1", groupControl(e.ControlNumber))
	t.Append("IEA", "1", e.ControlNumber)
}

// groupControl trims the interchange control number to the shorter group
// control number form (no leading zeros).
func groupControl(icn string) string {
	trimmed := icn
	for len(trimmed) > 1 && trimmed[0] == '0' {
		trimmed = trimmed[1:]
	}
	return trimmed
}

// CloseTransactionSet appends the SE trailer, counting the segments emitted
// since the ST at stIndex (inclusive of both ST and SE).
func CloseTransactionSet(t *Transaction, stIndex int, controlNumber string) {
	count := len(t.Segments) - stIndex + 1 // +1 for the SE itself
	t.Append("SE", fmt.Sprintf("%d", count), controlNumber)
}
