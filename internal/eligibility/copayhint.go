package eligibility

import (
	"strings"

	"github.com/carebridge/eligibility-engine/internal/edi"
)

// officeVisitKind disambiguates the shared office-visit service-type codes
// (98/BY) between primary-care and specialist copays.
type officeVisitKind int

const (
	officeVisitUnknown officeVisitKind = iota
	officeVisitPrimaryCare
	officeVisitSpecialist
)

// classifyOfficeVisit inspects up to the next three segments after an
// office-visit EB for an accompanying message naming the visit type. This is
// a low-confidence substring heuristic: payers that send no MSG text, or
// phrase it differently, fall through to officeVisitUnknown and the caller's
// default. Kept isolated so its approximate nature stays visible.
func classifyOfficeVisit(following []edi.Segment) officeVisitKind {
	limit := len(following)
	if limit > 3 {
		limit = 3
	}
	for _, seg := range following[:limit] {
		text := strings.ToUpper(seg.String())
		if strings.Contains(text, "SPECIALIST") {
			return officeVisitSpecialist
		}
		if strings.Contains(text, "PRIMARY CARE") {
			return officeVisitPrimaryCare
		}
	}
	return officeVisitUnknown
}
