package eligibility

import (
	"strings"

	"github.com/carebridge/eligibility-engine/internal/edi"
)

// CoverageSummary is the first-pass decode of a 271: enrollment, identity of
// the payer and any managed-care organization, and member demographics.
type CoverageSummary struct {
	Enrolled      bool     `json:"enrolled"`
	CurrentPlan   string   `json:"current_plan,omitempty"`
	EffectiveDate string   `json:"effective_date,omitempty"`
	PayerName     string   `json:"payer_name,omitempty"`
	MCOName       string   `json:"mco_name,omitempty"`
	Member        Member   `json:"member"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Member holds subscriber demographics echoed back by the payer.
type Member struct {
	LastName  string `json:"last_name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	MemberID  string `json:"member_id,omitempty"`
}

// activeCoverageCodes are the EB01 values that mark active coverage.
var activeCoverageCodes = map[string]bool{"1": true, "Y": true, "A": true}

// genericPayerNames are NM1 payer names too vague to identify a plan; the
// REF-segment fallback runs when the payer name is one of these.
var genericPayerNames = []string{
	"UTAH MEDICAID",
	"MEDICAID",
	"MEDICAID UTAH",
	"STATE OF UTAH",
}

// planAliases maps substrings found in REF plan text to known plan names.
// Best effort: REF contents are free-form and payer-specific.
var planAliases = []struct {
	fragment string
	plan     string
}{
	{"MOLINA", "Molina Healthcare of Utah"},
	{"SELECTHEALTH", "SelectHealth Community Care"},
	{"SELECT HEALTH", "SelectHealth Community Care"},
	{"HEALTH CHOICE", "Health Choice Utah"},
	{"HEALTHY U", "Healthy U Medicaid"},
	{"UNIVERSITY OF UTAH", "Healthy U Medicaid"},
	{"ANTHEM", "Anthem BCBS"},
}

// ffsPlanName is the default when coverage is active but no managed-care
// plan could be identified.
const ffsPlanName = "Medicaid Fee-for-Service"

// Decode271 scans a raw 271 transaction segment by segment. Malformed
// segments are skipped, never fatal: clearinghouses are too inconsistent for
// strict parsing to survive production traffic.
func Decode271(raw string) CoverageSummary {
	tx := edi.Parse(raw)
	var sum CoverageSummary

	inSecondaryLoop := false
	sawEB := false
	var refPlanText []string

	for _, seg := range tx.Segments {
		switch seg.Tag {
		case "LS":
			inSecondaryLoop = true
		case "LE":
			inSecondaryLoop = false
		case "EB":
			sawEB = true
			// Enrollment is monotonic: once any EB marks active coverage the
			// answer stays true regardless of later segments.
			if activeCoverageCodes[seg.Element(1)] {
				sum.Enrolled = true
			}
		case "NM1":
			decodeName(seg, inSecondaryLoop, &sum)
		case "DTP":
			if q := seg.Element(1); q == "291" || q == "307" {
				if sum.EffectiveDate == "" {
					sum.EffectiveDate = seg.Element(3)
				}
			}
		case "REF":
			if q := seg.Element(1); q == "CE" || q == "6P" || q == "1L" {
				if txt := seg.Element(2); txt != "" {
					refPlanText = append(refPlanText, txt)
				}
				if txt := seg.Element(3); txt != "" {
					refPlanText = append(refPlanText, txt)
				}
			}
		}
	}

	if !sawEB {
		sum.Warnings = append(sum.Warnings, "response contained no EB segments; enrollment unknown")
	}

	sum.CurrentPlan = resolvePlanName(sum, refPlanText)
	return sum
}

func decodeName(seg edi.Segment, inSecondaryLoop bool, sum *CoverageSummary) {
	switch seg.Element(1) {
	case "PR":
		name := seg.Element(3)
		if name == "" {
			return
		}
		if inSecondaryLoop {
			// A payer loop nested under LS/LE is a managed-care organization
			// administering the benefit, never the primary payer.
			if sum.MCOName == "" {
				sum.MCOName = name
			}
			return
		}
		if sum.PayerName == "" {
			sum.PayerName = name
		}
	case "IL":
		if sum.Member.LastName == "" {
			sum.Member.LastName = seg.Element(3)
			sum.Member.FirstName = seg.Element(4)
		}
		if seg.Element(8) == "MI" && sum.Member.MemberID == "" {
			sum.Member.MemberID = seg.Element(9)
		}
	}
}

// resolvePlanName picks the most specific plan designation available: the
// MCO name, then a REF-text alias when the payer name is generic, then the
// fee-for-service default for active generic coverage.
func resolvePlanName(sum CoverageSummary, refPlanText []string) string {
	if sum.MCOName != "" {
		return sum.MCOName
	}
	payerUpper := strings.ToUpper(sum.PayerName)

	generic := sum.PayerName == ""
	for _, g := range genericPayerNames {
		if payerUpper == g {
			generic = true
			break
		}
	}
	if !generic {
		return sum.PayerName
	}

	for _, txt := range refPlanText {
		upper := strings.ToUpper(txt)
		for _, alias := range planAliases {
			if strings.Contains(upper, alias.fragment) {
				return alias.plan
			}
		}
	}

	if sum.Enrolled {
		return ffsPlanName
	}
	return ""
}
