package eligibility

import (
	"time"

	"github.com/carebridge/eligibility-engine/internal/directory"
)

// Coverage status values reported on a check result.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Result is the top-level aggregate returned by a check. The raw 270
// and 271 payloads are carried for audit logging; callers own
// persistence.
type Result struct {
	Enrolled       bool                         `json:"enrolled"`
	CoverageStatus string                       `json:"coverage_status"`
	Plan           string                       `json:"plan,omitempty"`
	EffectiveDate  string                       `json:"effective_date,omitempty"`
	PayerName      string                       `json:"payer_name,omitempty"`
	MCOName        string                       `json:"mco_name,omitempty"`
	Member         Member                       `json:"member"`
	Benefits       *FinancialBenefits           `json:"benefits,omitempty"`
	Billability    *directory.BillabilityResult `json:"billability,omitempty"`
	Warnings       []string                     `json:"warnings,omitempty"`
	Request270     string                       `json:"request_270,omitempty"`
	Response271    string                       `json:"response_271,omitempty"`
	Simulated      bool                         `json:"simulated"`
	CheckedAt      time.Time                    `json:"checked_at"`
}

func coverageStatus(enrolled bool) string {
	if enrolled {
		return StatusActive
	}
	return StatusInactive
}

func (r *Result) outcome() string {
	switch {
	case r.Simulated:
		return "simulated"
	case r.Enrolled:
		return "enrolled"
	default:
		return "not_enrolled"
	}
}
