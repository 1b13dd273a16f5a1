package eligibility

import (
	"strings"
	"time"

	"github.com/carebridge/eligibility-engine/internal/payers"
)

// PatientInquiry is the immutable patient snapshot for one eligibility check.
// Dates use ISO form (2006-01-02); empty strings mean "not supplied".
type PatientInquiry struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
	Gender       string `json:"gender,omitempty"` // "M", "F", or ""
	MemberNumber string `json:"member_number,omitempty"`
	MedicaidID   string `json:"medicaid_id,omitempty"`
	GroupNumber  string `json:"group_number,omitempty"`
	SSN          string `json:"ssn,omitempty"`
	ServiceDate  string `json:"service_date,omitempty"` // defaults to today
}

// Identifier returns the subscriber identifier to place on the wire: the
// commercial member number when present, else the Medicaid ID.
func (p PatientInquiry) Identifier() string {
	if p.MemberNumber != "" {
		return p.MemberNumber
	}
	return p.MedicaidID
}

// BirthDate parses DateOfBirth, returning the zero time when absent or
// unparseable. Callers must treat zero as "omit the DMG segment entirely".
func (p PatientInquiry) BirthDate() time.Time {
	if p.DateOfBirth == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", p.DateOfBirth)
	if err != nil {
		return time.Time{}
	}
	return t
}

// serviceDate resolves the service date, defaulting to now.
func (p PatientInquiry) serviceDate(now time.Time) time.Time {
	if p.ServiceDate == "" {
		return now
	}
	t, err := time.Parse("2006-01-02", p.ServiceDate)
	if err != nil {
		return now
	}
	return t
}

// Validate checks the inquiry against a payer dialect's field requirements.
// It fails fast (before any network call) when a required field is missing,
// or when the dialect needs an identifier and neither member number nor
// Medicaid ID was supplied.
func (p PatientInquiry) Validate(d *payers.Dialect) error {
	fields := map[string]string{
		payers.FieldFirstName:    p.FirstName,
		payers.FieldLastName:     p.LastName,
		payers.FieldDateOfBirth:  p.DateOfBirth,
		payers.FieldGender:       p.Gender,
		payers.FieldMemberNumber: p.MemberNumber,
		payers.FieldMedicaidID:   p.MedicaidID,
		payers.FieldGroupNumber:  p.GroupNumber,
		payers.FieldSSN:          p.SSN,
	}
	for _, name := range []string{
		payers.FieldFirstName, payers.FieldLastName, payers.FieldDateOfBirth,
		payers.FieldGender, payers.FieldGroupNumber, payers.FieldSSN,
	} {
		if d.Requires(name) && strings.TrimSpace(fields[name]) == "" {
			return &ValidationError{Field: name, Reason: "required by payer " + d.PayerCode}
		}
	}

	// Identifier rule: member_number and medicaid_id satisfy each other. Only
	// dialects that allow pure demographic matching may omit both.
	needsID := d.Requires(payers.FieldMemberNumber) || d.Requires(payers.FieldMedicaidID)
	if needsID && p.Identifier() == "" && !d.NameOnlyMatching {
		return &ValidationError{
			Field:  payers.FieldMemberNumber,
			Reason: "payer " + d.PayerCode + " requires a member number or Medicaid ID",
		}
	}

	if p.DateOfBirth != "" && p.BirthDate().IsZero() {
		return &ValidationError{Field: payers.FieldDateOfBirth, Reason: "must be YYYY-MM-DD"}
	}
	return nil
}
