// Package payers holds the per-payer encoding dialects used when building
// X12 270 inquiries. Clearinghouses route by payer code, but the payers
// behind those codes disagree about which patient fields they want and how
// dates and member IDs should be encoded; the dialect captures that.
package payers

// FieldRequirement describes how a payer treats one patient field on a 270.
type FieldRequirement string

const (
	FieldRequired    FieldRequirement = "required"
	FieldRecommended FieldRequirement = "recommended"
	FieldOptional    FieldRequirement = "optional"
	FieldNotNeeded   FieldRequirement = "not_needed"
)

// Patient field names used as keys in a dialect's requirement map.
const (
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldDateOfBirth  = "date_of_birth"
	FieldGender       = "gender"
	FieldMemberNumber = "member_number"
	FieldMedicaidID   = "medicaid_id"
	FieldGroupNumber  = "group_number"
	FieldSSN          = "ssn"
)

// Dialect is the per-payer encoding profile, keyed by the clearinghouse-
// assigned payer code.
type Dialect struct {
	PayerCode string `json:"payer_code"`
	PayerName string `json:"payer_name"`

	// Requirements maps patient field names to how the payer treats them.
	// Fields absent from the map default to not_needed.
	Requirements map[string]FieldRequirement `json:"requirements"`

	// GenderInDemographics requires the DMG segment to carry the gender code.
	GenderInDemographics bool `json:"gender_in_demographics"`
	// MemberIDInNameSegment places the member identifier in the subscriber
	// NM1 segment (MI qualifier). Payers that match on name/DOB omit it.
	MemberIDInNameSegment bool `json:"member_id_in_name_segment"`
	// DateRangeQualifier emits the service date as an RD8 range instead of a
	// single D8 date.
	DateRangeQualifier bool `json:"date_range_qualifier"`
	// NameOnlyMatching indicates the payer accepts inquiries with no member
	// identifier at all, matching purely on demographics.
	NameOnlyMatching bool `json:"name_only_matching"`
}

// Requirement returns the payer's treatment of a patient field, defaulting to
// not_needed for fields the dialect does not mention.
func (d Dialect) Requirement(field string) FieldRequirement {
	if r, ok := d.Requirements[field]; ok {
		return r
	}
	return FieldNotNeeded
}

// Requires reports whether the field is required by this payer.
func (d Dialect) Requires(field string) bool {
	return d.Requirement(field) == FieldRequired
}
