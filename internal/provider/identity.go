// Package provider models the billing provider identity placed in the
// information-receiver loop of an eligibility inquiry.
package provider

import (
	"strings"
)

// Identity is the billing provider as it appears on a 270: display name,
// NPI, and tax ID. The display name may be an organization ("Alpine
// Counseling Group PLLC") or a person ("Sarah Jensen").
type Identity struct {
	Name  string
	NPI   string
	TaxID string
}

// organizationTokens are name fragments that mark an organizational entity.
// Matching is done on whole uppercase tokens so "Inclusive Therapy" is not
// misread as INC.
var organizationTokens = map[string]bool{
	"LLC":          true,
	"PLLC":         true,
	"INC":          true,
	"CORP":         true,
	"LLP":          true,
	"LP":           true,
	"PC":           true,
	"PA":           true,
	"LTD":          true,
	"GROUP":        true,
	"CLINIC":       true,
	"CENTER":       true,
	"CENTERS":      true,
	"ASSOCIATES":   true,
	"PARTNERS":     true,
	"HEALTH":       true,
	"HEALTHCARE":   true,
	"SERVICES":     true,
	"PRACTICE":     true,
	"COUNSELING":   true,
	"THERAPY":      true,
	"PSYCHIATRY":   true,
	"PSYCHIATRIC":  true,
	"MEDICAL":      true,
	"WELLNESS":     true,
	"INSTITUTE":    true,
	"FOUNDATION":   true,
	"PROFESSIONAL": true,
}

// IsOrganization reports whether the display name looks like an
// organizational entity rather than an individual provider.
func (id Identity) IsOrganization() bool {
	for _, tok := range strings.Fields(strings.ToUpper(id.Name)) {
		tok = strings.Trim(tok, ".,()")
		if organizationTokens[tok] {
			return true
		}
	}
	return false
}

// PersonName splits the display name into first/last for the NM1 person
// format. Titles and credential suffixes are dropped. A single-token name is
// returned as the surname alone.
func (id Identity) PersonName() (first, last string) {
	tokens := make([]string, 0, 4)
	for _, tok := range strings.Fields(id.Name) {
		trimmed := strings.Trim(tok, ".,")
		if trimmed == "" || credentialTokens[strings.ToUpper(trimmed)] {
			continue
		}
		tokens = append(tokens, trimmed)
	}
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return "", tokens[0]
	default:
		return tokens[0], tokens[len(tokens)-1]
	}
}

// credentialTokens are degree/licensure suffixes and honorifics stripped
// before tokenizing a person name.
var credentialTokens = map[string]bool{
	"DR":    true,
	"MD":    true,
	"DO":    true,
	"NP":    true,
	"PA-C":  true,
	"APRN":  true,
	"PMHNP": true,
	"LCSW":  true,
	"CMHC":  true,
	"LMFT":  true,
	"PHD":   true,
	"PSYD":  true,
}
