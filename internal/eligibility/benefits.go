package eligibility

import (
	"strconv"

	"github.com/carebridge/eligibility-engine/internal/edi"
)

// FinancialBenefits is the flat record of in-network amounts reconstructed
// from a 271. Nil means "payer did not report it", as distinct from zero.
type FinancialBenefits struct {
	IndividualDeductibleTotal     *float64 `json:"individual_deductible_total,omitempty"`
	IndividualDeductibleMet       *float64 `json:"individual_deductible_met,omitempty"`
	IndividualDeductibleRemaining *float64 `json:"individual_deductible_remaining,omitempty"`
	FamilyDeductibleTotal         *float64 `json:"family_deductible_total,omitempty"`
	FamilyDeductibleMet           *float64 `json:"family_deductible_met,omitempty"`
	FamilyDeductibleRemaining     *float64 `json:"family_deductible_remaining,omitempty"`

	IndividualOutOfPocketTotal     *float64 `json:"individual_out_of_pocket_total,omitempty"`
	IndividualOutOfPocketMet       *float64 `json:"individual_out_of_pocket_met,omitempty"`
	IndividualOutOfPocketRemaining *float64 `json:"individual_out_of_pocket_remaining,omitempty"`
	FamilyOutOfPocketTotal         *float64 `json:"family_out_of_pocket_total,omitempty"`
	FamilyOutOfPocketMet           *float64 `json:"family_out_of_pocket_met,omitempty"`
	FamilyOutOfPocketRemaining     *float64 `json:"family_out_of_pocket_remaining,omitempty"`

	PrimaryCareCopay            *float64 `json:"primary_care_copay,omitempty"`
	SpecialistCopay             *float64 `json:"specialist_copay,omitempty"`
	UrgentCareCopay             *float64 `json:"urgent_care_copay,omitempty"`
	EmergencyCopay              *float64 `json:"emergency_copay,omitempty"`
	InpatientMentalHealthCopay  *float64 `json:"inpatient_mental_health_copay,omitempty"`
	OutpatientMentalHealthCopay *float64 `json:"outpatient_mental_health_copay,omitempty"`
	SubstanceUseCopay           *float64 `json:"substance_use_copay,omitempty"`

	PrimaryCareCoinsurance            *float64 `json:"primary_care_coinsurance,omitempty"`
	SpecialistCoinsurance             *float64 `json:"specialist_coinsurance,omitempty"`
	UrgentCareCoinsurance             *float64 `json:"urgent_care_coinsurance,omitempty"`
	EmergencyCoinsurance              *float64 `json:"emergency_coinsurance,omitempty"`
	InpatientMentalHealthCoinsurance  *float64 `json:"inpatient_mental_health_coinsurance,omitempty"`
	OutpatientMentalHealthCoinsurance *float64 `json:"outpatient_mental_health_coinsurance,omitempty"`
	SubstanceUseCoinsurance           *float64 `json:"substance_use_coinsurance,omitempty"`

	// Entries keeps every decoded benefit line for the audit trail,
	// including out-of-network ones that were excluded from the fields above.
	Entries []BenefitEntry `json:"entries,omitempty"`
}

// BenefitEntry is one decoded EB line, retained raw for diagnostics.
type BenefitEntry struct {
	Code          string   `json:"code"`
	CoverageLevel string   `json:"coverage_level,omitempty"`
	ServiceTypes  []string `json:"service_types,omitempty"`
	TimeQualifier string   `json:"time_qualifier,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	Percent       *float64 `json:"percent,omitempty"`
	InNetwork     bool     `json:"in_network"`
	Raw           string   `json:"raw"`
}

// amountBucket routes a value to the total/met/remaining leg of a triple.
type amountBucket int

const (
	bucketTotal amountBucket = iota
	bucketRemaining
	bucketMet
)

// ExtractBenefits makes an independent second pass over a 271 and
// reconstructs the financial picture. Returns nil when the transaction
// carried no financial data at all, which callers must distinguish from a
// populated record whose amounts happen to be zero.
func ExtractBenefits(raw string) *FinancialBenefits {
	tx := edi.Parse(raw)
	var fb FinancialBenefits
	found := false

	for i, seg := range tx.Segments {
		if seg.Tag != "EB" {
			continue
		}
		entry, ok := decodeBenefitSegment(seg)
		if !ok {
			continue
		}
		fb.Entries = append(fb.Entries, entry)

		// Out-of-network amounts are recorded in Entries and otherwise
		// discarded.
		if !entry.InNetwork {
			continue
		}
		if applyEntry(&fb, entry, tx.Segments[i+1:]) {
			found = true
		}
	}

	fb.backfill()

	if !found {
		return nil
	}
	return &fb
}

// decodeBenefitSegment turns a raw EB segment into a named-field entry,
// resolving the positional layout in play. Payers emit at least three
// variants: amount in EB07 with a time qualifier in EB06, amount in EB07
// with junk in EB06, and the short form with the amount in EB06.
func decodeBenefitSegment(seg edi.Segment) (BenefitEntry, bool) {
	code := seg.Element(1)
	if code == "" {
		return BenefitEntry{}, false
	}

	entry := BenefitEntry{
		Code:          code,
		CoverageLevel: seg.Element(2),
		ServiceTypes:  seg.Components(3),
		Raw:           seg.String(),
	}

	if v, ok := parseAmount(seg.Element(7)); ok {
		entry.Amount = &v
		if _, qualNumeric := parseAmount(seg.Element(6)); qualNumeric {
			entry.TimeQualifier = seg.Element(6)
		}
	} else if v, ok := parseAmount(seg.Element(6)); ok {
		entry.Amount = &v
	}

	if p, ok := parseAmount(seg.Element(8)); ok {
		entry.Percent = &p
	}

	// Trailing network indicator: only Y or unflagged amounts count as
	// in-network. Anything else (N, U, W) stays out of the accumulation.
	switch seg.Element(12) {
	case "Y", "":
		entry.InNetwork = true
	default:
		entry.InNetwork = false
	}

	return entry, true
}

// applyEntry routes one in-network entry into the flat record. Returns true
// when anything was set.
func applyEntry(fb *FinancialBenefits, entry BenefitEntry, following []edi.Segment) bool {
	switch entry.Code {
	case "C": // deductible
		return fb.applyTriple(entry, deductibleFields)
	case "G": // out-of-pocket maximum
		return fb.applyTriple(entry, outOfPocketFields)
	case "B": // copay
		return fb.applyCopay(entry, following)
	case "A": // coinsurance
		return fb.applyCoinsurance(entry, following)
	default:
		// "1" (active coverage) and the rest carry no financial routing;
		// they were already captured in Entries.
		return false
	}
}

// tripleFields selects the six pointers of a deductible or out-of-pocket
// individual/family triple pair.
type tripleFields func(fb *FinancialBenefits, family bool, bucket amountBucket) **float64

func deductibleFields(fb *FinancialBenefits, family bool, bucket amountBucket) **float64 {
	if family {
		switch bucket {
		case bucketTotal:
			return &fb.FamilyDeductibleTotal
		case bucketRemaining:
			return &fb.FamilyDeductibleRemaining
		default:
			return &fb.FamilyDeductibleMet
		}
	}
	switch bucket {
	case bucketTotal:
		return &fb.IndividualDeductibleTotal
	case bucketRemaining:
		return &fb.IndividualDeductibleRemaining
	default:
		return &fb.IndividualDeductibleMet
	}
}

func outOfPocketFields(fb *FinancialBenefits, family bool, bucket amountBucket) **float64 {
	if family {
		switch bucket {
		case bucketTotal:
			return &fb.FamilyOutOfPocketTotal
		case bucketRemaining:
			return &fb.FamilyOutOfPocketRemaining
		default:
			return &fb.FamilyOutOfPocketMet
		}
	}
	switch bucket {
	case bucketTotal:
		return &fb.IndividualOutOfPocketTotal
	case bucketRemaining:
		return &fb.IndividualOutOfPocketRemaining
	default:
		return &fb.IndividualOutOfPocketMet
	}
}

func (fb *FinancialBenefits) applyTriple(entry BenefitEntry, fields tripleFields) bool {
	if entry.Amount == nil {
		return false
	}
	family := entry.CoverageLevel == "FAM"
	slot := fields(fb, family, bucketFor(entry.TimeQualifier))
	if *slot == nil {
		v := *entry.Amount
		*slot = &v
		return true
	}
	return false
}

// bucketFor maps the EB time-period qualifier to a triple leg: 29/31 are
// remaining, 32 is amount already used, 25 or absent is the plan total.
func bucketFor(qualifier string) amountBucket {
	switch qualifier {
	case "29", "31":
		return bucketRemaining
	case "32":
		return bucketMet
	default:
		return bucketTotal
	}
}

func (fb *FinancialBenefits) applyCopay(entry BenefitEntry, following []edi.Segment) bool {
	if entry.Amount == nil {
		return false
	}
	set := false
	for _, cat := range categoriesForCodes(entry.ServiceTypes) {
		if fb.setCategoryAmount(cat, *entry.Amount, following, copaySlots) {
			set = true
		}
	}
	return set
}

func (fb *FinancialBenefits) applyCoinsurance(entry BenefitEntry, following []edi.Segment) bool {
	if entry.Percent == nil {
		return false
	}
	pct := *entry.Percent
	// Coinsurance arrives as a 0-1 fraction from some payers and 0-100 from
	// others; normalize to percent.
	if pct <= 1 {
		pct *= 100
	}
	set := false
	for _, cat := range categoriesForCodes(entry.ServiceTypes) {
		if fb.setCategoryAmount(cat, pct, following, coinsuranceSlots) {
			set = true
		}
	}
	return set
}

type categorySlots func(fb *FinancialBenefits) map[ServiceCategory][]**float64

func copaySlots(fb *FinancialBenefits) map[ServiceCategory][]**float64 {
	return map[ServiceCategory][]**float64{
		CategoryOfficeVisit:            {&fb.PrimaryCareCopay, &fb.SpecialistCopay},
		CategoryUrgentCare:             {&fb.UrgentCareCopay},
		CategoryEmergency:              {&fb.EmergencyCopay},
		CategoryInpatientMentalHealth:  {&fb.InpatientMentalHealthCopay},
		CategoryOutpatientMentalHealth: {&fb.OutpatientMentalHealthCopay},
		CategorySubstanceUse:           {&fb.SubstanceUseCopay},
	}
}

func coinsuranceSlots(fb *FinancialBenefits) map[ServiceCategory][]**float64 {
	return map[ServiceCategory][]**float64{
		CategoryOfficeVisit:            {&fb.PrimaryCareCoinsurance, &fb.SpecialistCoinsurance},
		CategoryUrgentCare:             {&fb.UrgentCareCoinsurance},
		CategoryEmergency:              {&fb.EmergencyCoinsurance},
		CategoryInpatientMentalHealth:  {&fb.InpatientMentalHealthCoinsurance},
		CategoryOutpatientMentalHealth: {&fb.OutpatientMentalHealthCoinsurance},
		CategorySubstanceUse:           {&fb.SubstanceUseCoinsurance},
	}
}

// setCategoryAmount writes an amount into a category slot without ever
// overwriting a value a previous segment established. Office-visit slots are
// a [primary, specialist] pair resolved by the message-text hint; without a
// hint the amount defaults to primary care when that is still unset.
func (fb *FinancialBenefits) setCategoryAmount(cat ServiceCategory, amount float64, following []edi.Segment, slots categorySlots) bool {
	candidates := slots(fb)[cat]
	if len(candidates) == 0 {
		return false
	}

	var slot **float64
	if cat == CategoryOfficeVisit {
		primary, specialist := candidates[0], candidates[1]
		switch classifyOfficeVisit(following) {
		case officeVisitSpecialist:
			slot = specialist
		case officeVisitPrimaryCare:
			slot = primary
		default:
			if *primary == nil {
				slot = primary
			} else {
				slot = specialist
			}
		}
	} else {
		slot = candidates[0]
	}

	if *slot != nil {
		return false
	}
	v := amount
	*slot = &v
	return true
}

// backfill derives the missing leg of each total/met/remaining triple when
// the other two are known. Totals are never synthesized from met+remaining,
// and explicit values are never overwritten by derived ones.
func (fb *FinancialBenefits) backfill() {
	triples := [][3]**float64{
		{&fb.IndividualDeductibleTotal, &fb.IndividualDeductibleMet, &fb.IndividualDeductibleRemaining},
		{&fb.FamilyDeductibleTotal, &fb.FamilyDeductibleMet, &fb.FamilyDeductibleRemaining},
		{&fb.IndividualOutOfPocketTotal, &fb.IndividualOutOfPocketMet, &fb.IndividualOutOfPocketRemaining},
		{&fb.FamilyOutOfPocketTotal, &fb.FamilyOutOfPocketMet, &fb.FamilyOutOfPocketRemaining},
	}
	for _, t := range triples {
		total, met, remaining := t[0], t[1], t[2]
		switch {
		case *total != nil && *remaining != nil && *met == nil:
			v := **total - **remaining
			*met = &v
		case *total != nil && *met != nil && *remaining == nil:
			v := **total - **met
			*remaining = &v
		}
	}
}

// parseAmount float-parses an element, rejecting empty strings.
func parseAmount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
