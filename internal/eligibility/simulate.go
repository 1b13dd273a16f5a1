package eligibility

import (
	"math/rand"
	"time"

	"github.com/carebridge/eligibility-engine/internal/directory"
)

var simulatedPlans = []struct {
	payer string
	plan  string
	mco   string
}{
	{"UTAH MEDICAID", "Medicaid Fee-for-Service", ""},
	{"UTAH MEDICAID", "Molina Healthcare of Utah", "MOLINA HEALTHCARE OF UTAH"},
	{"UTAH MEDICAID", "Health Choice Utah", "HEALTH CHOICE UTAH"},
	{"SELECTHEALTH", "SelectHealth Med", ""},
	{"UNITEDHEALTHCARE", "Choice Plus", ""},
}

// simulate synthesizes a plausible randomized result when no live
// clearinghouse response is available. The result is always flagged so
// callers can never mistake it for real coverage data.
func simulate(rng *rand.Rand, inq PatientInquiry, now time.Time) *Result {
	pick := simulatedPlans[rng.Intn(len(simulatedPlans))]
	enrolled := rng.Intn(10) < 8

	res := &Result{
		Enrolled:       enrolled,
		CoverageStatus: coverageStatus(enrolled),
		Member: Member{
			LastName:  inq.LastName,
			FirstName: inq.FirstName,
			MemberID:  inq.Identifier(),
		},
		Warnings:  []string{"simulated result: clearinghouse unavailable"},
		Simulated: true,
		CheckedAt: now,
	}
	if !enrolled {
		return res
	}

	res.Plan = pick.plan
	res.PayerName = pick.payer
	res.MCOName = pick.mco
	res.EffectiveDate = now.AddDate(0, -rng.Intn(12), 0).Format("20060102")

	deductible := float64(rng.Intn(8)) * 250
	met := deductible * float64(rng.Intn(100)) / 100
	copay := float64(10 + rng.Intn(5)*10)
	res.Benefits = &FinancialBenefits{
		IndividualDeductibleTotal:     &deductible,
		IndividualDeductibleMet:       &met,
		IndividualDeductibleRemaining: ptr(deductible - met),
		PrimaryCareCopay:              &copay,
	}
	res.Billability = &directory.BillabilityResult{
		Classification: directory.ClassificationPlanVerification,
		Tier:           directory.TierPayerLevel,
		HasContract:    true,
		Confidence:     directory.MatchExact,
		Message:        "simulated: payer contract assumed, verify plan at intake",
	}
	return res
}

func ptr(f float64) *float64 { return &f }
