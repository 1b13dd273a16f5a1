package payers

// defaultDialects is the built-in dialect set covering the payers the
// practice most commonly verifies. Codes are the clearinghouse-assigned payer
// IDs. Deployments layer site-specific overrides on top via the JSON file or
// the database-backed registry.
var defaultDialects = []Dialect{
	{
		PayerCode: "SKUT0",
		PayerName: "Utah Medicaid",
		Requirements: map[string]FieldRequirement{
			FieldFirstName:   FieldRequired,
			FieldLastName:    FieldRequired,
			FieldDateOfBirth: FieldRequired,
			FieldMedicaidID:  FieldRequired,
			FieldGender:      FieldNotNeeded,
			FieldGroupNumber: FieldNotNeeded,
			FieldSSN:         FieldOptional,
		},
		GenderInDemographics:  false,
		MemberIDInNameSegment: true,
		DateRangeQualifier:    false,
		NameOnlyMatching:      false,
	},
	{
		PayerCode: "SX109",
		PayerName: "Molina Healthcare of Utah",
		Requirements: map[string]FieldRequirement{
			FieldFirstName:    FieldRequired,
			FieldLastName:     FieldRequired,
			FieldDateOfBirth:  FieldRequired,
			FieldMemberNumber: FieldRecommended,
			FieldMedicaidID:   FieldRecommended,
			FieldGender:       FieldRecommended,
		},
		GenderInDemographics:  true,
		MemberIDInNameSegment: true,
		DateRangeQualifier:    true,
		NameOnlyMatching:      false,
	},
	{
		PayerCode: "SX155",
		PayerName: "SelectHealth",
		Requirements: map[string]FieldRequirement{
			FieldFirstName:    FieldRequired,
			FieldLastName:     FieldRequired,
			FieldDateOfBirth:  FieldRequired,
			FieldMemberNumber: FieldRequired,
			FieldGender:       FieldOptional,
			FieldGroupNumber:  FieldOptional,
		},
		GenderInDemographics:  false,
		MemberIDInNameSegment: true,
		DateRangeQualifier:    false,
		NameOnlyMatching:      false,
	},
	{
		PayerCode: "HLCU1",
		PayerName: "Health Choice Utah",
		Requirements: map[string]FieldRequirement{
			FieldFirstName:   FieldRequired,
			FieldLastName:    FieldRequired,
			FieldDateOfBirth: FieldRequired,
			FieldMedicaidID:  FieldRecommended,
			FieldGender:      FieldRecommended,
		},
		GenderInDemographics:  true,
		MemberIDInNameSegment: false,
		DateRangeQualifier:    false,
		NameOnlyMatching:      true,
	},
	{
		PayerCode: "UUHP1",
		PayerName: "University of Utah Health Plans",
		Requirements: map[string]FieldRequirement{
			FieldFirstName:    FieldRequired,
			FieldLastName:     FieldRequired,
			FieldDateOfBirth:  FieldRequired,
			FieldMemberNumber: FieldRecommended,
			FieldMedicaidID:   FieldRecommended,
		},
		GenderInDemographics:  false,
		MemberIDInNameSegment: true,
		DateRangeQualifier:    true,
		NameOnlyMatching:      false,
	},
	{
		PayerCode: "87726",
		PayerName: "UnitedHealthcare",
		Requirements: map[string]FieldRequirement{
			FieldFirstName:    FieldRequired,
			FieldLastName:     FieldRequired,
			FieldDateOfBirth:  FieldRequired,
			FieldMemberNumber: FieldRequired,
			FieldGroupNumber:  FieldOptional,
			FieldGender:       FieldOptional,
		},
		GenderInDemographics:  false,
		MemberIDInNameSegment: true,
		DateRangeQualifier:    false,
		NameOnlyMatching:      false,
	},
	{
		PayerCode: "60054",
		PayerName: "Aetna",
		Requirements: map[string]FieldRequirement{
			FieldFirstName:    FieldRequired,
			FieldLastName:     FieldRequired,
			FieldDateOfBirth:  FieldRequired,
			FieldMemberNumber: FieldRequired,
			FieldGender:       FieldRecommended,
		},
		GenderInDemographics:  true,
		MemberIDInNameSegment: true,
		DateRangeQualifier:    false,
		NameOnlyMatching:      false,
	},
	{
		PayerCode: "62308",
		PayerName: "Cigna",
		Requirements: map[string]FieldRequirement{
			FieldFirstName:    FieldRequired,
			FieldLastName:     FieldRequired,
			FieldDateOfBirth:  FieldRequired,
			FieldMemberNumber: FieldRequired,
			FieldGroupNumber:  FieldRecommended,
		},
		GenderInDemographics:  false,
		MemberIDInNameSegment: true,
		DateRangeQualifier:    true,
		NameOnlyMatching:      false,
	},
	{
		PayerCode: "00910",
		PayerName: "Regence BlueCross BlueShield of Utah",
		Requirements: map[string]FieldRequirement{
			FieldFirstName:    FieldRequired,
			FieldLastName:     FieldRequired,
			FieldDateOfBirth:  FieldRequired,
			FieldMemberNumber: FieldRequired,
		},
		GenderInDemographics:  false,
		MemberIDInNameSegment: true,
		DateRangeQualifier:    false,
		NameOnlyMatching:      false,
	},
	{
		PayerCode: "EMI01",
		PayerName: "EMI Health",
		Requirements: map[string]FieldRequirement{
			FieldFirstName:    FieldRequired,
			FieldLastName:     FieldRequired,
			FieldDateOfBirth:  FieldRecommended,
			FieldMemberNumber: FieldRequired,
			FieldSSN:          FieldOptional,
		},
		GenderInDemographics:  false,
		MemberIDInNameSegment: true,
		DateRangeQualifier:    false,
		NameOnlyMatching:      false,
	},
}
