package directory

// aliasGroups maps known textual variants of major payers to the canonical
// name used in the payer directory. Keys and values are in normalized form
// (see NormalizeName). 271 responses spell the same payer a half-dozen ways.
var aliasGroups = map[string][]string{
	"UTAH MEDICAID": {
		"MEDICAID",
		"MEDICAID UTAH",
		"MEDICAID OF UTAH",
		"STATE OF UTAH MEDICAID",
		"UTAH STATE MEDICAID",
		"UT MEDICAID",
		"UTAH MEDICAID FFS",
		"UTAH MEDICAID FEE FOR SERVICE",
	},
	"MOLINA HEALTHCARE OF UTAH": {
		"MOLINA",
		"MOLINA HEALTHCARE",
		"MOLINA HEALTH CARE",
		"MOLINA HEALTHCARE UTAH",
		"MOLINA HEALTH CARE OF UTAH",
		"MOLINA MEDICAID",
	},
	"SELECTHEALTH": {
		"SELECT HEALTH",
		"SELECTHEALTH COMMUNITY CARE",
		"SELECT HEALTH COMMUNITY CARE",
		"SELECTHEALTH MEDICAID",
		"SELECTHEALTH OF UTAH",
		"INTERMOUNTAIN SELECTHEALTH",
	},
	"HEALTH CHOICE UTAH": {
		"HEALTH CHOICE",
		"HEALTHCHOICE UTAH",
		"HEALTH CHOICE OF UTAH",
		"STEWARD HEALTH CHOICE",
		"STEWARD HEALTH CHOICE UTAH",
	},
	"HEALTHY U": {
		"HEALTHY U MEDICAID",
		"UNIVERSITY OF UTAH HEALTH PLANS",
		"UNIVERSITY OF UTAH HEALTH PLAN",
		"U OF U HEALTH PLANS",
		"UUHP",
	},
	"UNITEDHEALTHCARE": {
		"UNITED HEALTHCARE",
		"UNITED HEALTH CARE",
		"UHC",
		"UNITEDHEALTHCARE COMMUNITY PLAN",
		"UNITED HEALTHCARE COMMUNITY PLAN",
		"UMR",
	},
	"REGENCE BLUECROSS BLUESHIELD": {
		"REGENCE",
		"REGENCE BCBS",
		"REGENCE BLUE CROSS BLUE SHIELD",
		"REGENCE BCBS OF UTAH",
		"BLUECROSS BLUESHIELD OF UTAH",
		"BCBS UTAH",
	},
}

// canonicalFromAlias returns the canonical name for a normalized variant,
// or "" when the name belongs to no known group.
func canonicalFromAlias(normalized string) string {
	for canonical, variants := range aliasGroups {
		if normalized == canonical {
			return canonical
		}
		for _, v := range variants {
			if normalized == v {
				return canonical
			}
		}
	}
	return ""
}
