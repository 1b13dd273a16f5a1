package eligibility

import (
	"github.com/carebridge/eligibility-engine/internal/provider"
)

func testProvider() provider.Identity {
	return provider.Identity{
		Name:  "Alpine Counseling Group PLLC",
		NPI:   "1234567893",
		TaxID: "871234567",
	}
}

func orgProvider() provider.Identity {
	return provider.Identity{Name: "Alpine Counseling Group PLLC", NPI: "1234567893"}
}

func personProvider() provider.Identity {
	return provider.Identity{Name: "Sarah Jensen", NPI: "1234567893"}
}

func singleNameProvider() provider.Identity {
	return provider.Identity{Name: "Jensen", NPI: "1234567893"}
}
