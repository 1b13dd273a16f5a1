// eligcheck runs a single eligibility check from the command line and
// prints the result as JSON. Useful for verifying clearinghouse
// credentials and payer dialect configuration.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/carebridge/eligibility-engine/internal/clearinghouse"
	appconfig "github.com/carebridge/eligibility-engine/internal/config"
	"github.com/carebridge/eligibility-engine/internal/directory"
	"github.com/carebridge/eligibility-engine/internal/eligibility"
	"github.com/carebridge/eligibility-engine/internal/payers"
	"github.com/carebridge/eligibility-engine/internal/provider"
	"github.com/carebridge/eligibility-engine/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	payerCode := flag.String("payer", "", "clearinghouse payer code (e.g. SKUT0)")
	firstName := flag.String("first", "", "patient first name")
	lastName := flag.String("last", "", "patient last name")
	dob := flag.String("dob", "", "date of birth, YYYY-MM-DD")
	gender := flag.String("gender", "", "M or F, only sent when the payer requires it")
	memberID := flag.String("member", "", "commercial member number")
	medicaidID := flag.String("medicaid", "", "Medicaid ID")
	groupNumber := flag.String("group", "", "group number")
	serviceDate := flag.String("date", "", "service date, YYYY-MM-DD (defaults to today)")
	showRaw := flag.Bool("raw", false, "include raw 270/271 payloads in output")
	flag.Parse()

	if *payerCode == "" || *lastName == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	registry, err := buildRegistry(cfg)
	if err != nil {
		log.Fatalf("payer registry: %v", err)
	}

	chCfg := clearinghouse.Config{
		Endpoint:   cfg.ClearinghouseEndpoint,
		Username:   cfg.ClearinghouseUsername,
		Password:   cfg.ClearinghousePassword,
		SenderID:   cfg.ClearinghouseSenderID,
		ReceiverID: cfg.ClearinghouseReceiverID,
		Timeout:    cfg.ClearinghouseTimeout,
	}
	var chClient clearinghouse.Client
	if cfg.ClearinghouseProtocol == "core" {
		chClient = clearinghouse.NewCOREClient(chCfg, logger)
	} else {
		chClient = clearinghouse.NewSOAPClient(chCfg, logger)
	}

	service := eligibility.NewService(eligibility.ServiceOptions{
		Registry: registry,
		Encoder: eligibility.NewEncoder(
			cfg.ClearinghouseSenderID,
			cfg.ClearinghouseReceiverID,
			cfg.ClearinghouseUsage,
			provider.Identity{
				Name:  cfg.ProviderName,
				NPI:   cfg.ProviderNPI,
				TaxID: cfg.ProviderTaxID,
			},
		),
		Client:         chClient,
		Resolver:       directory.NewResolver(&directory.MemoryStore{}, logger),
		Logger:         logger,
		SimulationMode: cfg.SimulationMode,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ClearinghouseTimeout+10*time.Second)
	defer cancel()

	result, err := service.Check(ctx, *payerCode, eligibility.PatientInquiry{
		FirstName:    *firstName,
		LastName:     *lastName,
		DateOfBirth:  *dob,
		Gender:       *gender,
		MemberNumber: *memberID,
		MedicaidID:   *medicaidID,
		GroupNumber:  *groupNumber,
		ServiceDate:  *serviceDate,
	})
	if err != nil {
		log.Fatalf("check failed: %v", err)
	}

	if !*showRaw {
		result.Request270 = ""
		result.Response271 = ""
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}

func buildRegistry(cfg *appconfig.Config) (payers.Registry, error) {
	if cfg.PayerDialectFile != "" {
		return payers.NewStaticRegistryFromFile(cfg.PayerDialectFile)
	}
	return payers.NewStaticRegistry(), nil
}
