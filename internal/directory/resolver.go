package directory

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carebridge/eligibility-engine/pkg/logging"
)

var resolverTracer = otel.Tracer("eligibility/billability-resolver")

// Classification is the billability outcome for one check.
type Classification string

const (
	ClassificationAccepted         Classification = "ACCEPTED"
	ClassificationNotContracted    Classification = "NOT_CONTRACTED"
	ClassificationPlanVerification Classification = "PLAN_VERIFICATION_NEEDED"
	ClassificationError            Classification = "ERROR"
)

// Tier states which level of information produced the classification.
type Tier string

const (
	TierPayerLevel Tier = "PAYER_LEVEL"
	TierPlanLevel  Tier = "PLAN_LEVEL"
)

// MatchConfidence records which matching tier resolved the payer name.
type MatchConfidence string

const (
	MatchExact MatchConfidence = "exact"
	MatchAlias MatchConfidence = "alias"
	MatchFuzzy MatchConfidence = "fuzzy"
	MatchNone  MatchConfidence = "none"
)

// BillabilityResult classifies whether the practice can bill the payer a
// 271 named. It is computed per check and never persisted by this package.
type BillabilityResult struct {
	Classification Classification  `json:"classification"`
	Tier           Tier            `json:"tier,omitempty"`
	Payer          *Payer          `json:"payer,omitempty"`
	HasContract    bool            `json:"has_contract"`
	InNetwork      bool            `json:"in_network"`
	Confidence     MatchConfidence `json:"confidence"`
	Message        string          `json:"message"`
}

// Resolver maps decoded payer/MCO names to the internal directory and
// classifies billability.
type Resolver struct {
	store  Store
	logger *logging.Logger
}

// NewResolver creates a billability resolver.
func NewResolver(store Store, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// Resolve classifies billability from the decoded primary payer name and
// managed-care organization name. The MCO wins when both are present since
// it is the entity actually administering the benefit.
func (r *Resolver) Resolve(ctx context.Context, payerName, mcoName string) (*BillabilityResult, error) {
	ctx, span := resolverTracer.Start(ctx, "billability.resolve")
	defer span.End()

	name := payerName
	if mcoName != "" {
		name = mcoName
	}
	if name == "" {
		return &BillabilityResult{
			Classification: ClassificationError,
			Confidence:     MatchNone,
			Message:        "response did not identify a payer",
		}, nil
	}

	payer, confidence, err := r.matchPayer(ctx, name)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("match.confidence", string(confidence)))

	if payer == nil {
		return &BillabilityResult{
			Classification: ClassificationNotContracted,
			Tier:           TierPayerLevel,
			Confidence:     MatchNone,
			Message:        fmt.Sprintf("%s is not in the contracted payer directory", name),
		}, nil
	}

	contracts, err := r.store.ActiveContracts(ctx, payer.ID)
	if err != nil {
		return nil, fmt.Errorf("directory: contract check for %s: %w", payer.Name, err)
	}
	if len(contracts) == 0 {
		return &BillabilityResult{
			Classification: ClassificationNotContracted,
			Tier:           TierPayerLevel,
			Payer:          payer,
			Confidence:     confidence,
			Message:        fmt.Sprintf("no active contract with %s", payer.Name),
		}, nil
	}

	inNetwork := false
	for _, c := range contracts {
		if c.InNetwork {
			inNetwork = true
			break
		}
	}

	// A payer-level contract is necessary but not sufficient: the specific
	// plan/product still has to be confirmed at intake, so this never
	// auto-promotes to ACCEPTED.
	return &BillabilityResult{
		Classification: ClassificationPlanVerification,
		Tier:           TierPayerLevel,
		Payer:          payer,
		HasContract:    true,
		InNetwork:      inNetwork,
		Confidence:     confidence,
		Message:        fmt.Sprintf("contracted with %s; confirm the specific plan at intake", payer.Name),
	}, nil
}

// matchPayer runs the three matching tiers in order: exact, alias-group,
// then first-word fuzzy prefix.
func (r *Resolver) matchPayer(ctx context.Context, name string) (*Payer, MatchConfidence, error) {
	normalized := NormalizeName(name)

	payer, err := r.store.PayerByNormalizedName(ctx, normalized)
	if err == nil {
		return payer, MatchExact, nil
	}
	if !errors.Is(err, ErrPayerNotFound) {
		return nil, MatchNone, err
	}

	if canonical := canonicalFromAlias(normalized); canonical != "" {
		payer, err = r.store.PayerByNormalizedName(ctx, canonical)
		if err == nil {
			return payer, MatchAlias, nil
		}
		if !errors.Is(err, ErrPayerNotFound) {
			return nil, MatchNone, err
		}
	}

	// Fuzzy tier: first normalized word as a prefix, first hit wins. Known
	// false-positive risk: two unrelated payers sharing a first word (e.g.
	// two "UTAH ..." entities) resolve to whichever sorts first. Logged and
	// flagged low-confidence rather than suppressed.
	word := firstWord(normalized)
	if word != "" {
		candidates, err := r.store.PayersByNamePrefix(ctx, word)
		if err != nil {
			return nil, MatchNone, err
		}
		if len(candidates) > 0 {
			r.logger.Warn("payer resolved by fuzzy first-word match",
				"input", name,
				"matched", candidates[0].Name,
				"candidates", len(candidates),
			)
			p := candidates[0]
			return &p, MatchFuzzy, nil
		}
	}

	return nil, MatchNone, nil
}
