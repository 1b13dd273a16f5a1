package eligibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/carebridge/eligibility-engine/internal/cache"
	"github.com/carebridge/eligibility-engine/internal/clearinghouse"
	"github.com/carebridge/eligibility-engine/internal/directory"
	"github.com/carebridge/eligibility-engine/internal/observability/metrics"
	"github.com/carebridge/eligibility-engine/internal/payers"
	"github.com/carebridge/eligibility-engine/pkg/logging"
)

// Auditor receives check activity for the compliance audit trail. A nil
// auditor disables audit logging.
type Auditor interface {
	LogCheck(ctx context.Context, payerCode, patientRef, request270, response271, outcome string) error
	LogCheckFailed(ctx context.Context, payerCode, patientRef, request270, kind, detail string) error
	LogSimulatedResult(ctx context.Context, payerCode, patientRef, outcome string) error
}

// ServiceOptions wires the collaborators for a verification service.
// Registry, Encoder, Client and Resolver are required; the rest are
// optional and disabled when nil.
type ServiceOptions struct {
	Registry payers.Registry
	Encoder  *Encoder
	Client   clearinghouse.Client
	Resolver *directory.Resolver
	Auditor  Auditor
	Cache    *cache.ResultCache
	Metrics  *metrics.EligibilityMetrics
	Logger   *logging.Logger

	// SimulationMode substitutes a flagged randomized result when the
	// clearinghouse call fails, instead of surfacing the error.
	SimulationMode bool
}

// Service orchestrates a full eligibility check: validate, encode,
// transmit, decode, extract benefits, resolve billability.
type Service struct {
	registry payers.Registry
	encoder  *Encoder
	client   clearinghouse.Client
	resolver *directory.Resolver
	auditor  Auditor
	cache    *cache.ResultCache
	metrics  *metrics.EligibilityMetrics
	logger   *logging.Logger
	tracer   trace.Tracer

	simulationMode bool
	now            func() time.Time
	rng            *rand.Rand
}

// NewService creates the verification service.
func NewService(opts ServiceOptions) *Service {
	if opts.Registry == nil {
		panic("eligibility: registry cannot be nil")
	}
	if opts.Encoder == nil {
		panic("eligibility: encoder cannot be nil")
	}
	if opts.Client == nil {
		panic("eligibility: clearinghouse client cannot be nil")
	}
	if opts.Resolver == nil {
		panic("eligibility: resolver cannot be nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		registry:       opts.Registry,
		encoder:        opts.Encoder,
		client:         opts.Client,
		resolver:       opts.Resolver,
		auditor:        opts.Auditor,
		cache:          opts.Cache,
		metrics:        opts.Metrics,
		logger:         logger.WithComponent("eligibility"),
		tracer:         otel.Tracer("carebridge.internal.eligibility"),
		simulationMode: opts.SimulationMode,
		now:            time.Now,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Check runs one eligibility check for a patient against a payer. Each
// invocation is independent: a fresh control number and timestamp are
// generated, so callers may retry failed checks safely.
func (s *Service) Check(ctx context.Context, payerCode string, inq PatientInquiry) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "eligibility.check")
	defer span.End()

	now := s.now()

	dialect, err := s.registry.Dialect(ctx, payerCode)
	if err != nil {
		s.metrics.ObserveCheck(payerCode, "configuration_error")
		return nil, &ConfigurationError{PayerCode: payerCode, Err: err}
	}

	key := cache.Key(payerCode,
		inq.FirstName, inq.LastName, inq.DateOfBirth, inq.Gender,
		inq.MemberNumber, inq.MedicaidID, inq.GroupNumber, inq.SSN, inq.ServiceDate)
	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached Result
		if err := json.Unmarshal(data, &cached); err == nil {
			s.logger.Debug("returning cached result", "payer_code", payerCode)
			s.metrics.ObserveCheck(payerCode, "cached")
			return &cached, nil
		}
	}

	// Encode validates the inquiry against the dialect before anything
	// goes on the wire.
	request, err := s.encoder.Encode(inq, dialect, now)
	if err != nil {
		s.metrics.ObserveCheck(payerCode, "validation_error")
		return nil, err
	}

	// Past this point every failure is transport or parse related.
	start := time.Now()
	response, err := s.client.SubmitInquiry(ctx, request)
	s.metrics.ObserveClearinghouseLatency(payerCode, time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return s.handleTransportFailure(ctx, payerCode, inq, request, normalizeSubmitError(err))
	}

	summary := Decode271(response)
	benefits := ExtractBenefits(response)

	billability, err := s.resolver.Resolve(ctx, summary.PayerName, summary.MCOName)
	if err != nil {
		s.logger.Error("billability resolution failed", "payer_code", payerCode, "error", err)
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("billability unresolved: %v", err))
	}
	if billability != nil {
		s.metrics.ObserveBillability(string(billability.Classification), string(billability.Confidence))
	}

	result := &Result{
		Enrolled:       summary.Enrolled,
		CoverageStatus: coverageStatus(summary.Enrolled),
		Plan:           summary.CurrentPlan,
		EffectiveDate:  summary.EffectiveDate,
		PayerName:      summary.PayerName,
		MCOName:        summary.MCOName,
		Member:         summary.Member,
		Benefits:       benefits,
		Billability:    billability,
		Warnings:       summary.Warnings,
		Request270:     request,
		Response271:    response,
		CheckedAt:      now,
	}

	s.metrics.ObserveCheck(payerCode, result.outcome())
	s.audit(ctx, payerCode, inq, result)

	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, data); err != nil {
			s.logger.Warn("failed to cache result", "payer_code", payerCode, "error", err)
		}
	}

	return result, nil
}

// handleTransportFailure either surfaces the transport error or, in
// simulation mode, substitutes a flagged randomized result. The
// substitution is never silent: the result carries Simulated=true and a
// warning, and the audit trail records it.
func (s *Service) handleTransportFailure(ctx context.Context, payerCode string, inq PatientInquiry, request string, cause error) (*Result, error) {
	if !s.simulationMode {
		s.metrics.ObserveCheck(payerCode, "transport_error")
		if s.auditor != nil {
			if err := s.auditor.LogCheckFailed(ctx, payerCode, inq.Identifier(), request, failureKind(cause), cause.Error()); err != nil {
				s.logger.Error("audit log failed", "payer_code", payerCode, "error", err)
			}
		}
		return nil, cause
	}

	s.logger.Warn("clearinghouse unavailable, returning simulated result",
		"payer_code", payerCode, "error", cause)
	result := simulate(s.rng, inq, s.now())
	result.Request270 = request

	s.metrics.ObserveCheck(payerCode, "simulated")
	if s.auditor != nil {
		if err := s.auditor.LogSimulatedResult(ctx, payerCode, inq.Identifier(), result.outcome()); err != nil {
			s.logger.Error("audit log failed", "payer_code", payerCode, "error", err)
		}
	}
	return result, nil
}

func (s *Service) audit(ctx context.Context, payerCode string, inq PatientInquiry, result *Result) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.LogCheck(ctx, payerCode, inq.Identifier(), result.Request270, result.Response271, result.outcome())
	if err != nil {
		s.logger.Error("audit log failed", "payer_code", payerCode, "error", err)
	}
}

// normalizeSubmitError distinguishes a response that arrived but carried no
// locatable 271 payload from genuine transport failures.
func normalizeSubmitError(err error) error {
	var te *clearinghouse.TransportError
	if errors.As(err, &te) && te.Code == "missing_payload" {
		return &ParseError{Reason: te.Message}
	}
	return err
}

func failureKind(err error) string {
	var te *clearinghouse.TransportError
	var to *clearinghouse.TimeoutError
	var pe *ParseError
	switch {
	case errors.As(err, &to):
		return "timeout"
	case errors.As(err, &pe):
		return "parse"
	case errors.As(err, &te):
		return te.Kind
	default:
		return "transport"
	}
}
