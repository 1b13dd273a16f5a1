// Package compliance records eligibility verification activity for
// healthcare regulatory audit trails.
package compliance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEventType represents the type of eligibility audit event.
type AuditEventType string

const (
	// EventCheckPerformed is logged for every eligibility check, successful or not.
	EventCheckPerformed AuditEventType = "eligibility.check_performed"
	// EventCheckFailed is logged when a check cannot be completed.
	EventCheckFailed AuditEventType = "eligibility.check_failed"
	// EventSimulatedResult is logged when a simulated result is returned instead of a live one.
	EventSimulatedResult AuditEventType = "eligibility.simulated_result"
	// EventBillabilityResolved is logged when a payer is matched against provider contracts.
	EventBillabilityResolved AuditEventType = "eligibility.billability_resolved"
)

// AuditEvent represents an immutable eligibility audit record. The raw
// EDI payloads are retained so disputed determinations can be replayed.
type AuditEvent struct {
	ID          string          `json:"id"`
	EventType   AuditEventType  `json:"event_type"`
	PayerCode   string          `json:"payer_code"`
	PatientRef  string          `json:"patient_ref,omitempty"`
	Request270  string          `json:"request_270,omitempty"`
	Response271 string          `json:"response_271,omitempty"`
	Outcome     string          `json:"outcome,omitempty"`
	Details     json.RawMessage `json:"details,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AuditDetails contains event-specific details.
type AuditDetails struct {
	// For failed checks
	FailureKind   string `json:"failure_kind,omitempty"`
	FailureDetail string `json:"failure_detail,omitempty"`

	// For billability resolutions
	PayerName      string `json:"payer_name,omitempty"`
	Classification string `json:"classification,omitempty"`
	MatchTier      string `json:"match_tier,omitempty"`
	Confidence     string `json:"confidence,omitempty"`
}

// AuditService handles eligibility audit logging.
type AuditService struct {
	db *sql.DB
}

// NewAuditService creates a new audit service.
func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{db: db}
}

// LogEvent records an eligibility audit event.
func (s *AuditService) LogEvent(ctx context.Context, event AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO eligibility_audit_events (
			id, event_type, payer_code, patient_ref,
			request_270, response_271, outcome, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.PayerCode,
		nullString(event.PatientRef),
		nullString(event.Request270),
		nullString(event.Response271),
		nullString(event.Outcome),
		event.Details,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("compliance: failed to log audit event: %w", err)
	}

	return nil
}

// LogCheck logs a completed eligibility check with its raw EDI payloads.
func (s *AuditService) LogCheck(ctx context.Context, payerCode, patientRef, request270, response271, outcome string) error {
	return s.LogEvent(ctx, AuditEvent{
		EventType:   EventCheckPerformed,
		PayerCode:   payerCode,
		PatientRef:  patientRef,
		Request270:  request270,
		Response271: response271,
		Outcome:     outcome,
	})
}

// LogCheckFailed logs a check that could not be completed.
func (s *AuditService) LogCheckFailed(ctx context.Context, payerCode, patientRef, request270, kind, detail string) error {
	details := AuditDetails{
		FailureKind:   kind,
		FailureDetail: detail,
	}
	detailsJSON, _ := json.Marshal(details)

	return s.LogEvent(ctx, AuditEvent{
		EventType:  EventCheckFailed,
		PayerCode:  payerCode,
		PatientRef: patientRef,
		Request270: request270,
		Outcome:    "failed",
		Details:    detailsJSON,
	})
}

// LogSimulatedResult logs that a simulated result stood in for a live check.
func (s *AuditService) LogSimulatedResult(ctx context.Context, payerCode, patientRef, outcome string) error {
	return s.LogEvent(ctx, AuditEvent{
		EventType:  EventSimulatedResult,
		PayerCode:  payerCode,
		PatientRef: patientRef,
		Outcome:    outcome,
	})
}

// LogBillabilityResolved logs a payer-to-contract match decision.
func (s *AuditService) LogBillabilityResolved(ctx context.Context, payerCode, payerName, classification, tier, confidence string) error {
	details := AuditDetails{
		PayerName:      payerName,
		Classification: classification,
		MatchTier:      tier,
		Confidence:     confidence,
	}
	detailsJSON, _ := json.Marshal(details)

	return s.LogEvent(ctx, AuditEvent{
		EventType: EventBillabilityResolved,
		PayerCode: payerCode,
		Outcome:   classification,
		Details:   detailsJSON,
	})
}

// QueryEvents retrieves audit events with filters.
func (s *AuditService) QueryEvents(ctx context.Context, filter AuditFilter) ([]AuditEvent, error) {
	query := `
		SELECT id, event_type, payer_code, patient_ref,
			   request_270, response_271, outcome, details, created_at
		FROM eligibility_audit_events
		WHERE payer_code = $1
	`
	args := []interface{}{filter.PayerCode}
	argIdx := 2

	if filter.EventType != "" {
		query += fmt.Sprintf(" AND event_type = $%d", argIdx)
		args = append(args, filter.EventType)
		argIdx++
	}
	if !filter.StartTime.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, filter.StartTime)
		argIdx++
	}
	if !filter.EndTime.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, filter.EndTime)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("compliance: failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var e AuditEvent
		var patientRef, req, resp, outcome sql.NullString
		err := rows.Scan(
			&e.ID, &e.EventType, &e.PayerCode, &patientRef,
			&req, &resp, &outcome, &e.Details, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("compliance: failed to scan audit event: %w", err)
		}
		e.PatientRef = patientRef.String
		e.Request270 = req.String
		e.Response271 = resp.String
		e.Outcome = outcome.String
		events = append(events, e)
	}

	return events, nil
}

// AuditFilter specifies criteria for querying audit events.
type AuditFilter struct {
	PayerCode string
	EventType AuditEventType
	StartTime time.Time
	EndTime   time.Time
	Limit     int
	Offset    int
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
