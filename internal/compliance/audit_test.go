package compliance

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_LogEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	tests := []struct {
		name    string
		event   AuditEvent
		wantErr bool
	}{
		{
			name: "log completed check",
			event: AuditEvent{
				EventType:   EventCheckPerformed,
				PayerCode:   "SKUT0",
				PatientRef:  "pat-123",
				Request270:  "ISA*00*...~IEA*1*000000001~",
				Response271: "ISA*00*...~IEA*1*000000001~",
				Outcome:     "enrolled",
			},
			wantErr: false,
		},
		{
			name: "log failed check",
			event: AuditEvent{
				EventType:  EventCheckFailed,
				PayerCode:  "SX109",
				PatientRef: "pat-456",
				Outcome:    "failed",
				Details:    json.RawMessage(`{"failure_kind": "timeout"}`),
			},
			wantErr: false,
		},
		{
			name: "log billability resolution",
			event: AuditEvent{
				EventType: EventBillabilityResolved,
				PayerCode: "SKUT0",
				Outcome:   "PLAN_VERIFICATION_NEEDED",
				Details:   json.RawMessage(`{"match_tier": "alias"}`),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.ExpectExec("INSERT INTO eligibility_audit_events").
				WillReturnResult(sqlmock.NewResult(1, 1))

			err := service.LogEvent(context.Background(), tt.event)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuditService_LogCheck(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	mock.ExpectExec("INSERT INTO eligibility_audit_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = service.LogCheck(
		context.Background(),
		"SKUT0",
		"pat-123",
		"ISA*00~",
		"ISA*00~",
		"enrolled",
	)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_LogCheckFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	mock.ExpectExec("INSERT INTO eligibility_audit_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = service.LogCheckFailed(
		context.Background(),
		"SX109",
		"pat-456",
		"ISA*00~",
		"transport",
		"gateway timeout",
	)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_QueryEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "event_type", "payer_code", "patient_ref",
		"request_270", "response_271", "outcome", "details", "created_at",
	}).AddRow(
		uuid.New(), EventCheckPerformed, "SKUT0", "pat-123",
		"ISA*00~", "ISA*00~", "enrolled", []byte(`{}`), now,
	)

	mock.ExpectQuery("SELECT (.+) FROM eligibility_audit_events").
		WillReturnRows(rows)

	filter := AuditFilter{
		PayerCode: "SKUT0",
		StartTime: now.Add(-24 * time.Hour),
		EndTime:   now,
		Limit:     100,
	}

	events, err := service.QueryEvents(context.Background(), filter)
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, EventCheckPerformed, events[0].EventType)
	assert.Equal(t, "enrolled", events[0].Outcome)
}
