package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/eligibility-engine/internal/compliance"
	"github.com/carebridge/eligibility-engine/internal/directory"
	"github.com/carebridge/eligibility-engine/internal/eligibility"
	"github.com/carebridge/eligibility-engine/internal/payers"
	"github.com/carebridge/eligibility-engine/internal/provider"
)

type fixedClient struct {
	response string
}

func (c *fixedClient) SubmitInquiry(_ context.Context, _ string) (string, error) {
	return c.response, nil
}

func testResponse271() string {
	segments := []string{
		"ST*271*0001*005010X279A1",
		"NM1*PR*2*UTAH MEDICAID*****PI*SKUT0",
		"NM1*IL*1*DOE*JANE****MI*123456",
		"EB*1*IND*30",
		"SE*5*0001",
	}
	return strings.Join(segments, "~") + "~"
}

func testHandler() *eligibility.Handler {
	registry := payers.NewStaticRegistry()
	svc := eligibility.NewService(eligibility.ServiceOptions{
		Registry: registry,
		Encoder: eligibility.NewEncoder("SENDER", "CLEARING", "T", provider.Identity{
			Name:  "Alpine Counseling Group PLLC",
			NPI:   "1234567893",
			TaxID: "871234567",
		}),
		Client:   &fixedClient{response: testResponse271()},
		Resolver: directory.NewResolver(&directory.MemoryStore{}, nil),
	})
	return eligibility.NewHandler(svc, registry, nil)
}

func newTestRouter(cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.EligibilityHandler == nil {
		cfg.EligibilityHandler = testHandler()
	}
	return New(cfg)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestListPayersRoute(t *testing.T) {
	r := newTestRouter(nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payers", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SKUT0")
}

func TestCheckRoute(t *testing.T) {
	r := newTestRouter(nil)

	body := `{"payer_code":"SKUT0","patient":{"first_name":"Jane","last_name":"Doe","date_of_birth":"1990-05-01","medicaid_id":"123456"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/eligibility/check", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"enrolled":true`)
}

func TestCheckRouteRateLimited(t *testing.T) {
	r := newTestRouter(&Config{CheckRateLimit: 1})

	body := `{"payer_code":"SKUT0","patient":{"first_name":"Jane","last_name":"Doe","date_of_birth":"1990-05-01","medicaid_id":"123456"}}`
	limited := false
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/eligibility/check", strings.NewReader(body))
		req.Header.Set("X-Real-Ip", "10.0.0.1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited, "burst should exhaust the rate limit")
}

func TestAdminAuditRequiresJWT(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := newTestRouter(&Config{
		AdminJWTSecret: "secret",
		AuditService:   compliance.NewAuditService(db),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/audit-events?payer_code=SKUT0", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	mock.ExpectQuery("SELECT (.+) FROM eligibility_audit_events").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_type", "payer_code", "patient_ref",
			"request_270", "response_271", "outcome", "details", "created_at",
		}))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/audit-events?payer_code=SKUT0", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
