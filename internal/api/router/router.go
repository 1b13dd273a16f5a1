package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carebridge/eligibility-engine/internal/compliance"
	"github.com/carebridge/eligibility-engine/internal/eligibility"
	httpmiddleware "github.com/carebridge/eligibility-engine/internal/http/middleware"
	"github.com/carebridge/eligibility-engine/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	EligibilityHandler *eligibility.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Admin endpoints (optional, enabled when AdminJWTSecret is set)
	AdminJWTSecret string
	AuditService   *compliance.AuditService

	// Per-IP rate limit on the check endpoint, requests per second.
	// Zero disables limiting.
	CheckRateLimit float64
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/payers", cfg.EligibilityHandler.ListPayers)

		api.Group(func(check chi.Router) {
			if cfg.CheckRateLimit > 0 {
				check.Use(httpmiddleware.RateLimit(cfg.CheckRateLimit, int(cfg.CheckRateLimit*2)))
			}
			check.Post("/eligibility/check", cfg.EligibilityHandler.Check)
		})

		// Audit queries are admin-only: the trail contains raw EDI.
		if cfg.AdminJWTSecret != "" && cfg.AuditService != nil {
			api.Route("/admin", func(admin chi.Router) {
				admin.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
				admin.Get("/audit-events", auditEventsHandler(cfg.AuditService, cfg.Logger))
			})
		}
	})

	return r
}

func auditEventsHandler(audit *compliance.AuditService, logger *logging.Logger) http.HandlerFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := compliance.AuditFilter{
			PayerCode: q.Get("payer_code"),
			EventType: compliance.AuditEventType(q.Get("event_type")),
			Limit:     100,
		}
		if filter.PayerCode == "" {
			http.Error(w, "payer_code parameter required", http.StatusBadRequest)
			return
		}

		events, err := audit.QueryEvents(r.Context(), filter)
		if err != nil {
			logger.Error("failed to query audit events", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(events)
	}
}
