package eligibility

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carebridge/eligibility-engine/internal/clearinghouse"
	"github.com/carebridge/eligibility-engine/internal/payers"
	"github.com/carebridge/eligibility-engine/pkg/logging"
)

// unverifiableMessage is the only failure text shown to end users. Raw
// X12 and SOAP diagnostics stay in the audit trail.
const unverifiableMessage = "Unable to verify coverage. Please bring your insurance card to your appointment."

// Handler exposes eligibility checks over HTTP.
type Handler struct {
	service  *Service
	registry payers.Registry
	logger   *logging.Logger
}

// NewHandler creates the eligibility HTTP handler.
func NewHandler(service *Service, registry payers.Registry, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:  service,
		registry: registry,
		logger:   logger.WithComponent("eligibility_http"),
	}
}

// CheckRequest is the request body for an eligibility check.
type CheckRequest struct {
	PayerCode string         `json:"payer_code"`
	Patient   PatientInquiry `json:"patient"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

// Check runs an eligibility check.
// POST /api/v1/eligibility/check
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, errorResponse{Error: "invalid JSON body"}, http.StatusBadRequest)
		return
	}
	if req.PayerCode == "" {
		jsonError(w, errorResponse{Error: "payer_code is required", Field: "payer_code"}, http.StatusBadRequest)
		return
	}

	result, err := h.service.Check(r.Context(), req.PayerCode, req.Patient)
	if err != nil {
		h.writeCheckError(w, req.PayerCode, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) writeCheckError(w http.ResponseWriter, payerCode string, err error) {
	var valErr *ValidationError
	var cfgErr *ConfigurationError
	var parseErr *ParseError
	var transportErr *clearinghouse.TransportError
	var timeoutErr *clearinghouse.TimeoutError

	switch {
	case errors.As(err, &valErr):
		jsonError(w, errorResponse{Error: valErr.Reason, Field: valErr.Field}, http.StatusBadRequest)
	case errors.As(err, &cfgErr):
		jsonError(w, errorResponse{Error: "unknown payer code", Field: "payer_code"}, http.StatusNotFound)
	case errors.As(err, &timeoutErr):
		h.logger.Error("clearinghouse timeout", "payer_code", payerCode, "error", err)
		jsonError(w, errorResponse{Error: "verification timed out", Message: unverifiableMessage}, http.StatusGatewayTimeout)
	case errors.As(err, &parseErr):
		h.logger.Error("271 payload missing from response", "payer_code", payerCode, "error", err)
		jsonError(w, errorResponse{Error: "verification unavailable", Message: unverifiableMessage}, http.StatusBadGateway)
	case errors.As(err, &transportErr):
		h.logger.Error("clearinghouse error", "payer_code", payerCode, "kind", transportErr.Kind, "error", err)
		jsonError(w, errorResponse{Error: "verification unavailable", Message: unverifiableMessage}, http.StatusBadGateway)
	default:
		h.logger.Error("eligibility check failed", "payer_code", payerCode, "error", err)
		jsonError(w, errorResponse{Error: "internal error", Message: unverifiableMessage}, http.StatusInternalServerError)
	}
}

// ListPayers returns the configured payer dialects.
// GET /api/v1/payers
func (h *Handler) ListPayers(w http.ResponseWriter, r *http.Request) {
	dialects, err := h.registry.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list payers", "error", err)
		jsonError(w, errorResponse{Error: "internal error"}, http.StatusInternalServerError)
		return
	}

	type payerSummary struct {
		PayerCode string `json:"payer_code"`
		PayerName string `json:"payer_name"`
	}
	out := make([]payerSummary, 0, len(dialects))
	for _, d := range dialects {
		out = append(out, payerSummary{PayerCode: d.PayerCode, PayerName: d.PayerName})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func jsonError(w http.ResponseWriter, resp errorResponse, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
