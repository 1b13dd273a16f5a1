// Package clearinghouse submits X12 270 inquiries to a clearinghouse over
// HTTPS and unwraps the X12 271 from the reply envelope. Two envelope
// dialects are supported: SOAP 1.2 with a WS-Security header, and the CAQH
// CORE real-time envelope. The variant is a clearinghouse-level deployment
// choice, not a per-payer one.
package clearinghouse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/carebridge/eligibility-engine/pkg/logging"
)

const defaultTimeout = 30 * time.Second

// Client submits one 270 and returns the raw 271 text. Implementations are
// stateless per call and safe for concurrent use.
type Client interface {
	SubmitInquiry(ctx context.Context, x12 string) (string, error)
}

// Config holds the deployment-level connection settings shared by both
// envelope variants.
type Config struct {
	Endpoint   string
	Username   string
	Password   string
	SenderID   string
	ReceiverID string
	Timeout    time.Duration
}

// httpClient is shared plumbing: POST the envelope, classify HTTP-level
// failures, hand the body back for envelope-specific extraction.
type httpTransport struct {
	cfg    Config
	client *http.Client
	logger *logging.Logger
}

func newHTTPTransport(cfg Config, logger *logging.Logger) *httpTransport {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &httpTransport{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (t *httpTransport) post(ctx context.Context, contentType string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("clearinghouse: create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", &TimeoutError{Err: err}
		}
		return "", fmt.Errorf("clearinghouse: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("clearinghouse: read response: %w", err)
	}

	t.logger.Debug("clearinghouse exchange complete",
		"status", resp.StatusCode,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{
			Kind:       "http",
			StatusCode: resp.StatusCode,
			RawBody:    string(respBody),
		}
	}
	return string(respBody), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
