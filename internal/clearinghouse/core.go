package clearinghouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/eligibility-engine/pkg/logging"
)

// COREClient speaks the CAQH CORE Phase II real-time envelope: a generated
// UUID payload identifier, ISO-8601 timestamp, trading-partner identifiers,
// and the raw (non-CDATA) X12 text as the payload body.
type COREClient struct {
	transport *httpTransport
	now       func() time.Time
	newID     func() string
}

// NewCOREClient creates a CORE-variant clearinghouse client.
func NewCOREClient(cfg Config, logger *logging.Logger) *COREClient {
	return &COREClient{
		transport: newHTTPTransport(cfg, logger),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

var _ Client = (*COREClient)(nil)

const coreEnvelopeTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<COREEnvelopeRealTimeRequest xmlns="http://www.caqh.org/SOAP/WSDL/CORERule2.2.0.xsd">
  <PayloadType>X12_270_Request_005010X279A1</PayloadType>
  <ProcessingMode>RealTime</ProcessingMode>
  <PayloadID>%s</PayloadID>
  <TimeStamp>%s</TimeStamp>
  <SenderID>%s</SenderID>
  <ReceiverID>%s</ReceiverID>
  <CORERuleVersion>2.2.0</CORERuleVersion>
  <Payload>%s</Payload>
</COREEnvelopeRealTimeRequest>`

// SubmitInquiry posts the CORE-wrapped 270 and extracts the 271 payload,
// tolerating namespace-prefixed payload elements in the reply.
func (c *COREClient) SubmitInquiry(ctx context.Context, x12 string) (string, error) {
	envelope := fmt.Sprintf(coreEnvelopeTemplate,
		c.newID(),
		c.now().UTC().Format(time.RFC3339),
		xmlEscape(c.transport.cfg.SenderID),
		xmlEscape(c.transport.cfg.ReceiverID),
		xmlEscape(x12),
	)

	body, err := c.transport.post(ctx, "text/xml; charset=utf-8", []byte(envelope))
	if err != nil {
		return "", err
	}
	return extractCOREPayload(body)
}

// extractCOREPayload unwraps a CORE reply. CORE signals problems through the
// ErrorCode/ErrorMessage pair rather than SOAP faults, but some gateways
// still fault, so both paths are checked.
func extractCOREPayload(body string) (string, error) {
	if soapFaultRe.MatchString(body) {
		reason := "unspecified fault"
		if m := soapFaultReasonRe.FindStringSubmatch(body); m != nil {
			reason = m[1]
		}
		return "", &TransportError{Kind: "soap_fault", Message: reason, RawBody: body}
	}
	if envErr := findEnvelopeError(body); envErr != nil {
		return "", envErr
	}
	if m := payloadCDATARe.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1]), nil
	}
	if m := payloadPlainRe.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(xmlUnescape(m[1])), nil
	}
	return "", &TransportError{Kind: "envelope", Code: "missing_payload",
		Message: "response contained no payload element", RawBody: body}
}

func xmlUnescape(s string) string {
	r := strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
		"&amp;", "&",
	)
	return r.Replace(s)
}
