package clearinghouse

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/carebridge/eligibility-engine/pkg/logging"
)

// SOAPClient wraps the 270 in a SOAP 1.2 envelope with a plaintext
// WS-Security username token, the payload carried as CDATA text.
type SOAPClient struct {
	transport *httpTransport
}

// NewSOAPClient creates a SOAP-variant clearinghouse client.
func NewSOAPClient(cfg Config, logger *logging.Logger) *SOAPClient {
	return &SOAPClient{transport: newHTTPTransport(cfg, logger)}
}

var _ Client = (*SOAPClient)(nil)

const soapEnvelopeTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Header>
    <wsse:Security xmlns:wsse="http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd">
      <wsse:UsernameToken>
        <wsse:Username>%s</wsse:Username>
        <wsse:Password>%s</wsse:Password>
      </wsse:UsernameToken>
    </wsse:Security>
  </soap:Header>
  <soap:Body>
    <RealTimeTransaction xmlns="http://www.clearinghouse.com/realtime">
      <PayloadType>X12_270_Request_005010X279A1</PayloadType>
      <Payload><![CDATA[%s]]></Payload>
    </RealTimeTransaction>
  </soap:Body>
</soap:Envelope>`

// SubmitInquiry posts the wrapped 270 and extracts the 271 from the reply.
func (c *SOAPClient) SubmitInquiry(ctx context.Context, x12 string) (string, error) {
	envelope := fmt.Sprintf(soapEnvelopeTemplate,
		xmlEscape(c.transport.cfg.Username),
		xmlEscape(c.transport.cfg.Password),
		x12,
	)

	body, err := c.transport.post(ctx, "application/soap+xml; charset=utf-8", []byte(envelope))
	if err != nil {
		return "", err
	}
	return extractSOAPPayload(body)
}

var (
	soapFaultReasonRe = regexp.MustCompile(`(?s)<(?:\w+:)?(?:Reason|faultstring)[^>]*>\s*(?:<(?:\w+:)?Text[^>]*>)?(.*?)(?:</(?:\w+:)?Text>\s*)?</(?:\w+:)?(?:Reason|faultstring)>`)
	soapFaultRe       = regexp.MustCompile(`<(?:\w+:)?Fault[\s>]`)
	errorCodeRe       = regexp.MustCompile(`(?s)<(?:\w+:)?ErrorCode[^>]*>(.*?)</(?:\w+:)?ErrorCode>`)
	errorMessageRe    = regexp.MustCompile(`(?s)<(?:\w+:)?ErrorMessage[^>]*>(.*?)</(?:\w+:)?ErrorMessage>`)
	payloadCDATARe    = regexp.MustCompile(`(?s)<(?:\w+:)?Payload[^>]*>\s*<!\[CDATA\[(.*?)\]\]>\s*</(?:\w+:)?Payload>`)
	payloadPlainRe    = regexp.MustCompile(`(?s)<(?:\w+:)?Payload[^>]*>(.*?)</(?:\w+:)?Payload>`)
)

// extractSOAPPayload pulls the 271 out of a SOAP reply, surfacing faults and
// envelope-level error pairs as TransportError.
func extractSOAPPayload(body string) (string, error) {
	if soapFaultRe.MatchString(body) {
		reason := "unspecified fault"
		if m := soapFaultReasonRe.FindStringSubmatch(body); m != nil {
			reason = strings.TrimSpace(m[1])
		}
		return "", &TransportError{Kind: "soap_fault", Message: reason, RawBody: body}
	}
	if code := findEnvelopeError(body); code != nil {
		return "", code
	}
	if m := payloadCDATARe.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1]), nil
	}
	if m := payloadPlainRe.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1]), nil
	}
	return "", &TransportError{Kind: "envelope", Code: "missing_payload",
		Message: "response contained no payload element", RawBody: body}
}

// findEnvelopeError detects an ErrorCode/ErrorMessage pair. A code of
// "Success" or "0" is a positive acknowledgment, not an error.
func findEnvelopeError(body string) *TransportError {
	m := errorCodeRe.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	code := strings.TrimSpace(m[1])
	if code == "" || strings.EqualFold(code, "Success") || code == "0" {
		return nil
	}
	msg := ""
	if mm := errorMessageRe.FindStringSubmatch(body); mm != nil {
		msg = strings.TrimSpace(mm[1])
	}
	return &TransportError{Kind: "envelope", Code: code, Message: msg, RawBody: body}
}

func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
