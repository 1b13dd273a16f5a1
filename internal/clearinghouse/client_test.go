package clearinghouse

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample271 = "ISA*00*          *00*          *ZZ*CLRHOUSE       *ZZ*CAREBRIDGE     *260314*0930*^*00501*000000905*0*P*:~ST*271*0001~EB*1*IND*30~SE*3*0001~IEA*1*000000905~"

func soapReply(payload string) string {
	return `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <RealTimeTransactionResponse xmlns="http://www.clearinghouse.com/realtime">
      <Payload><![CDATA[` + payload + `]]></Payload>
    </RealTimeTransactionResponse>
  </soap:Body>
</soap:Envelope>`
}

func TestSOAPSubmitInquiry(t *testing.T) {
	var gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(soapReply(sample271)))
	}))
	defer ts.Close()

	c := NewSOAPClient(Config{Endpoint: ts.URL, Username: "user", Password: "tok&en"}, nil)
	out, err := c.SubmitInquiry(context.Background(), "ISA*...270...~")
	require.NoError(t, err)
	assert.Equal(t, sample271, out)

	assert.Contains(t, gotBody, "<wsse:Username>user</wsse:Username>")
	assert.Contains(t, gotBody, "tok&amp;en", "credentials xml-escaped")
	assert.Contains(t, gotBody, "<![CDATA[ISA*...270...~]]>", "payload wrapped as CDATA")
}

func TestSOAPFaultSurfacedAsTransportError(t *testing.T) {
	fault := `<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <soap:Fault>
      <soap:Reason><soap:Text xml:lang="en">Authentication failed for submitter</soap:Text></soap:Reason>
    </soap:Fault>
  </soap:Body>
</soap:Envelope>`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fault))
	}))
	defer ts.Close()

	c := NewSOAPClient(Config{Endpoint: ts.URL}, nil)
	_, err := c.SubmitInquiry(context.Background(), "ISA~")

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "soap_fault", terr.Kind)
	assert.Contains(t, terr.Message, "Authentication failed")
	assert.Contains(t, terr.RawBody, "soap:Fault", "raw body retained for diagnostics")
}

func TestSOAPEnvelopeErrorPair(t *testing.T) {
	reply := `<Envelope><ErrorCode>T4</ErrorCode><ErrorMessage>Payer unavailable</ErrorMessage></Envelope>`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(reply))
	}))
	defer ts.Close()

	c := NewSOAPClient(Config{Endpoint: ts.URL}, nil)
	_, err := c.SubmitInquiry(context.Background(), "ISA~")

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "envelope", terr.Kind)
	assert.Equal(t, "T4", terr.Code)
	assert.Equal(t, "Payer unavailable", terr.Message)
}

func TestNon2xxStatusBecomesTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway unavailable", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewSOAPClient(Config{Endpoint: ts.URL}, nil)
	_, err := c.SubmitInquiry(context.Background(), "ISA~")

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "http", terr.Kind)
	assert.Equal(t, http.StatusBadGateway, terr.StatusCode)
	assert.Contains(t, terr.RawBody, "gateway unavailable")
}

func TestTimeoutDistinctFromTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(soapReply(sample271)))
	}))
	defer ts.Close()

	c := NewSOAPClient(Config{Endpoint: ts.URL}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.SubmitInquiry(ctx, "ISA~")

	var toerr *TimeoutError
	require.ErrorAs(t, err, &toerr)
	var terr *TransportError
	assert.False(t, errors.As(err, &terr), "timeout must not classify as TransportError")
}

func TestCORESubmitInquiry(t *testing.T) {
	var gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`<core:COREEnvelopeRealTimeResponse xmlns:core="http://www.caqh.org/SOAP/WSDL/CORERule2.2.0.xsd">
  <core:PayloadType>X12_271_Response_005010X279A1</core:PayloadType>
  <core:ErrorCode>Success</core:ErrorCode>
  <core:Payload>` + sample271 + `</core:Payload>
</core:COREEnvelopeRealTimeResponse>`))
	}))
	defer ts.Close()

	c := NewCOREClient(Config{Endpoint: ts.URL, SenderID: "CAREBRIDGE", ReceiverID: "CLRHOUSE"}, nil)
	c.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	c.newID = func() string { return "f47ac10b-58cc-4372-a567-0e02b2c3d479" }

	out, err := c.SubmitInquiry(context.Background(), "ISA*270~")
	require.NoError(t, err)
	assert.Equal(t, sample271, out)

	assert.Contains(t, gotBody, "<PayloadID>f47ac10b-58cc-4372-a567-0e02b2c3d479</PayloadID>")
	assert.Contains(t, gotBody, "<TimeStamp>2026-03-14T09:30:00Z</TimeStamp>")
	assert.Contains(t, gotBody, "<SenderID>CAREBRIDGE</SenderID>")
	assert.Contains(t, gotBody, "<ReceiverID>CLRHOUSE</ReceiverID>")
	assert.NotContains(t, gotBody, "CDATA", "CORE payload is raw, not CDATA")
}

func TestCOREEnvelopeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<COREEnvelopeRealTimeResponse>
  <ErrorCode>PayloadIDRequired</ErrorCode>
  <ErrorMessage>PayloadID element is missing</ErrorMessage>
</COREEnvelopeRealTimeResponse>`))
	}))
	defer ts.Close()

	c := NewCOREClient(Config{Endpoint: ts.URL}, nil)
	_, err := c.SubmitInquiry(context.Background(), "ISA~")

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "PayloadIDRequired", terr.Code)
	assert.Contains(t, terr.Message, "missing")
}

func TestCOREMissingPayloadElement(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<COREEnvelopeRealTimeResponse><ErrorCode>Success</ErrorCode></COREEnvelopeRealTimeResponse>`))
	}))
	defer ts.Close()

	c := NewCOREClient(Config{Endpoint: ts.URL}, nil)
	_, err := c.SubmitInquiry(context.Background(), "ISA~")

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "missing_payload", terr.Code)
}

func TestCOREPayloadWithoutNamespacePrefix(t *testing.T) {
	out, err := extractCOREPayload(`<COREEnvelopeRealTimeResponse><ErrorCode>Success</ErrorCode><Payload>` + sample271 + `</Payload></COREEnvelopeRealTimeResponse>`)
	require.NoError(t, err)
	assert.Equal(t, sample271, out)
}

func TestSOAPPayloadScanRequiresRealPayload(t *testing.T) {
	_, err := extractSOAPPayload(`<soap:Envelope><soap:Body></soap:Body></soap:Envelope>`)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "missing_payload", terr.Code)
	assert.False(t, strings.Contains(terr.Error(), "ISA"), "no payload text in error message")
}
