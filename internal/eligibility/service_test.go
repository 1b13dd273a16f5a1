package eligibility

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/eligibility-engine/internal/cache"
	"github.com/carebridge/eligibility-engine/internal/clearinghouse"
	"github.com/carebridge/eligibility-engine/internal/directory"
	"github.com/carebridge/eligibility-engine/internal/payers"
)

type stubClient struct {
	response string
	err      error
	calls    int
}

func (c *stubClient) SubmitInquiry(_ context.Context, _ string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

type recordingAuditor struct {
	checks    []string
	failures  []string
	simulated []string
}

func (a *recordingAuditor) LogCheck(_ context.Context, payerCode, _, _, _, outcome string) error {
	a.checks = append(a.checks, payerCode+":"+outcome)
	return nil
}

func (a *recordingAuditor) LogCheckFailed(_ context.Context, payerCode, _, _, kind, _ string) error {
	a.failures = append(a.failures, payerCode+":"+kind)
	return nil
}

func (a *recordingAuditor) LogSimulatedResult(_ context.Context, payerCode, _, outcome string) error {
	a.simulated = append(a.simulated, payerCode+":"+outcome)
	return nil
}

func contractedStore() *directory.MemoryStore {
	return &directory.MemoryStore{
		Payers: []directory.Payer{
			{ID: 1, Name: "Utah Medicaid", NormalizedName: "UTAH MEDICAID"},
			{ID: 2, Name: "Molina Healthcare of Utah", NormalizedName: "MOLINA HEALTHCARE OF UTAH"},
		},
		Contracts: []directory.Contract{
			{PayerID: 1, ProviderID: 10, Active: true},
			{PayerID: 2, ProviderID: 10, Active: true, InNetwork: true},
		},
	}
}

func enrolledResponse() string {
	return seg271(
		"ISA*00*          *00*          *ZZ*CLEARING       *ZZ*SENDER         *250310*1200*^*00501*000000001*0*P*:",
		"GS*HB*CLEARING*SENDER*20250310*1200*1*X*005010X279A1",
		"ST*271*0001*005010X279A1",
		"BHT*0022*11*10001234*20250310*1200",
		"NM1*PR*2*UTAH MEDICAID*****PI*SKUT0",
		"NM1*IL*1*DOE*JANE****MI*123456",
		"EB*1*IND*30",
		"EB*C*IND*30***29*750",
		"DTP*291*D8*20250101",
		"SE*8*0001",
		"GE*1*1",
		"IEA*1*000000001",
	)
}

func testInquiry() PatientInquiry {
	return PatientInquiry{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: "1990-05-01",
		MedicaidID:  "123456",
		ServiceDate: "2025-03-10",
	}
}

func newTestService(t *testing.T, client clearinghouse.Client, opts func(*ServiceOptions)) (*Service, *recordingAuditor) {
	t.Helper()
	auditor := &recordingAuditor{}
	o := ServiceOptions{
		Registry: payers.NewStaticRegistry(),
		Encoder:  NewEncoder("SENDER", "CLEARING", "T", testProvider()),
		Client:   client,
		Resolver: directory.NewResolver(contractedStore(), nil),
		Auditor:  auditor,
	}
	if opts != nil {
		opts(&o)
	}
	svc := NewService(o)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc, auditor
}

func TestCheckEndToEnd(t *testing.T) {
	client := &stubClient{response: enrolledResponse()}
	svc, auditor := newTestService(t, client, nil)

	res, err := svc.Check(context.Background(), "SKUT0", testInquiry())
	require.NoError(t, err)

	assert.True(t, res.Enrolled)
	assert.Equal(t, StatusActive, res.CoverageStatus)
	assert.Equal(t, "UTAH MEDICAID", res.PayerName)
	assert.Equal(t, "20250101", res.EffectiveDate)
	assert.Equal(t, "DOE", res.Member.LastName)
	assert.False(t, res.Simulated)

	require.NotNil(t, res.Benefits)
	require.NotNil(t, res.Benefits.IndividualDeductibleRemaining)
	assert.Equal(t, 750.0, *res.Benefits.IndividualDeductibleRemaining)

	require.NotNil(t, res.Billability)
	assert.Equal(t, directory.ClassificationPlanVerification, res.Billability.Classification)
	assert.True(t, res.Billability.HasContract)

	assert.NotEmpty(t, res.Request270)
	assert.Equal(t, enrolledResponse(), res.Response271)
	assert.Equal(t, []string{"SKUT0:enrolled"}, auditor.checks)
}

func TestCheckUnknownPayerFailsFast(t *testing.T) {
	client := &stubClient{response: enrolledResponse()}
	svc, _ := newTestService(t, client, nil)

	_, err := svc.Check(context.Background(), "NOPE", testInquiry())

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "NOPE", cfgErr.PayerCode)
	assert.Zero(t, client.calls, "no network call for unknown payer")
}

func TestCheckValidationFailsBeforeNetwork(t *testing.T) {
	client := &stubClient{response: enrolledResponse()}
	svc, _ := newTestService(t, client, nil)

	inq := testInquiry()
	inq.MedicaidID = ""

	_, err := svc.Check(context.Background(), "SKUT0", inq)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Zero(t, client.calls)
}

func TestCheckTransportErrorSurfaced(t *testing.T) {
	cause := &clearinghouse.TransportError{Kind: "http", StatusCode: 502}
	client := &stubClient{err: cause}
	svc, auditor := newTestService(t, client, nil)

	_, err := svc.Check(context.Background(), "SKUT0", testInquiry())

	var te *clearinghouse.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, []string{"SKUT0:http"}, auditor.failures)
}

func TestCheckMissingPayloadIsParseError(t *testing.T) {
	cause := &clearinghouse.TransportError{Kind: "envelope", Code: "missing_payload", Message: "no payload in response"}
	client := &stubClient{err: cause}
	svc, auditor := newTestService(t, client, nil)

	_, err := svc.Check(context.Background(), "SKUT0", testInquiry())

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, []string{"SKUT0:parse"}, auditor.failures)
}

func TestCheckSimulationModeSubstitutes(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	svc, auditor := newTestService(t, client, func(o *ServiceOptions) {
		o.SimulationMode = true
	})

	res, err := svc.Check(context.Background(), "SKUT0", testInquiry())
	require.NoError(t, err)

	assert.True(t, res.Simulated, "substitution must be flagged")
	assert.NotEmpty(t, res.Warnings)
	assert.NotEmpty(t, res.Request270)
	assert.Len(t, auditor.simulated, 1)
	assert.Empty(t, auditor.checks)
}

func TestCheckCacheKeyedPerPatient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rc := cache.NewResultCache(rdb, time.Minute)

	client := &stubClient{response: enrolledResponse()}
	svc, _ := newTestService(t, client, func(o *ServiceOptions) {
		o.Cache = rc
	})

	// Health Choice Utah matches on name alone, so neither inquiry carries
	// an identifier. Same birth date, same service date, different people.
	jane := PatientInquiry{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: "1990-05-01",
		ServiceDate: "2025-03-10",
	}
	bob := jane
	bob.FirstName = "Bob"
	bob.LastName = "Smith"

	first, err := svc.Check(context.Background(), "HLCU1", jane)
	require.NoError(t, err)

	second, err := svc.Check(context.Background(), "HLCU1", bob)
	require.NoError(t, err)

	assert.Equal(t, 2, client.calls, "each patient gets their own clearinghouse inquiry")
	assert.Contains(t, first.Request270, "NM1*IL*1*DOE*JANE")
	assert.Contains(t, second.Request270, "NM1*IL*1*SMITH*BOB")
}

func TestCheckUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rc := cache.NewResultCache(rdb, time.Minute)

	client := &stubClient{response: enrolledResponse()}
	svc, _ := newTestService(t, client, func(o *ServiceOptions) {
		o.Cache = rc
	})

	first, err := svc.Check(context.Background(), "SKUT0", testInquiry())
	require.NoError(t, err)

	second, err := svc.Check(context.Background(), "SKUT0", testInquiry())
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls, "second check served from cache")
	assert.Equal(t, first.Enrolled, second.Enrolled)
	assert.Equal(t, first.PayerName, second.PayerName)
}
