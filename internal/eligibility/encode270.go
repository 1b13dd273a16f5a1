package eligibility

import (
	"strings"
	"time"

	"github.com/carebridge/eligibility-engine/internal/edi"
	"github.com/carebridge/eligibility-engine/internal/payers"
	"github.com/carebridge/eligibility-engine/internal/provider"
)

// Service-type codes queried on every 270: plan-level coverage, office
// visit, and outpatient psychiatric (the practice's specialty).
var inquiryServiceTypes = []string{"30", "98", "A8"}

// Encoder builds X12 270 eligibility inquiries.
type Encoder struct {
	senderID   string
	receiverID string
	usage      string // "P" or "T"
	provider   provider.Identity
}

// NewEncoder creates an encoder bound to the clearinghouse trading-partner
// identifiers and the billing provider identity.
func NewEncoder(senderID, receiverID, usage string, prov provider.Identity) *Encoder {
	if usage == "" {
		usage = "P"
	}
	return &Encoder{senderID: senderID, receiverID: receiverID, usage: usage, provider: prov}
}

// Encode renders a complete 270 interchange for one patient inquiry. The
// inquiry is validated against the dialect first; validation failures are
// returned before anything is emitted.
func (e *Encoder) Encode(inq PatientInquiry, dialect *payers.Dialect, now time.Time) (string, error) {
	if err := inq.Validate(dialect); err != nil {
		return "", err
	}

	env := edi.Envelope{
		SenderQualifier:   "ZZ",
		SenderID:          e.senderID,
		ReceiverQualifier: "ZZ",
		ReceiverID:        e.receiverID,
		ControlNumber:     edi.NewControlNumber(now),
		Usage:             e.usage,
	}

	var tx edi.Transaction
	env.OpenInterchange(&tx, now)

	stIdx := len(tx.Segments)
	tx.Append("ST", "270", "0001", "005010X279A1")
	tx.Append("BHT", "0022", "13", env.ControlNumber, now.Format("20060102"), now.Format("1504"))

	// 2100A: information source (the payer).
	tx.Append("HL", "1", "", "20", "1")
	tx.Append("NM1", "PR", "2", strings.ToUpper(dialect.PayerName), "", "", "", "", "PI", dialect.PayerCode)

	// 2100B: information receiver (the billing provider).
	tx.Append("HL", "2", "1", "21", "1")
	if e.provider.IsOrganization() {
		tx.Append("NM1", "1P", "2", strings.ToUpper(e.provider.Name), "", "", "", "", "XX", e.provider.NPI)
	} else {
		first, last := e.provider.PersonName()
		tx.Append("NM1", "1P", "1", strings.ToUpper(last), strings.ToUpper(first), "", "", "", "XX", e.provider.NPI)
	}
	if e.provider.TaxID != "" {
		tx.Append("REF", "TJ", e.provider.TaxID)
	}

	// 2100C: subscriber.
	tx.Append("HL", "3", "2", "22", "0")
	tx.Append("TRN", "1", env.ControlNumber, "9"+padTraceOrigin(e.senderID))
	e.appendSubscriberName(&tx, inq, dialect)
	e.appendSubscriberRefs(&tx, inq)
	e.appendDemographics(&tx, inq, dialect)
	e.appendServiceDate(&tx, inq, dialect, now)
	for _, st := range inquiryServiceTypes {
		tx.Append("EQ", st)
	}

	edi.CloseTransactionSet(&tx, stIdx, "0001")
	env.CloseInterchange(&tx)

	return tx.String(), nil
}

func (e *Encoder) appendSubscriberName(tx *edi.Transaction, inq PatientInquiry, dialect *payers.Dialect) {
	last := strings.ToUpper(strings.TrimSpace(inq.LastName))
	first := strings.ToUpper(strings.TrimSpace(inq.FirstName))
	if dialect.MemberIDInNameSegment && inq.Identifier() != "" {
		tx.Append("NM1", "IL", "1", last, first, "", "", "", "MI", inq.Identifier())
		return
	}
	tx.Append("NM1", "IL", "1", last, first)
}

func (e *Encoder) appendSubscriberRefs(tx *edi.Transaction, inq PatientInquiry) {
	if inq.SSN != "" {
		tx.Append("REF", "SY", strings.ReplaceAll(inq.SSN, "-", ""))
	}
	if inq.GroupNumber != "" {
		tx.Append("REF", "6P", inq.GroupNumber)
	}
}

// appendDemographics emits DMG only when a parseable birth date exists; an
// empty or invalid date must not produce an empty DMG.
func (e *Encoder) appendDemographics(tx *edi.Transaction, inq PatientInquiry, dialect *payers.Dialect) {
	dob := inq.BirthDate()
	if dob.IsZero() {
		return
	}
	if dialect.GenderInDemographics && inq.Gender != "" {
		tx.Append("DMG", "D8", dob.Format("20060102"), strings.ToUpper(inq.Gender[:1]))
		return
	}
	tx.Append("DMG", "D8", dob.Format("20060102"))
}

// appendServiceDate emits the DTP service-date segment. Like DMG, it is
// omitted entirely when the patient record has no usable date context at all.
func (e *Encoder) appendServiceDate(tx *edi.Transaction, inq PatientInquiry, dialect *payers.Dialect, now time.Time) {
	if inq.DateOfBirth == "" && inq.ServiceDate == "" {
		return
	}
	svc := inq.serviceDate(now)
	if dialect.DateRangeQualifier {
		d := svc.Format("20060102")
		tx.Append("DTP", "291", "RD8", d+"-"+d)
		return
	}
	tx.Append("DTP", "291", "D8", svc.Format("20060102"))
}

// padTraceOrigin builds the TRN03 originating-company identifier, a 10-char
// field conventionally prefixed with "9" plus the sender ID.
func padTraceOrigin(senderID string) string {
	id := senderID
	if len(id) > 9 {
		id = id[:9]
	}
	for len(id) < 9 {
		id += "0"
	}
	return id
}
