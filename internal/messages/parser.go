package messages

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
)

// Parser reconstructs domain objects from ISO 20022 XML. Extraction walks
// the tree by tag name, so element reordering within a valid document and
// unknown extra elements do not break it. Amount values are kept as the
// exact strings from the wire. Parsers are stateless and safe for concurrent
// use.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a Parser.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// Parse deserializes the document for the given message family. The returned
// value is *CreditTransferInitiation, *StatusReport or *Statement depending
// on the family.
func (p *Parser) Parse(mt iso20022.MessageType, data string) (any, error) {
	switch mt {
	case iso20022.PaymentInitiation:
		return p.ParsePaymentInitiation(data)
	case iso20022.PaymentStatusReport:
		return p.ParseStatusReport(data)
	case iso20022.AccountStatement, iso20022.Notification:
		return p.ParseStatement(mt, data)
	default:
		return nil, &iso20022.UnsupportedMessageTypeError{MessageType: mt}
	}
}

// ParsePaymentInitiation deserializes a pain.001 document.
func (p *Parser) ParsePaymentInitiation(data string) (*iso20022.CreditTransferInitiation, error) {
	if err := checkEnvelope(iso20022.PaymentInitiation, data); err != nil {
		return nil, err
	}
	var doc pain001Document
	if err := xml.Unmarshal([]byte(data), &doc); err != nil {
		return nil, &iso20022.ParseError{Reason: "document is not well-formed XML", Err: err}
	}

	header, err := parseGroupHeader(doc.Body.GrpHdr)
	if err != nil {
		return nil, err
	}

	out := &iso20022.CreditTransferInitiation{GroupHeader: header}
	for _, info := range doc.Body.PmtInf {
		instrID := info.CdtTrfTxInf.PmtId.InstrId
		if instrID == "" {
			instrID = info.PmtInfId
		}
		if instrID == "" {
			return nil, &iso20022.ParseError{
				Path:   "PmtInf/CdtTrfTxInf/PmtId/InstrId",
				Reason: "required element missing",
			}
		}
		instr := iso20022.PaymentInstruction{
			InstructionID: instrID,
			EndToEndID:    info.CdtTrfTxInf.PmtId.EndToEndId,
			Amount: iso20022.Amount{
				Currency: iso20022.CurrencyCode(info.CdtTrfTxInf.Amt.InstdAmt.Ccy),
				Value:    strings.TrimSpace(info.CdtTrfTxInf.Amt.InstdAmt.Value),
			},
			Debtor:          partyFromXML(info.Dbtr),
			Creditor:        partyFromXML(info.CdtTrfTxInf.Cdtr),
			DebtorAccount:   info.DbtrAcct.Id.IBAN,
			CreditorAccount: info.CdtTrfTxInf.CdtrAcct.Id.IBAN,
			ExecutionDate:   info.ReqdExctnDt,
		}
		if info.DbtrAgt != nil {
			instr.Debtor.BIC = info.DbtrAgt.FinInstnId.BIC
		}
		if info.CdtTrfTxInf.CdtrAgt != nil {
			instr.Creditor.BIC = info.CdtTrfTxInf.CdtrAgt.FinInstnId.BIC
		}
		if info.CdtTrfTxInf.Purp != nil {
			instr.Purpose = iso20022.PaymentPurpose(info.CdtTrfTxInf.Purp.Cd)
		}
		out.Instructions = append(out.Instructions, instr)
	}
	return out, nil
}

// ParseStatusReport deserializes a pain.002 document. Status timestamps are
// not carried per entry on the wire; they inherit the group header creation
// time.
func (p *Parser) ParseStatusReport(data string) (*iso20022.StatusReport, error) {
	if err := checkEnvelope(iso20022.PaymentStatusReport, data); err != nil {
		return nil, err
	}
	var doc pain002Document
	if err := xml.Unmarshal([]byte(data), &doc); err != nil {
		return nil, &iso20022.ParseError{Reason: "document is not well-formed XML", Err: err}
	}

	header, err := parseGroupHeader(doc.Body.GrpHdr)
	if err != nil {
		return nil, err
	}
	if doc.Body.OrgnlGrpInfAndSts.OrgnlMsgId == "" {
		return nil, &iso20022.ParseError{
			Path:   "OrgnlGrpInfAndSts/OrgnlMsgId",
			Reason: "required element missing",
		}
	}

	out := &iso20022.StatusReport{
		GroupHeader:         header,
		OriginalMessageID:   doc.Body.OrgnlGrpInfAndSts.OrgnlMsgId,
		OriginalMessageName: doc.Body.OrgnlGrpInfAndSts.OrgnlMsgNmId,
	}
	for _, tx := range doc.Body.TxInfAndSts {
		st := iso20022.PaymentStatus{
			StatusID:              tx.StsId,
			OriginalInstructionID: tx.OrgnlInstrId,
			Status:                iso20022.StatusCode(tx.TxSts),
			Timestamp:             header.CreationDateTime,
		}
		if tx.StsRsnInf != nil {
			st.Reason = tx.StsRsnInf.AddtlInf
		}
		out.Statuses = append(out.Statuses, st)
	}
	return out, nil
}

// ParseStatement deserializes a camt.053 statement or camt.054 notification.
func (p *Parser) ParseStatement(mt iso20022.MessageType, data string) (*iso20022.Statement, error) {
	if mt != iso20022.AccountStatement && mt != iso20022.Notification {
		return nil, &iso20022.UnsupportedMessageTypeError{MessageType: mt}
	}
	if err := checkEnvelope(mt, data); err != nil {
		return nil, err
	}
	var doc camtDocument
	if err := xml.Unmarshal([]byte(data), &doc); err != nil {
		return nil, &iso20022.ParseError{Reason: "document is not well-formed XML", Err: err}
	}

	var body *camtBody
	var rootChild, leaf string
	if mt == iso20022.AccountStatement {
		body, rootChild, leaf = doc.Stmt, "BkToCstmrStmt", "Stmt"
	} else {
		body, rootChild, leaf = doc.Ntfctn, "BkToCstmrDbtCdtNtfctn", "Ntfctn"
	}
	if body == nil {
		return nil, &iso20022.ParseError{Path: rootChild, Reason: "required element missing"}
	}
	var xs *camtStatement
	if body.Stmt != nil {
		xs = body.Stmt
	} else {
		xs = body.Ntfctn
	}
	if xs == nil {
		return nil, &iso20022.ParseError{Path: rootChild + "/" + leaf, Reason: "required element missing"}
	}

	header, err := parseGroupHeader(body.GrpHdr)
	if err != nil {
		return nil, err
	}
	if xs.Id == "" {
		return nil, &iso20022.ParseError{Path: rootChild + "/" + leaf + "/Id", Reason: "required element missing"}
	}

	out := &iso20022.Statement{
		GroupHeader: header,
		StatementID: xs.Id,
		AccountIBAN: xs.Acct.Id.IBAN,
		Balance: iso20022.Balance{
			TypeCode: xs.Bal.Tp.CdOrPrtry.Cd,
			Amount: iso20022.Amount{
				Currency: iso20022.CurrencyCode(xs.Bal.Amt.Ccy),
				Value:    strings.TrimSpace(xs.Bal.Amt.Value),
			},
			Date: xs.Bal.Dt.Dt,
		},
	}
	for _, e := range xs.Ntry {
		out.Entries = append(out.Entries, iso20022.StatementEntry{
			Reference:   e.NtryRef,
			CreditDebit: e.CdtDbtInd,
			Amount: iso20022.Amount{
				Currency: iso20022.CurrencyCode(e.Amt.Ccy),
				Value:    strings.TrimSpace(e.Amt.Value),
			},
			BookingDate: e.BookgDt.Dt,
			ValueDate:   e.ValDt.Dt,
		})
	}
	return out, nil
}

// DetectMessageType inspects the root element and resolves its namespace to
// a message family, without committing to a full parse. It returns a
// ParseError for malformed XML or a wrong root element, and an
// UnsupportedMessageTypeError for a namespace outside the implemented
// families.
func DetectMessageType(data string) (iso20022.MessageType, error) {
	var probe struct {
		XMLName xml.Name
		XMLNS   string `xml:"xmlns,attr"`
	}
	if err := xml.Unmarshal([]byte(data), &probe); err != nil {
		return "", &iso20022.ParseError{Reason: "document is not well-formed XML", Err: err}
	}
	if probe.XMLName.Local != "Document" {
		return "", &iso20022.ParseError{Path: probe.XMLName.Local, Reason: "root element must be Document"}
	}
	ns := probe.XMLName.Space
	if ns == "" {
		ns = probe.XMLNS
	}
	mt, ok := iso20022.MessageTypeForNamespace(ns)
	if !ok {
		return "", &iso20022.UnsupportedMessageTypeError{Namespace: ns}
	}
	return mt, nil
}

// checkEnvelope confirms the payload is well-formed XML with a Document root
// in the namespace of the requested message family.
func checkEnvelope(mt iso20022.MessageType, data string) error {
	var probe struct {
		XMLName xml.Name
		XMLNS   string `xml:"xmlns,attr"`
	}
	if err := xml.Unmarshal([]byte(data), &probe); err != nil {
		return &iso20022.ParseError{Reason: "document is not well-formed XML", Err: err}
	}
	if probe.XMLName.Local != "Document" {
		return &iso20022.ParseError{
			Path:   probe.XMLName.Local,
			Reason: "root element must be Document",
		}
	}
	ns := probe.XMLName.Space
	if ns == "" {
		ns = probe.XMLNS
	}
	if ns != mt.Namespace() {
		return &iso20022.UnsupportedMessageTypeError{MessageType: mt, Namespace: ns}
	}
	return nil
}

func parseGroupHeader(hdr xmlGrpHdr) (iso20022.GroupHeader, error) {
	if hdr.MsgId == "" {
		return iso20022.GroupHeader{}, &iso20022.ParseError{
			Path:   "GrpHdr/MsgId",
			Reason: "required element missing",
		}
	}
	out := iso20022.GroupHeader{MessageID: hdr.MsgId}
	if hdr.CreDtTm != "" {
		ts, err := parseTimestamp(hdr.CreDtTm)
		if err != nil {
			return iso20022.GroupHeader{}, &iso20022.ParseError{
				Path:   "GrpHdr/CreDtTm",
				Reason: "not an ISO 8601 timestamp",
				Err:    err,
			}
		}
		out.CreationDateTime = ts
	}
	if hdr.NbOfTxs != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(hdr.NbOfTxs)); err == nil {
			out.NumberOfTransactions = n
		}
	}
	return out, nil
}

// parseTimestamp accepts RFC 3339 and the zone-less ISO 8601 second
// resolution some upstream systems emit.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

func partyFromXML(p xmlParty) iso20022.PartyIdentification {
	out := iso20022.PartyIdentification{Name: p.Nm}
	if p.PstlAdr != nil {
		out.Street = p.PstlAdr.StrtNm
		out.City = p.PstlAdr.TwnNm
		out.Country = p.PstlAdr.Ctry
	}
	return out
}
