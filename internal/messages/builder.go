package messages

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
	"github.com/Klerno-Labs/iso20022-engine/internal/validation"
)

// xmlProlog is emitted verbatim ahead of every document.
const xmlProlog = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

const timestampLayout = time.RFC3339

// Builder produces namespace-qualified ISO 20022 XML from domain objects.
// Every instruction is validated before serialization; a failing instruction
// aborts the build with a ValidationFailedError carrying the full report, so
// malformed XML is never emitted. Builders are stateless and safe for
// concurrent use.
type Builder struct {
	validator *validation.Validator
	logger    *zap.Logger
}

// NewBuilder creates a Builder that validates with the given validator.
func NewBuilder(validator *validation.Validator, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{validator: validator, logger: logger}
}

// Build serializes the payload for the given message family. The payload
// type must match the family: *CreditTransferInitiation for pain.001,
// *StatusReport for pain.002, *Statement for camt.053 and camt.054.
func (b *Builder) Build(mt iso20022.MessageType, payload any) (string, error) {
	switch mt {
	case iso20022.PaymentInitiation:
		p, ok := payload.(*iso20022.CreditTransferInitiation)
		if !ok {
			return "", fmt.Errorf("build %s: payload must be *CreditTransferInitiation, got %T", mt, payload)
		}
		return b.BuildPaymentInitiation(p.GroupHeader, p.Instructions)
	case iso20022.PaymentStatusReport:
		p, ok := payload.(*iso20022.StatusReport)
		if !ok {
			return "", fmt.Errorf("build %s: payload must be *StatusReport, got %T", mt, payload)
		}
		return b.BuildStatusReport(p)
	case iso20022.AccountStatement, iso20022.Notification:
		p, ok := payload.(*iso20022.Statement)
		if !ok {
			return "", fmt.Errorf("build %s: payload must be *Statement, got %T", mt, payload)
		}
		return b.BuildStatement(mt, p)
	default:
		return "", &iso20022.UnsupportedMessageTypeError{MessageType: mt}
	}
}

// BuildPaymentInitiation serializes a pain.001 document with one PmtInf
// block per instruction, in input order.
func (b *Builder) BuildPaymentInitiation(header iso20022.GroupHeader, instructions []iso20022.PaymentInstruction) (string, error) {
	payload := &iso20022.CreditTransferInitiation{GroupHeader: header, Instructions: instructions}
	if report := b.validator.ValidatePaymentInitiation(payload); !report.Valid {
		b.logger.Warn("payment initiation rejected before serialization",
			zap.String("message_id", header.MessageID),
			zap.Int("instructions", len(instructions)),
			zap.Int("field_errors", len(report.Errors)))
		return "", &iso20022.ValidationFailedError{Report: report}
	}

	doc := pain001Document{
		XMLNS: iso20022.PaymentInitiation.Namespace(),
	}
	doc.Body.GrpHdr = xmlGrpHdr{
		MsgId:   header.MessageID,
		CreDtTm: header.CreationDateTime.Format(timestampLayout),
		NbOfTxs: strconv.Itoa(len(instructions)),
	}
	for _, instr := range instructions {
		info := pain001Info{
			PmtInfId:    instr.InstructionID,
			PmtMtd:      "TRF",
			ReqdExctnDt: instr.ExecutionDate,
			Dbtr:        partyToXML(instr.Debtor),
		}
		info.DbtrAcct.Id.IBAN = instr.DebtorAccount
		if instr.Debtor.BIC != "" {
			agent := &xmlAgent{}
			agent.FinInstnId.BIC = instr.Debtor.BIC
			info.DbtrAgt = agent
		}
		info.CdtTrfTxInf.PmtId.InstrId = instr.InstructionID
		info.CdtTrfTxInf.PmtId.EndToEndId = instr.EndToEndID
		info.CdtTrfTxInf.Amt.InstdAmt = activeAmount{
			Ccy:   string(instr.Amount.Currency),
			Value: instr.Amount.Value,
		}
		if instr.Creditor.BIC != "" {
			agent := &xmlAgent{}
			agent.FinInstnId.BIC = instr.Creditor.BIC
			info.CdtTrfTxInf.CdtrAgt = agent
		}
		info.CdtTrfTxInf.Cdtr = partyToXML(instr.Creditor)
		info.CdtTrfTxInf.CdtrAcct.Id.IBAN = instr.CreditorAccount
		if instr.Purpose != "" {
			info.CdtTrfTxInf.Purp = &struct {
				Cd string `xml:"Cd"`
			}{Cd: string(instr.Purpose)}
		}
		doc.Body.PmtInf = append(doc.Body.PmtInf, info)
	}

	return marshalDocument(doc)
}

// BuildStatusReport serializes a pain.002 document with one TxInfAndSts
// entry per reported status, in input order.
func (b *Builder) BuildStatusReport(report *iso20022.StatusReport) (string, error) {
	if r := b.validator.ValidateStatusReport(report); !r.Valid {
		b.logger.Warn("status report rejected before serialization",
			zap.String("message_id", report.GroupHeader.MessageID),
			zap.Int("field_errors", len(r.Errors)))
		return "", &iso20022.ValidationFailedError{Report: r}
	}

	doc := pain002Document{XMLNS: iso20022.PaymentStatusReport.Namespace()}
	doc.Body.GrpHdr = xmlGrpHdr{
		MsgId:   report.GroupHeader.MessageID,
		CreDtTm: report.GroupHeader.CreationDateTime.Format(timestampLayout),
	}
	doc.Body.OrgnlGrpInfAndSts.OrgnlMsgId = report.OriginalMessageID
	doc.Body.OrgnlGrpInfAndSts.OrgnlMsgNmId = report.OriginalMessageName
	for _, st := range report.Statuses {
		tx := pain002Tx{
			StsId:        st.StatusID,
			OrgnlInstrId: st.OriginalInstructionID,
			TxSts:        string(st.Status),
		}
		if st.Reason != "" {
			tx.StsRsnInf = &struct {
				AddtlInf string `xml:"AddtlInf"`
			}{AddtlInf: st.Reason}
		}
		doc.Body.TxInfAndSts = append(doc.Body.TxInfAndSts, tx)
	}

	return marshalDocument(doc)
}

// BuildStatement serializes a camt.053 statement or camt.054 notification.
// The two families share one element vocabulary under different root
// children.
func (b *Builder) BuildStatement(mt iso20022.MessageType, stmt *iso20022.Statement) (string, error) {
	if mt != iso20022.AccountStatement && mt != iso20022.Notification {
		return "", &iso20022.UnsupportedMessageTypeError{MessageType: mt}
	}
	if r := b.validator.ValidateStatement(stmt); !r.Valid {
		b.logger.Warn("statement rejected before serialization",
			zap.String("message_id", stmt.GroupHeader.MessageID),
			zap.String("statement_id", stmt.StatementID),
			zap.Int("field_errors", len(r.Errors)))
		return "", &iso20022.ValidationFailedError{Report: r}
	}

	body := &camtBody{GrpHdr: xmlGrpHdr{
		MsgId:   stmt.GroupHeader.MessageID,
		CreDtTm: stmt.GroupHeader.CreationDateTime.Format(timestampLayout),
	}}
	xs := &camtStatement{Id: stmt.StatementID}
	xs.Acct.Id.IBAN = stmt.AccountIBAN
	xs.Bal.Tp.CdOrPrtry.Cd = stmt.Balance.TypeCode
	xs.Bal.Amt = activeAmount{Ccy: string(stmt.Balance.Amount.Currency), Value: stmt.Balance.Amount.Value}
	xs.Bal.Dt.Dt = stmt.Balance.Date
	for _, e := range stmt.Entries {
		entry := camtEntry{
			NtryRef:   e.Reference,
			Amt:       activeAmount{Ccy: string(e.Amount.Currency), Value: e.Amount.Value},
			CdtDbtInd: e.CreditDebit,
		}
		entry.BookgDt.Dt = e.BookingDate
		entry.ValDt.Dt = e.ValueDate
		xs.Ntry = append(xs.Ntry, entry)
	}

	doc := camtDocument{XMLNS: mt.Namespace()}
	if mt == iso20022.AccountStatement {
		body.Stmt = xs
		doc.Stmt = body
	} else {
		body.Ntfctn = xs
		doc.Ntfctn = body
	}

	return marshalDocument(doc)
}

func partyToXML(p iso20022.PartyIdentification) xmlParty {
	xp := xmlParty{Nm: p.Name}
	if p.Street != "" || p.City != "" || p.Country != "" {
		xp.PstlAdr = &xmlPostalAdr{StrtNm: p.Street, TwnNm: p.City, Ctry: p.Country}
	}
	return xp
}

func marshalDocument(doc any) (string, error) {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return xmlProlog + string(out), nil
}
