package messages

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
	"github.com/Klerno-Labs/iso20022-engine/internal/validation"
)

func testHeader(t *testing.T, id string) iso20022.GroupHeader {
	t.Helper()
	return iso20022.GroupHeader{
		MessageID:        id,
		CreationDateTime: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func testInstruction(t *testing.T, id, value, currency string) iso20022.PaymentInstruction {
	t.Helper()
	amount, err := iso20022.NewAmount(iso20022.CurrencyCode(currency), value)
	require.NoError(t, err)
	debtor, err := iso20022.NewParty("Alice", "DEUTDEFF")
	require.NoError(t, err)
	creditor, err := iso20022.NewParty("Bob", "NWBKGB2L")
	require.NoError(t, err)
	instr, err := iso20022.NewPaymentInstruction(id, id+"-E2E", amount, debtor, creditor,
		"DE89370400440532013000", "GB29NWBK60161331926819", iso20022.PurposeCommercial)
	require.NoError(t, err)
	return *instr
}

func TestBuildPaymentInitiation(t *testing.T) {
	b := NewBuilder(validation.New(), nil)

	xml, err := b.BuildPaymentInitiation(testHeader(t, "MSG-1"), []iso20022.PaymentInstruction{
		testInstruction(t, "INSTR-1", "10.50", "USD"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`), "prolog is explicit")
	assert.Contains(t, xml, `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03">`)
	assert.Contains(t, xml, "<CstmrCdtTrfInitn>")
	assert.Contains(t, xml, "<MsgId>MSG-1</MsgId>")
	assert.Contains(t, xml, "<NbOfTxs>1</NbOfTxs>")
	assert.Contains(t, xml, `<InstdAmt Ccy="USD">10.50</InstdAmt>`, "the amount string is serialized verbatim")
	assert.Contains(t, xml, "<EndToEndId>INSTR-1-E2E</EndToEndId>")
	assert.Contains(t, xml, "<IBAN>DE89370400440532013000</IBAN>")
	assert.Contains(t, xml, "<BIC>DEUTDEFF</BIC>")
	assert.Contains(t, xml, "<Cd>COMC</Cd>")
}

func TestBuildPaymentInitiation_PreservesInputOrderAndPrecision(t *testing.T) {
	b := NewBuilder(validation.New(), nil)

	instructions := []iso20022.PaymentInstruction{
		testInstruction(t, "FIRST", "0.00000000000000001", "EUR"),
		testInstruction(t, "SECOND", "999999999.99", "EUR"),
		testInstruction(t, "THIRD", "1", "EUR"),
	}
	xml, err := b.BuildPaymentInitiation(testHeader(t, "MSG-2"), instructions)
	require.NoError(t, err)

	first := strings.Index(xml, "<InstrId>FIRST</InstrId>")
	second := strings.Index(xml, "<InstrId>SECOND</InstrId>")
	third := strings.Index(xml, "<InstrId>THIRD</InstrId>")
	require.True(t, first >= 0 && second >= 0 && third >= 0, "every instruction appears")
	assert.True(t, first < second && second < third, "instructions keep input order")

	assert.Contains(t, xml, ">0.00000000000000001<", "no floating point rounding")
	assert.Equal(t, 3, strings.Count(xml, "<PmtInf>"), "one PmtInf block per instruction")
}

func TestBuildPaymentInitiation_FailsClosed(t *testing.T) {
	b := NewBuilder(validation.New(), nil)

	bad := testInstruction(t, "INSTR-1", "10.50", "USD")
	bad.CreditorAccount = "GB29NWBK60161331926818" // checksum broken

	xml, err := b.BuildPaymentInitiation(testHeader(t, "MSG-3"), []iso20022.PaymentInstruction{
		testInstruction(t, "INSTR-0", "1.00", "USD"),
		bad,
	})
	require.Error(t, err)
	assert.Empty(t, xml, "no partial XML on validation failure")

	var vErr *iso20022.ValidationFailedError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Report.Errors, 1)
	assert.Equal(t, "instructions[1].creditor_account", vErr.Report.Errors[0].Field)
}

func TestBuildStatusReport(t *testing.T) {
	b := NewBuilder(validation.New(), nil)

	report := &iso20022.StatusReport{
		GroupHeader:         testHeader(t, "STS-1"),
		OriginalMessageID:   "MSG-1",
		OriginalMessageName: string(iso20022.PaymentInitiation),
		Statuses: []iso20022.PaymentStatus{
			{StatusID: "S1", OriginalInstructionID: "INSTR-1", Status: iso20022.StatusAccepted},
			{StatusID: "S2", OriginalInstructionID: "INSTR-2", Status: iso20022.StatusRejected, Reason: "insufficient funds"},
		},
	}
	xml, err := b.BuildStatusReport(report)
	require.NoError(t, err)

	assert.Contains(t, xml, `xmlns="urn:iso:std:iso:20022:tech:xsd:pain.002.001.03"`)
	assert.Contains(t, xml, "<OrgnlMsgId>MSG-1</OrgnlMsgId>")
	assert.Contains(t, xml, "<TxSts>ACCP</TxSts>")
	assert.Contains(t, xml, "<TxSts>RJCT</TxSts>")
	assert.Contains(t, xml, "<AddtlInf>insufficient funds</AddtlInf>")
}

func TestBuildStatusReport_RejectsUnknownStatus(t *testing.T) {
	b := NewBuilder(validation.New(), nil)

	_, err := b.BuildStatusReport(&iso20022.StatusReport{
		GroupHeader:       testHeader(t, "STS-2"),
		OriginalMessageID: "MSG-1",
		Statuses: []iso20022.PaymentStatus{
			{StatusID: "S1", OriginalInstructionID: "INSTR-1", Status: "BOGUS"},
		},
	})
	var vErr *iso20022.ValidationFailedError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "statuses[0].status_code", vErr.Report.Errors[0].Field)
}

func testStatement(t *testing.T) *iso20022.Statement {
	t.Helper()
	balance, err := iso20022.NewAmount("EUR", "1500.00")
	require.NoError(t, err)
	entry, err := iso20022.NewAmount("EUR", "250.75")
	require.NoError(t, err)
	return &iso20022.Statement{
		GroupHeader: testHeader(t, "STMT-MSG-1"),
		StatementID: "STMT-1",
		AccountIBAN: "DE89370400440532013000",
		Balance:     iso20022.Balance{TypeCode: "CLBD", Amount: balance, Date: "2026-03-14"},
		Entries: []iso20022.StatementEntry{
			{Reference: "NTRY-1", CreditDebit: "CRDT", Amount: entry, BookingDate: "2026-03-13", ValueDate: "2026-03-14"},
		},
	}
}

func TestBuildStatement(t *testing.T) {
	b := NewBuilder(validation.New(), nil)

	xml, err := b.BuildStatement(iso20022.AccountStatement, testStatement(t))
	require.NoError(t, err)
	assert.Contains(t, xml, `xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"`)
	assert.Contains(t, xml, "<BkToCstmrStmt>")
	assert.Contains(t, xml, "<Id>STMT-1</Id>")
	assert.Contains(t, xml, "<Cd>CLBD</Cd>")
	assert.Contains(t, xml, `<Amt Ccy="EUR">1500.00</Amt>`)
	assert.Contains(t, xml, "<CdtDbtInd>CRDT</CdtDbtInd>")

	xml, err = b.BuildStatement(iso20022.Notification, testStatement(t))
	require.NoError(t, err)
	assert.Contains(t, xml, `xmlns="urn:iso:std:iso:20022:tech:xsd:camt.054.001.02"`)
	assert.Contains(t, xml, "<BkToCstmrDbtCdtNtfctn>")
	assert.Contains(t, xml, "<Ntfctn>")
}

func TestBuildStatement_RejectsBadIndicator(t *testing.T) {
	b := NewBuilder(validation.New(), nil)

	stmt := testStatement(t)
	stmt.Entries[0].CreditDebit = "BOTH"
	_, err := b.BuildStatement(iso20022.AccountStatement, stmt)

	var vErr *iso20022.ValidationFailedError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "entries[0].credit_debit", vErr.Report.Errors[0].Field)
}

func TestBuild_Dispatch(t *testing.T) {
	b := NewBuilder(validation.New(), nil)

	xml, err := b.Build(iso20022.PaymentInitiation, &iso20022.CreditTransferInitiation{
		GroupHeader:  testHeader(t, "MSG-4"),
		Instructions: []iso20022.PaymentInstruction{testInstruction(t, "INSTR-1", "1.00", "EUR")},
	})
	require.NoError(t, err)
	assert.Contains(t, xml, iso20022.PaymentInitiation.Namespace())

	_, err = b.Build("pacs.008.001.12", &iso20022.CreditTransferInitiation{})
	var unsupported *iso20022.UnsupportedMessageTypeError
	assert.ErrorAs(t, err, &unsupported)

	_, err = b.Build(iso20022.PaymentInitiation, "not a struct")
	assert.Error(t, err, "mismatched payload type is a caller bug, reported as an error")
}
