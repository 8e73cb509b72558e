package messages

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
	"github.com/Klerno-Labs/iso20022-engine/internal/validation"
)

// Round trips compare field by field rather than whole structs: the parser
// fills NumberOfTransactions from NbOfTxs and status timestamps from the
// header, neither of which the input structs carried.

func TestRoundTripPaymentInitiation(t *testing.T) {
	b := NewBuilder(validation.New(), nil)
	p := NewParser(nil)

	header := testHeader(t, "MSG-RT-1")
	in := []iso20022.PaymentInstruction{
		testInstruction(t, "INSTR-1", "10.50", "USD"),
		testInstruction(t, "INSTR-2", "0.00000000000000001", "EUR"),
	}
	xml, err := b.BuildPaymentInitiation(header, in)
	require.NoError(t, err)

	mt, err := DetectMessageType(xml)
	require.NoError(t, err)
	require.Equal(t, iso20022.PaymentInitiation, mt)

	out, err := p.ParsePaymentInitiation(xml)
	require.NoError(t, err)

	assert.Equal(t, header.MessageID, out.GroupHeader.MessageID)
	assert.True(t, header.CreationDateTime.Equal(out.GroupHeader.CreationDateTime))
	assert.Equal(t, len(in), out.GroupHeader.NumberOfTransactions)

	require.Len(t, out.Instructions, len(in))
	for i := range in {
		assert.Equal(t, in[i].InstructionID, out.Instructions[i].InstructionID)
		assert.Equal(t, in[i].EndToEndID, out.Instructions[i].EndToEndID)
		assert.Equal(t, in[i].Amount, out.Instructions[i].Amount, "exact decimal string survives")
		assert.Equal(t, in[i].Debtor, out.Instructions[i].Debtor)
		assert.Equal(t, in[i].Creditor, out.Instructions[i].Creditor)
		assert.Equal(t, in[i].DebtorAccount, out.Instructions[i].DebtorAccount)
		assert.Equal(t, in[i].CreditorAccount, out.Instructions[i].CreditorAccount)
		assert.Equal(t, in[i].Purpose, out.Instructions[i].Purpose)
	}
}

// randomInstruction draws a valid instruction: random identifiers, an amount
// with up to 17 fractional digits, and parties/accounts/purposes picked from
// known-valid pools. The seed is fixed so failures reproduce.
func randomInstruction(rng *rand.Rand, i int) iso20022.PaymentInstruction {
	ibans := []string{
		"DE89370400440532013000",
		"GB29NWBK60161331926819",
		"GB82WEST12345698765432",
		"FR1420041010050500013M02606",
	}
	bics := []string{"DEUTDEFF", "NWBKGB2L", "BNPAFRPPXXX", ""}
	currencies := []iso20022.CurrencyCode{"USD", "EUR", "GBP", "JPY", "CHF"}
	purposes := []iso20022.PaymentPurpose{
		iso20022.PurposeOther, iso20022.PurposeCommercial, iso20022.PurposeSalary,
		iso20022.PurposeTrade, iso20022.PurposeTreasury, iso20022.PurposeSupplier,
		iso20022.PurposeIntraCompany, iso20022.PurposeCashManagement,
	}

	value := fmt.Sprintf("%d", rng.Intn(1_000_000))
	if frac := rng.Intn(18); frac > 0 {
		var sb strings.Builder
		for j := 0; j < frac; j++ {
			sb.WriteByte(byte('0' + rng.Intn(10)))
		}
		value += "." + sb.String()
	}

	return iso20022.PaymentInstruction{
		InstructionID:   fmt.Sprintf("INSTR-%d-%d", i, rng.Intn(100000)),
		EndToEndID:      fmt.Sprintf("E2E-%d-%d", i, rng.Intn(100000)),
		Amount:          iso20022.Amount{Currency: currencies[rng.Intn(len(currencies))], Value: value},
		Debtor:          iso20022.PartyIdentification{Name: fmt.Sprintf("Debtor %d", i), BIC: bics[rng.Intn(len(bics))]},
		Creditor:        iso20022.PartyIdentification{Name: fmt.Sprintf("Creditor %d", i), BIC: bics[rng.Intn(len(bics))]},
		DebtorAccount:   ibans[rng.Intn(len(ibans))],
		CreditorAccount: ibans[rng.Intn(len(ibans))],
		Purpose:         purposes[rng.Intn(len(purposes))],
	}
}

func TestRoundTripPaymentInitiation_RandomInstructionSets(t *testing.T) {
	b := NewBuilder(validation.New(), nil)
	p := NewParser(nil)
	rng := rand.New(rand.NewSource(20260314))

	for run := 0; run < 25; run++ {
		in := make([]iso20022.PaymentInstruction, 1+rng.Intn(8))
		for i := range in {
			in[i] = randomInstruction(rng, i)
		}

		xml, err := b.BuildPaymentInitiation(testHeader(t, fmt.Sprintf("MSG-RND-%d", run)), in)
		require.NoError(t, err, "run %d", run)

		out, err := p.ParsePaymentInitiation(xml)
		require.NoError(t, err, "run %d", run)
		require.Len(t, out.Instructions, len(in), "run %d", run)
		for i := range in {
			got := out.Instructions[i]
			assert.Equal(t, in[i].InstructionID, got.InstructionID, "run %d instr %d", run, i)
			assert.Equal(t, in[i].EndToEndID, got.EndToEndID, "run %d instr %d", run, i)
			assert.Equal(t, in[i].Amount, got.Amount, "run %d instr %d", run, i)
			assert.Equal(t, in[i].Debtor, got.Debtor, "run %d instr %d", run, i)
			assert.Equal(t, in[i].Creditor, got.Creditor, "run %d instr %d", run, i)
			assert.Equal(t, in[i].DebtorAccount, got.DebtorAccount, "run %d instr %d", run, i)
			assert.Equal(t, in[i].CreditorAccount, got.CreditorAccount, "run %d instr %d", run, i)
			assert.Equal(t, in[i].Purpose, got.Purpose, "run %d instr %d", run, i)
		}
	}
}

func TestRoundTripStatusReport(t *testing.T) {
	b := NewBuilder(validation.New(), nil)
	p := NewParser(nil)

	in := &iso20022.StatusReport{
		GroupHeader:         testHeader(t, "STS-RT-1"),
		OriginalMessageID:   "MSG-RT-1",
		OriginalMessageName: string(iso20022.PaymentInitiation),
		Statuses: []iso20022.PaymentStatus{
			{StatusID: "S1", OriginalInstructionID: "INSTR-1", Status: iso20022.StatusSettlementComplete},
			{StatusID: "S2", OriginalInstructionID: "INSTR-2", Status: iso20022.StatusRejected, Reason: "limit exceeded"},
		},
	}
	xml, err := b.BuildStatusReport(in)
	require.NoError(t, err)

	mt, err := DetectMessageType(xml)
	require.NoError(t, err)
	require.Equal(t, iso20022.PaymentStatusReport, mt)

	out, err := p.ParseStatusReport(xml)
	require.NoError(t, err)

	assert.Equal(t, in.GroupHeader.MessageID, out.GroupHeader.MessageID)
	assert.Equal(t, in.OriginalMessageID, out.OriginalMessageID)
	assert.Equal(t, in.OriginalMessageName, out.OriginalMessageName)
	require.Len(t, out.Statuses, len(in.Statuses))
	for i := range in.Statuses {
		assert.Equal(t, in.Statuses[i].StatusID, out.Statuses[i].StatusID)
		assert.Equal(t, in.Statuses[i].OriginalInstructionID, out.Statuses[i].OriginalInstructionID)
		assert.Equal(t, in.Statuses[i].Status, out.Statuses[i].Status)
		assert.Equal(t, in.Statuses[i].Reason, out.Statuses[i].Reason)
	}
}

func TestRoundTripStatement(t *testing.T) {
	b := NewBuilder(validation.New(), nil)
	p := NewParser(nil)

	for _, mt := range []iso20022.MessageType{iso20022.AccountStatement, iso20022.Notification} {
		t.Run(string(mt), func(t *testing.T) {
			in := testStatement(t)
			xml, err := b.BuildStatement(mt, in)
			require.NoError(t, err)

			detected, err := DetectMessageType(xml)
			require.NoError(t, err)
			require.Equal(t, mt, detected)

			out, err := p.ParseStatement(mt, xml)
			require.NoError(t, err)

			assert.Equal(t, in.GroupHeader.MessageID, out.GroupHeader.MessageID)
			assert.Equal(t, in.StatementID, out.StatementID)
			assert.Equal(t, in.AccountIBAN, out.AccountIBAN)
			assert.Equal(t, in.Balance, out.Balance)
			assert.Equal(t, in.Entries, out.Entries)
		})
	}
}
