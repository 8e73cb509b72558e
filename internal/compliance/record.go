package compliance

import (
	"fmt"
	"strconv"

	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
)

// instructionFromRecord converts a loosely-typed transaction record into a
// strict PaymentInstruction. Only the manager's outward-facing entry points
// accept records; everything past this function works on domain types.
//
// Accepted shapes follow the transaction-store contract: amounts either as a
// nested {"value","currency"} object or as flat "amount"/"currency" keys,
// parties either as plain name strings or as {"name","bic"} objects.
func instructionFromRecord(rec map[string]any) (*iso20022.PaymentInstruction, error) {
	instrID := stringField(rec, "instruction_id", "id")
	endToEnd := stringField(rec, "end_to_end_id")
	if endToEnd == "" {
		endToEnd = instrID
	}

	value, currency := amountFields(rec)
	amount, err := iso20022.NewAmount(iso20022.CurrencyCode(currency), value)
	if err != nil {
		return nil, err
	}

	debtor, err := partyField(rec, "debtor")
	if err != nil {
		return nil, err
	}
	creditor, err := partyField(rec, "creditor")
	if err != nil {
		return nil, err
	}

	purpose := iso20022.PaymentPurpose(stringField(rec, "payment_purpose", "purpose"))
	if purpose == "" {
		purpose = iso20022.PurposeOther
	}

	instr, err := iso20022.NewPaymentInstruction(
		instrID,
		endToEnd,
		amount,
		debtor,
		creditor,
		stringField(rec, "debtor_account", "debtor_iban"),
		stringField(rec, "creditor_account", "creditor_iban"),
		purpose,
	)
	if err != nil {
		return nil, err
	}
	instr.ExecutionDate = stringField(rec, "execution_date")
	return instr, nil
}

// stringField returns the first present key rendered as a string.
func stringField(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			switch s := v.(type) {
			case string:
				return s
			case fmt.Stringer:
				return s.String()
			}
		}
	}
	return ""
}

// amountFields extracts the decimal value and currency from either the
// nested or the flat record shape. JSON numbers arrive as float64; they are
// rendered with the shortest exact representation so well-behaved inputs do
// not pick up rounding noise, but callers that care about precision should
// send strings.
func amountFields(rec map[string]any) (value, currency string) {
	if nested, ok := rec["amount"].(map[string]any); ok {
		return numberToString(nested["value"]), stringField(nested, "currency")
	}
	value = numberToString(rec["amount"])
	currency = stringField(rec, "currency", "symbol")
	return value, currency
}

func numberToString(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", n)
	}
}

func partyField(rec map[string]any, key string) (iso20022.PartyIdentification, error) {
	switch v := rec[key].(type) {
	case string:
		return iso20022.NewParty(v, "")
	case map[string]any:
		return iso20022.NewParty(stringField(v, "name"), stringField(v, "bic"))
	default:
		return iso20022.PartyIdentification{}, &iso20022.MalformedInputError{
			Field:  key,
			Reason: "must be a name string or a {name, bic} object",
		}
	}
}
