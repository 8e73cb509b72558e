package iso20022

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// ISO field-length convention for identifiers (Max35Text).
const maxIDLength = 35

var (
	// amountPattern accepts an optional leading minus, an integer part, and
	// up to 17 fractional digits. No thousands separators, no exponents.
	// The 17-digit cap is carried over from the source system verbatim.
	amountPattern = regexp.MustCompile(`^-?\d+(\.\d{1,17})?$`)

	// bicPattern is the ISO 9362 shape: 4 letters bank code, 2 letters
	// country code, 2 alphanumeric location code, optional 3 alphanumeric
	// branch code.
	bicPattern = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
)

// IsValidAmountString reports whether s is a well-formed decimal amount
// string as the engine serializes it.
func IsValidAmountString(s string) bool {
	return amountPattern.MatchString(s)
}

// IsValidBIC reports whether s matches the ISO 9362 BIC pattern.
func IsValidBIC(s string) bool {
	return bicPattern.MatchString(s)
}

// IsValidID reports whether s is a usable ISO identifier: non-empty,
// printable ASCII, at most 35 characters.
func IsValidID(s string) bool {
	if s == "" || len(s) > maxIDLength {
		return false
	}
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return true
}

// Amount is a currency-qualified decimal amount. The value is kept as the
// exact decimal string the caller supplied so it round-trips through XML
// without precision loss.
type Amount struct {
	Currency CurrencyCode `json:"currency"`
	Value    string       `json:"value"`
}

// NewAmount constructs an Amount, failing fast on a malformed decimal string.
// Currency membership is not checked here; the validator owns that rule
// because the accepted set depends on the runtime crypto-asset registry.
func NewAmount(currency CurrencyCode, value string) (Amount, error) {
	if !IsValidAmountString(value) {
		return Amount{}, &MalformedInputError{
			Field:  "amount",
			Value:  value,
			Reason: "must match -?digits(.1-17 fractional digits), no separators or exponents",
		}
	}
	return Amount{Currency: currency, Value: value}, nil
}

// PartyIdentification identifies a debtor or creditor. BIC and the address
// fields are optional; when a BIC is present it must match ISO 9362.
type PartyIdentification struct {
	Name    string `json:"name"`
	BIC     string `json:"bic,omitempty"`
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// NewParty constructs a PartyIdentification, failing fast on an empty name
// or a BIC that does not match the ISO 9362 pattern.
func NewParty(name, bic string) (PartyIdentification, error) {
	if name == "" {
		return PartyIdentification{}, &MalformedInputError{
			Field: "party.name", Value: name, Reason: "must not be empty",
		}
	}
	if bic != "" && !IsValidBIC(bic) {
		return PartyIdentification{}, &MalformedInputError{
			Field: "party.bic", Value: bic, Reason: "must be an 8 or 11 character ISO 9362 BIC",
		}
	}
	return PartyIdentification{Name: name, BIC: bic}, nil
}

// PaymentInstruction is one customer credit transfer. The struct itself is
// buildable in any state (the parser fills it verbatim from the wire);
// NewPaymentInstruction and the validator enforce the invariants.
type PaymentInstruction struct {
	InstructionID   string              `json:"instruction_id"`
	EndToEndID      string              `json:"end_to_end_id"`
	Amount          Amount              `json:"amount"`
	Debtor          PartyIdentification `json:"debtor"`
	Creditor        PartyIdentification `json:"creditor"`
	DebtorAccount   string              `json:"debtor_account"`
	CreditorAccount string              `json:"creditor_account"`
	Purpose         PaymentPurpose      `json:"payment_purpose"`
	ExecutionDate   string              `json:"execution_date,omitempty"`
}

// NewPaymentInstruction constructs a PaymentInstruction with fail-fast
// checks on the identifier fields. IBAN and amount semantics are left to
// the validator, which reports every defect at once.
func NewPaymentInstruction(instructionID, endToEndID string, amount Amount, debtor, creditor PartyIdentification, debtorAccount, creditorAccount string, purpose PaymentPurpose) (*PaymentInstruction, error) {
	if !IsValidID(instructionID) {
		return nil, &MalformedInputError{
			Field: "instruction_id", Value: instructionID,
			Reason: "must be non-empty printable ASCII of at most 35 characters",
		}
	}
	if !IsValidID(endToEndID) {
		return nil, &MalformedInputError{
			Field: "end_to_end_id", Value: endToEndID,
			Reason: "must be non-empty printable ASCII of at most 35 characters",
		}
	}
	return &PaymentInstruction{
		InstructionID:   instructionID,
		EndToEndID:      endToEndID,
		Amount:          amount,
		Debtor:          debtor,
		Creditor:        creditor,
		DebtorAccount:   debtorAccount,
		CreditorAccount: creditorAccount,
		Purpose:         purpose,
	}, nil
}

// GroupHeader carries the message-level identification block. It is created
// fresh per build and never mutated afterwards.
type GroupHeader struct {
	MessageID            string    `json:"message_id"`
	CreationDateTime     time.Time `json:"creation_datetime"`
	NumberOfTransactions int       `json:"number_of_transactions,omitempty"`
}

// NewGroupHeader constructs a GroupHeader, generating a message ID when the
// caller supplies none.
func NewGroupHeader(messageID string) (GroupHeader, error) {
	if messageID == "" {
		messageID = "MSG-" + uuid.New().String()[:18]
	}
	if !IsValidID(messageID) {
		return GroupHeader{}, &MalformedInputError{
			Field: "message_id", Value: messageID,
			Reason: "must be non-empty printable ASCII of at most 35 characters",
		}
	}
	return GroupHeader{MessageID: messageID, CreationDateTime: time.Now().UTC()}, nil
}

// PaymentStatus is one reported status entry from a pain.002 message.
type PaymentStatus struct {
	StatusID              string     `json:"status_id"`
	OriginalInstructionID string     `json:"original_instruction_id"`
	Status                StatusCode `json:"status_code"`
	Reason                string     `json:"reason,omitempty"`
	Timestamp             time.Time  `json:"timestamp"`
}

// CreditTransferInitiation is the structured form of a pain.001 document.
type CreditTransferInitiation struct {
	GroupHeader  GroupHeader          `json:"group_header"`
	Instructions []PaymentInstruction `json:"instructions"`
}

// StatusReport is the structured form of a pain.002 document.
type StatusReport struct {
	GroupHeader         GroupHeader     `json:"group_header"`
	OriginalMessageID   string          `json:"original_message_id"`
	OriginalMessageName string          `json:"original_message_name"`
	Statuses            []PaymentStatus `json:"statuses"`
}

// Balance is the balance section of an account statement.
type Balance struct {
	TypeCode string `json:"type_code"`
	Amount   Amount `json:"amount"`
	Date     string `json:"date"`
}

// StatementEntry is one booked entry of an account statement or
// notification.
type StatementEntry struct {
	Reference   string `json:"reference"`
	CreditDebit string `json:"credit_debit"` // CRDT or DBIT
	Amount      Amount `json:"amount"`
	BookingDate string `json:"booking_date"`
	ValueDate   string `json:"value_date"`
}

// Statement is the structured form of a camt.053 or camt.054 document.
type Statement struct {
	GroupHeader GroupHeader      `json:"group_header"`
	StatementID string           `json:"statement_id"`
	AccountIBAN string           `json:"account_iban"`
	Balance     Balance          `json:"balance"`
	Entries     []StatementEntry `json:"entries"`
}
