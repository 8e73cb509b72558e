// Package validation implements the field-level compliance rules the engine
// enforces: BIC shape, IBAN structure and checksum, currency membership,
// decimal amount format, and whole-instruction audits.
package validation

import (
	"fmt"
	"strings"

	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
)

// IBANResult is the outcome of an IBAN check. Reason is empty when Valid.
type IBANResult struct {
	Valid  bool   `json:"is_valid"`
	Reason string `json:"reason,omitempty"`
}

// Validator holds the runtime currency universe. The zero set accepts only
// ISO 4217 codes; registered codes (crypto assets) extend it. Validators are
// immutable after construction and safe for concurrent use.
type Validator struct {
	extraCurrencies map[iso20022.CurrencyCode]struct{}
}

// New returns a Validator that additionally accepts the given non-ISO
// currency codes.
func New(extraCurrencies ...iso20022.CurrencyCode) *Validator {
	extra := make(map[iso20022.CurrencyCode]struct{}, len(extraCurrencies))
	for _, c := range extraCurrencies {
		extra[c] = struct{}{}
	}
	return &Validator{extraCurrencies: extra}
}

// ValidateBIC reports whether s matches the ISO 9362 pattern: 4 letters bank
// code, 2 letters country code, 2 alphanumeric location code, optional 3
// alphanumeric branch code.
func (v *Validator) ValidateBIC(s string) bool {
	return iso20022.IsValidBIC(s)
}

// ValidateCurrencyCode reports whether s is an ISO 4217 code or a registered
// crypto-asset code.
func (v *Validator) ValidateCurrencyCode(s string) bool {
	code := iso20022.CurrencyCode(s)
	if iso20022.IsISOCurrency(code) {
		return true
	}
	_, ok := v.extraCurrencies[code]
	return ok
}

// ValidateAmount reports whether s is a well-formed decimal amount string:
// optional leading minus, no thousands separators, no exponent notation, at
// most 17 fractional digits.
func (v *Validator) ValidateAmount(s string) bool {
	return iso20022.IsValidAmountString(s)
}

// ValidateIBAN checks generic IBAN structure (15-34 alphanumeric characters,
// two-letter country code, two check digits) and the ISO 7064 MOD 97-10
// checksum. Country-specific length tables are deliberately out of scope.
func (v *Validator) ValidateIBAN(s string) IBANResult {
	iban := strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	if iban == "" {
		return IBANResult{Valid: false, Reason: "iban is empty"}
	}
	if len(iban) < 15 || len(iban) > 34 {
		return IBANResult{Valid: false, Reason: fmt.Sprintf("iban length %d outside 15-34", len(iban))}
	}
	for i := 0; i < len(iban); i++ {
		c := iban[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			return IBANResult{Valid: false, Reason: fmt.Sprintf("invalid character %q at position %d", c, i)}
		}
	}
	if iban[0] < 'A' || iban[0] > 'Z' || iban[1] < 'A' || iban[1] > 'Z' {
		return IBANResult{Valid: false, Reason: "first two characters must be a letter country code"}
	}
	if iban[2] < '0' || iban[2] > '9' || iban[3] < '0' || iban[3] > '9' {
		return IBANResult{Valid: false, Reason: "characters 3-4 must be numeric check digits"}
	}
	if mod97(iban[4:]+iban[:4]) != 1 {
		return IBANResult{Valid: false, Reason: "mod-97 checksum failed"}
	}
	return IBANResult{Valid: true}
}

// mod97 computes the ISO 7064 MOD 97-10 remainder of the rearranged IBAN,
// expanding letters to two-digit values (A=10 .. Z=35). The remainder is
// accumulated incrementally so the numeral never needs big-integer storage.
func mod97(s string) int {
	rem := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			rem = (rem*10 + int(c-'0')) % 97
		} else {
			n := int(c-'A') + 10
			rem = (rem*100 + n) % 97
		}
	}
	return rem
}

// ValidatePaymentInstruction runs every field rule against the instruction
// and aggregates all defects into one report. It never short-circuits;
// compliance audit trails need the complete list.
func (v *Validator) ValidatePaymentInstruction(instr *iso20022.PaymentInstruction) iso20022.ValidationReport {
	var errs []iso20022.FieldError
	add := func(field, reason string) {
		errs = append(errs, iso20022.FieldError{Field: field, Reason: reason})
	}

	if !iso20022.IsValidID(instr.InstructionID) {
		add("instruction_id", "must be non-empty printable ASCII of at most 35 characters")
	}
	if !iso20022.IsValidID(instr.EndToEndID) {
		add("end_to_end_id", "must be non-empty printable ASCII of at most 35 characters")
	}
	if !v.ValidateAmount(instr.Amount.Value) {
		add("amount", fmt.Sprintf("%q is not a decimal string with at most 17 fractional digits", instr.Amount.Value))
	}
	if !v.ValidateCurrencyCode(string(instr.Amount.Currency)) {
		add("currency", fmt.Sprintf("%q is not an ISO 4217 code or a registered asset", instr.Amount.Currency))
	}
	if instr.Debtor.Name == "" {
		add("debtor.name", "must not be empty")
	}
	if instr.Debtor.BIC != "" && !v.ValidateBIC(instr.Debtor.BIC) {
		add("debtor.bic", fmt.Sprintf("%q does not match the ISO 9362 pattern", instr.Debtor.BIC))
	}
	if instr.Creditor.Name == "" {
		add("creditor.name", "must not be empty")
	}
	if instr.Creditor.BIC != "" && !v.ValidateBIC(instr.Creditor.BIC) {
		add("creditor.bic", fmt.Sprintf("%q does not match the ISO 9362 pattern", instr.Creditor.BIC))
	}
	if res := v.ValidateIBAN(instr.DebtorAccount); !res.Valid {
		add("debtor_account", res.Reason)
	}
	if res := v.ValidateIBAN(instr.CreditorAccount); !res.Valid {
		add("creditor_account", res.Reason)
	}
	if !instr.Purpose.Valid() {
		add("payment_purpose", fmt.Sprintf("%q is not a permitted purpose code", instr.Purpose))
	}

	if len(errs) > 0 {
		return iso20022.InvalidReport(errs)
	}
	return iso20022.ValidReport()
}
