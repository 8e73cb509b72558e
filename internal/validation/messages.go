package validation

import (
	"fmt"

	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
)

// ValidatePaymentInitiation audits a whole pain.001 payload: the group
// header plus every instruction, aggregating all defects in input order.
func (v *Validator) ValidatePaymentInitiation(p *iso20022.CreditTransferInitiation) iso20022.ValidationReport {
	var errs []iso20022.FieldError
	if !iso20022.IsValidID(p.GroupHeader.MessageID) {
		errs = append(errs, iso20022.FieldError{
			Field:  "message_id",
			Reason: "must be non-empty printable ASCII of at most 35 characters",
		})
	}
	report := iso20022.ValidReport()
	if len(errs) > 0 {
		report = iso20022.InvalidReport(errs)
	}
	for i := range p.Instructions {
		r := v.ValidatePaymentInstruction(&p.Instructions[i])
		if !r.Valid {
			for j := range r.Errors {
				r.Errors[j].Field = fmt.Sprintf("instructions[%d].%s", i, r.Errors[j].Field)
			}
		}
		report = report.Merge(r)
	}
	return report
}

// ValidateStatusReport audits a pain.002 payload: status vocabulary
// membership and original-instruction references.
func (v *Validator) ValidateStatusReport(r *iso20022.StatusReport) iso20022.ValidationReport {
	var errs []iso20022.FieldError
	if !iso20022.IsValidID(r.GroupHeader.MessageID) {
		errs = append(errs, iso20022.FieldError{
			Field:  "message_id",
			Reason: "must be non-empty printable ASCII of at most 35 characters",
		})
	}
	if r.OriginalMessageID == "" {
		errs = append(errs, iso20022.FieldError{
			Field:  "original_message_id",
			Reason: "must not be empty",
		})
	}
	for i, st := range r.Statuses {
		if !st.Status.Valid() {
			errs = append(errs, iso20022.FieldError{
				Field:  fmt.Sprintf("statuses[%d].status_code", i),
				Reason: fmt.Sprintf("%q is not a member of the ISO status vocabulary", st.Status),
			})
		}
		if !iso20022.IsValidID(st.OriginalInstructionID) {
			errs = append(errs, iso20022.FieldError{
				Field:  fmt.Sprintf("statuses[%d].original_instruction_id", i),
				Reason: "must be non-empty printable ASCII of at most 35 characters",
			})
		}
	}
	if len(errs) > 0 {
		return iso20022.InvalidReport(errs)
	}
	return iso20022.ValidReport()
}

// ValidateStatement audits a camt.053/054 payload: statement id, account
// IBAN, balance and entry amounts, and credit/debit indicators.
func (v *Validator) ValidateStatement(s *iso20022.Statement) iso20022.ValidationReport {
	var errs []iso20022.FieldError
	if !iso20022.IsValidID(s.GroupHeader.MessageID) {
		errs = append(errs, iso20022.FieldError{
			Field:  "message_id",
			Reason: "must be non-empty printable ASCII of at most 35 characters",
		})
	}
	if !iso20022.IsValidID(s.StatementID) {
		errs = append(errs, iso20022.FieldError{
			Field:  "statement_id",
			Reason: "must be non-empty printable ASCII of at most 35 characters",
		})
	}
	if res := v.ValidateIBAN(s.AccountIBAN); !res.Valid {
		errs = append(errs, iso20022.FieldError{Field: "account_iban", Reason: res.Reason})
	}
	if !v.ValidateAmount(s.Balance.Amount.Value) {
		errs = append(errs, iso20022.FieldError{
			Field:  "balance.amount",
			Reason: fmt.Sprintf("%q is not a decimal string with at most 17 fractional digits", s.Balance.Amount.Value),
		})
	}
	for i, e := range s.Entries {
		if !v.ValidateAmount(e.Amount.Value) {
			errs = append(errs, iso20022.FieldError{
				Field:  fmt.Sprintf("entries[%d].amount", i),
				Reason: fmt.Sprintf("%q is not a decimal string with at most 17 fractional digits", e.Amount.Value),
			})
		}
		if e.CreditDebit != "CRDT" && e.CreditDebit != "DBIT" {
			errs = append(errs, iso20022.FieldError{
				Field:  fmt.Sprintf("entries[%d].credit_debit", i),
				Reason: fmt.Sprintf("%q must be CRDT or DBIT", e.CreditDebit),
			})
		}
	}
	if len(errs) > 0 {
		return iso20022.InvalidReport(errs)
	}
	return iso20022.ValidReport()
}
