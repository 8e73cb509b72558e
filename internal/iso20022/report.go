package iso20022

// FieldError describes a single validation defect on one field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationReport is the aggregate outcome of validating one message or
// instruction. It is never partially populated: either Valid is true and
// Errors is empty, or Valid is false and Errors carries every defect found,
// in field evaluation order.
type ValidationReport struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

// ValidReport returns a report with no defects.
func ValidReport() ValidationReport {
	return ValidationReport{Valid: true, Errors: []FieldError{}}
}

// InvalidReport returns a report carrying the given defects. It panics when
// called with no errors; an empty defect list is a programming error, not a
// validation outcome.
func InvalidReport(errs []FieldError) ValidationReport {
	if len(errs) == 0 {
		panic("iso20022: invalid report requires at least one field error")
	}
	return ValidationReport{Valid: false, Errors: errs}
}

// Merge combines two reports, preserving error order.
func (r ValidationReport) Merge(other ValidationReport) ValidationReport {
	if r.Valid && other.Valid {
		return ValidReport()
	}
	errs := make([]FieldError, 0, len(r.Errors)+len(other.Errors))
	errs = append(errs, r.Errors...)
	errs = append(errs, other.Errors...)
	return ValidationReport{Valid: false, Errors: errs}
}
