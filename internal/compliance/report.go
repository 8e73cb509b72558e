package compliance

import "time"

// Report is the aggregate compliance picture over the recent validation
// batch. Compliant requires zero field errors across the whole batch; the
// score is the percentage of messages that validated cleanly.
type Report struct {
	Compliant bool          `json:"compliant"`
	Score     float64       `json:"score"`
	Details   ReportDetails `json:"details"`
}

// ReportDetails breaks the batch down for operators.
type ReportDetails struct {
	TotalMessages    int            `json:"total_messages"`
	ValidMessages    int            `json:"valid_messages"`
	InvalidMessages  int            `json:"invalid_messages"`
	TotalFieldErrors int            `json:"total_field_errors"`
	ByMessageType    map[string]int `json:"by_message_type"`
	OldestOutcome    time.Time      `json:"oldest_outcome,omitempty"`
	NewestOutcome    time.Time      `json:"newest_outcome,omitempty"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

// GenerateComplianceReport aggregates pass/fail across the buffered batch.
// An empty batch is compliant with a score of 100.
func (m *Manager) GenerateComplianceReport() Report {
	outcomes := m.history.Snapshot()

	details := ReportDetails{
		ByMessageType: make(map[string]int),
		GeneratedAt:   time.Now().UTC(),
	}
	for _, o := range outcomes {
		details.TotalMessages++
		if o.Valid {
			details.ValidMessages++
		} else {
			details.InvalidMessages++
		}
		details.TotalFieldErrors += o.FieldErrors
		if o.MessageType != "" {
			details.ByMessageType[string(o.MessageType)]++
		}
	}
	if len(outcomes) > 0 {
		details.OldestOutcome = outcomes[0].Timestamp
		details.NewestOutcome = outcomes[len(outcomes)-1].Timestamp
	}

	score := 100.0
	if details.TotalMessages > 0 {
		score = 100.0 * float64(details.ValidMessages) / float64(details.TotalMessages)
	}
	return Report{
		Compliant: details.TotalFieldErrors == 0,
		Score:     score,
		Details:   details,
	}
}
