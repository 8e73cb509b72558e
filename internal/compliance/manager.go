// Package compliance is the orchestration facade over the validator, builder
// and parser. Every other layer of the application goes through the Manager;
// it accepts loosely-typed records or raw XML at the edge and converts to
// strict domain types before any further processing.
package compliance

import (
	"time"

	"go.uber.org/zap"

	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
	"github.com/Klerno-Labs/iso20022-engine/internal/messages"
	"github.com/Klerno-Labs/iso20022-engine/internal/validation"
)

// Manager dispatches between the builder, parser and validator and records
// each validation outcome in a bounded history buffer. Apart from that
// buffer the Manager is stateless and safe to share across concurrent
// callers.
//
// Per-message lifecycle: Constructed -> Validated -> {Serialized | Rejected}.
// A rejected message never reaches serialization; the caller resubmits with
// corrected data.
type Manager struct {
	validator *validation.Validator
	builder   *messages.Builder
	parser    *messages.Parser
	supported map[iso20022.MessageType]struct{}
	history   *History
	logger    *zap.Logger
}

// NewManager wires a Manager. A nil history gets a default-sized buffer;
// an empty supportedTypes set enables every implemented family.
func NewManager(validator *validation.Validator, history *History, logger *zap.Logger, supportedTypes ...iso20022.MessageType) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if history == nil {
		history = NewHistory(DefaultHistorySize)
	}
	if len(supportedTypes) == 0 {
		supportedTypes = iso20022.AllMessageTypes
	}
	supported := make(map[iso20022.MessageType]struct{}, len(supportedTypes))
	for _, mt := range supportedTypes {
		supported[mt] = struct{}{}
	}
	return &Manager{
		validator: validator,
		builder:   messages.NewBuilder(validator, logger),
		parser:    messages.NewParser(logger),
		supported: supported,
		history:   history,
		logger:    logger,
	}
}

// Validator exposes the manager's validator for collaborators that need the
// field-level checks directly.
func (m *Manager) Validator() *validation.Validator { return m.validator }

// Builder exposes the manager's builder.
func (m *Manager) Builder() *messages.Builder { return m.builder }

// Parser exposes the manager's parser.
func (m *Manager) Parser() *messages.Parser { return m.parser }

// Supported reports whether the manager accepts the message family.
func (m *Manager) Supported(mt iso20022.MessageType) bool {
	_, ok := m.supported[mt]
	return ok
}

// ValidateMessage validates either a structured payload or a raw XML
// document and returns the full report. Malformed XML and unrecognized
// payload shapes surface as invalid reports, never as panics or swallowed
// errors. Every call is recorded in the history buffer.
func (m *Manager) ValidateMessage(payload any) iso20022.ValidationReport {
	switch p := payload.(type) {
	case string:
		return m.validateXML(p)
	case []byte:
		return m.validateXML(string(p))
	case map[string]any:
		instr, err := instructionFromRecord(p)
		if err != nil {
			report := reportFromError(err)
			m.record("", iso20022.PaymentInitiation, report)
			return report
		}
		report := m.validator.ValidatePaymentInstruction(instr)
		m.record(instr.InstructionID, iso20022.PaymentInitiation, report)
		return report
	case *iso20022.PaymentInstruction:
		report := m.validator.ValidatePaymentInstruction(p)
		m.record(p.InstructionID, iso20022.PaymentInitiation, report)
		return report
	case *iso20022.CreditTransferInitiation:
		report := m.validator.ValidatePaymentInitiation(p)
		m.record(p.GroupHeader.MessageID, iso20022.PaymentInitiation, report)
		return report
	case *iso20022.StatusReport:
		report := m.validator.ValidateStatusReport(p)
		m.record(p.GroupHeader.MessageID, iso20022.PaymentStatusReport, report)
		return report
	case *iso20022.Statement:
		report := m.validator.ValidateStatement(p)
		m.record(p.GroupHeader.MessageID, iso20022.AccountStatement, report)
		return report
	default:
		report := iso20022.InvalidReport([]iso20022.FieldError{{
			Field:  "payload",
			Reason: "unsupported payload type; expected a record, a domain object, or an XML string",
		}})
		m.record("", "", report)
		return report
	}
}

// validateXML detects the message family from the document namespace, parses,
// and validates the structured result.
func (m *Manager) validateXML(data string) iso20022.ValidationReport {
	mt, err := messages.DetectMessageType(data)
	if err != nil {
		report := reportFromError(err)
		m.record("", mt, report)
		return report
	}
	if !m.Supported(mt) {
		report := iso20022.InvalidReport([]iso20022.FieldError{{
			Field:  "message_type",
			Reason: "message family " + string(mt) + " is not enabled",
		}})
		m.record("", mt, report)
		return report
	}

	parsed, err := m.parser.Parse(mt, data)
	if err != nil {
		report := reportFromError(err)
		m.record("", mt, report)
		return report
	}

	var report iso20022.ValidationReport
	var messageID string
	switch p := parsed.(type) {
	case *iso20022.CreditTransferInitiation:
		report, messageID = m.validator.ValidatePaymentInitiation(p), p.GroupHeader.MessageID
	case *iso20022.StatusReport:
		report, messageID = m.validator.ValidateStatusReport(p), p.GroupHeader.MessageID
	case *iso20022.Statement:
		report, messageID = m.validator.ValidateStatement(p), p.GroupHeader.MessageID
	default:
		// Parse returned a type the switch does not know: a bug, not input.
		panic("compliance: parser returned unexpected payload type")
	}
	m.record(messageID, mt, report)
	return report
}

// CreatePaymentInstruction converts a loose payment record into domain
// objects and serializes a pain.001 document. Only the payment initiation
// family can carry a payment instruction.
func (m *Manager) CreatePaymentInstruction(mt iso20022.MessageType, data map[string]any) (string, error) {
	if mt != iso20022.PaymentInitiation || !m.Supported(mt) {
		return "", &iso20022.UnsupportedMessageTypeError{MessageType: mt}
	}
	instr, err := instructionFromRecord(data)
	if err != nil {
		return "", err
	}
	header, err := iso20022.NewGroupHeader(stringField(data, "message_id"))
	if err != nil {
		return "", err
	}

	xml, err := m.builder.BuildPaymentInitiation(header, []iso20022.PaymentInstruction{*instr})
	if err != nil {
		if vErr, ok := err.(*iso20022.ValidationFailedError); ok {
			m.record(header.MessageID, mt, vErr.Report)
		}
		return "", err
	}
	m.record(header.MessageID, mt, iso20022.ValidReport())
	m.logger.Info("payment instruction serialized",
		zap.String("message_id", header.MessageID),
		zap.String("instruction_id", instr.InstructionID),
		zap.String("currency", string(instr.Amount.Currency)))
	return xml, nil
}

// ValidateConfiguration confirms the manager's own components are wired and
// the enabled message-type set is usable. Intended as a startup self-check,
// not a per-message call.
func (m *Manager) ValidateConfiguration() bool {
	if m.validator == nil || m.builder == nil || m.parser == nil || m.history == nil {
		m.logger.Error("compliance manager misconfigured: missing component")
		return false
	}
	if len(m.supported) == 0 {
		m.logger.Error("compliance manager misconfigured: no message types enabled")
		return false
	}
	for mt := range m.supported {
		if !mt.Supported() {
			m.logger.Error("compliance manager misconfigured: unknown message type enabled",
				zap.String("message_type", string(mt)))
			return false
		}
	}
	return true
}

func (m *Manager) record(messageID string, mt iso20022.MessageType, report iso20022.ValidationReport) {
	m.history.Record(Outcome{
		MessageID:   messageID,
		MessageType: mt,
		Valid:       report.Valid,
		FieldErrors: len(report.Errors),
		Timestamp:   time.Now().UTC(),
	})
	if !report.Valid {
		m.logger.Warn("message failed validation",
			zap.String("message_id", messageID),
			zap.String("message_type", string(mt)),
			zap.Int("field_errors", len(report.Errors)))
	}
}

// reportFromError renders a recoverable engine error as a validation report
// so XML defects surface to callers the same way field defects do.
func reportFromError(err error) iso20022.ValidationReport {
	switch e := err.(type) {
	case *iso20022.ValidationFailedError:
		return e.Report
	case *iso20022.ParseError:
		field := "xml"
		if e.Path != "" {
			field = e.Path
		}
		return iso20022.InvalidReport([]iso20022.FieldError{{Field: field, Reason: e.Reason}})
	case *iso20022.UnsupportedMessageTypeError:
		return iso20022.InvalidReport([]iso20022.FieldError{{Field: "message_type", Reason: e.Error()}})
	case *iso20022.MalformedInputError:
		return iso20022.InvalidReport([]iso20022.FieldError{{Field: e.Field, Reason: e.Reason}})
	default:
		return iso20022.InvalidReport([]iso20022.FieldError{{Field: "payload", Reason: err.Error()}})
	}
}
