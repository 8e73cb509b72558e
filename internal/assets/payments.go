package assets

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Klerno-Labs/iso20022-engine/internal/compliance"
	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
)

// Extension produces crypto payment payloads through the same compliance
// pipeline fiat payments use. The asset-specific bounds check runs before
// anything is handed to the manager.
type Extension struct {
	registry *Registry
	manager  *compliance.Manager
	logger   *zap.Logger
}

// NewExtension wires the extension to a registry and a compliance manager.
func NewExtension(registry *Registry, manager *compliance.Manager, logger *zap.Logger) *Extension {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extension{registry: registry, manager: manager, logger: logger}
}

// Registry exposes the asset table.
func (e *Extension) Registry() *Registry { return e.registry }

// Payload is a generated crypto payment: the structured fields the caller
// asked for plus the serialized pain.001 document.
type Payload struct {
	InstructionID string `json:"instruction_id"`
	Currency      string `json:"currency"`
	Amount        string `json:"amount"`
	Sender        string `json:"sender"`
	Recipient     string `json:"recipient"`
	XML           string `json:"xml"`
}

// PaymentRequest carries the inputs for one crypto payment.
type PaymentRequest struct {
	Asset            string
	Amount           string
	Sender           iso20022.PartyIdentification
	Recipient        iso20022.PartyIdentification
	SenderAccount    string
	RecipientAccount string
	Purpose          iso20022.PaymentPurpose
	InstructionID    string
}

// GenerateCryptoPaymentMessage bounds-checks the amount against the asset's
// configured minimum/maximum and precision, then builds a pain.001 document
// through the compliance manager. Amounts outside the bounds return an
// OutOfRangeError; amounts finer than the asset's decimals return a
// MalformedInputError.
func (e *Extension) GenerateCryptoPaymentMessage(req PaymentRequest) (*Payload, error) {
	if req.InstructionID == "" {
		req.InstructionID = "CRYPTO-" + uuid.New().String()[:18]
	}
	asset, ok := e.registry.Get(req.Asset)
	if !ok {
		return nil, &iso20022.MalformedInputError{
			Field: "asset", Value: req.Asset, Reason: "not a registered asset",
		}
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, &iso20022.MalformedInputError{
			Field: "amount", Value: req.Amount, Reason: "not a decimal string",
		}
	}
	if amount.LessThan(asset.min) || amount.GreaterThan(asset.max) {
		e.logger.Warn("crypto payment outside asset bounds",
			zap.String("asset", asset.Symbol),
			zap.String("amount", req.Amount))
		return nil, &iso20022.OutOfRangeError{
			Asset:  asset.Symbol,
			Amount: req.Amount,
			Min:    asset.Min,
			Max:    asset.Max,
		}
	}
	if amount.Exponent() < -asset.Decimals {
		return nil, &iso20022.MalformedInputError{
			Field: "amount", Value: req.Amount,
			Reason: "more fractional digits than the asset settles",
		}
	}

	record := map[string]any{
		"instruction_id": req.InstructionID,
		"amount": map[string]any{
			"value":    amount.String(),
			"currency": asset.Symbol,
		},
		"debtor":           map[string]any{"name": req.Sender.Name, "bic": req.Sender.BIC},
		"creditor":         map[string]any{"name": req.Recipient.Name, "bic": req.Recipient.BIC},
		"debtor_account":   req.SenderAccount,
		"creditor_account": req.RecipientAccount,
		"payment_purpose":  string(req.Purpose),
	}
	xml, err := e.manager.CreatePaymentInstruction(iso20022.PaymentInitiation, record)
	if err != nil {
		return nil, err
	}

	return &Payload{
		InstructionID: req.InstructionID,
		Currency:      asset.Symbol,
		Amount:        amount.String(),
		Sender:        req.Sender.Name,
		Recipient:     req.Recipient.Name,
		XML:           xml,
	}, nil
}
