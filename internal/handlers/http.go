// Package handlers is the thin HTTP surface over the compliance engine. It
// translates validation reports and typed errors into status codes; the
// engine itself has no knowledge of HTTP.
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Klerno-Labs/iso20022-engine/internal/assets"
	"github.com/Klerno-Labs/iso20022-engine/internal/compliance"
	"github.com/Klerno-Labs/iso20022-engine/internal/iso20022"
	"github.com/Klerno-Labs/iso20022-engine/internal/metrics"
	"github.com/Klerno-Labs/iso20022-engine/internal/reporting"
)

// MessagingHandler handles the messaging and compliance HTTP endpoints.
type MessagingHandler struct {
	manager   *compliance.Manager
	extension *assets.Extension
	collector *metrics.Collector
	logger    *zap.Logger
}

// NewMessagingHandler creates a handler over the given engine components.
func NewMessagingHandler(manager *compliance.Manager, extension *assets.Extension, collector *metrics.Collector, logger *zap.Logger) *MessagingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessagingHandler{
		manager:   manager,
		extension: extension,
		collector: collector,
		logger:    logger,
	}
}

// RegisterRoutes registers all engine routes.
func (h *MessagingHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	if h.collector != nil {
		router.GET("/metrics", gin.WrapH(h.collector.Handler()))
	}

	api := router.Group("/api/v1")
	api.POST("/messages/validate", h.ValidateMessage)
	api.POST("/messages/build", h.BuildMessage)
	api.POST("/payments/crypto", h.CryptoPayment)
	api.GET("/compliance/report", h.ComplianceReport)
}

// Health reports liveness plus the manager's configuration self-check.
func (h *MessagingHandler) Health(c *gin.Context) {
	if !h.manager.ValidateConfiguration() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "misconfigured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ValidateMessage validates a raw XML body or a JSON payment record and
// renders the full validation report. Invalid messages answer 422 so
// operators see every defect in one pass.
func (h *MessagingHandler) ValidateMessage(c *gin.Context) {
	start := time.Now()

	var report iso20022.ValidationReport
	contentType := c.ContentType()
	if strings.Contains(contentType, "xml") {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		report = h.manager.ValidateMessage(string(body))
	} else {
		var record map[string]any
		if err := c.ShouldBindJSON(&record); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON payment record or an XML document"})
			return
		}
		report = h.manager.ValidateMessage(record)
	}

	if h.collector != nil {
		h.collector.ObserveValidation(report.Valid, time.Since(start))
	}
	status := http.StatusOK
	if !report.Valid {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, report)
}

// BuildRequest is the BuildMessage body.
type BuildRequest struct {
	MessageType string         `json:"message_type" binding:"required"`
	Payment     map[string]any `json:"payment" binding:"required"`
}

// BuildMessage converts a payment record into a serialized pain.001
// document.
func (h *MessagingHandler) BuildMessage(c *gin.Context) {
	var req BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	xml, err := h.manager.CreatePaymentInstruction(iso20022.MessageType(req.MessageType), req.Payment)
	if h.collector != nil {
		h.collector.ObserveBuild(err)
	}
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.Data(http.StatusCreated, "application/xml; charset=utf-8", []byte(xml))
}

// CryptoPaymentRequest is the CryptoPayment body.
type CryptoPaymentRequest struct {
	Asset            string `json:"asset" binding:"required"`
	Amount           string `json:"amount" binding:"required"`
	Sender           string `json:"sender" binding:"required"`
	SenderBIC        string `json:"sender_bic"`
	Recipient        string `json:"recipient" binding:"required"`
	RecipientBIC     string `json:"recipient_bic"`
	SenderAccount    string `json:"sender_account" binding:"required"`
	RecipientAccount string `json:"recipient_account" binding:"required"`
	Purpose          string `json:"purpose"`
	InstructionID    string `json:"instruction_id"`
}

// CryptoPayment generates a crypto payment payload through the compliance
// pipeline.
func (h *MessagingHandler) CryptoPayment(c *gin.Context) {
	var req CryptoPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.extension.GenerateCryptoPaymentMessage(assets.PaymentRequest{
		Asset:            req.Asset,
		Amount:           req.Amount,
		Sender:           iso20022.PartyIdentification{Name: req.Sender, BIC: req.SenderBIC},
		Recipient:        iso20022.PartyIdentification{Name: req.Recipient, BIC: req.RecipientBIC},
		SenderAccount:    req.SenderAccount,
		RecipientAccount: req.RecipientAccount,
		Purpose:          iso20022.PaymentPurpose(req.Purpose),
		InstructionID:    req.InstructionID,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payload)
}

// ComplianceReport renders the aggregate report; ?format=csv|pdf selects an
// export format, JSON is the default.
func (h *MessagingHandler) ComplianceReport(c *gin.Context) {
	report := h.manager.GenerateComplianceReport()

	format := reporting.Format(c.DefaultQuery("format", string(reporting.FormatJSON)))
	out, err := reporting.Export(report, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, format.ContentType(), out)
}

// renderError maps the engine's error taxonomy onto HTTP status codes,
// always carrying the caller-actionable detail through.
func (h *MessagingHandler) renderError(c *gin.Context, err error) {
	var validationErr *iso20022.ValidationFailedError
	var malformedErr *iso20022.MalformedInputError
	var parseErr *iso20022.ParseError
	var unsupportedErr *iso20022.UnsupportedMessageTypeError
	var rangeErr *iso20022.OutOfRangeError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, validationErr.Report)
	case errors.As(err, &rangeErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": rangeErr.Error(),
			"asset": rangeErr.Asset,
			"min":   rangeErr.Min,
			"max":   rangeErr.Max,
		})
	case errors.As(err, &malformedErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": malformedErr.Error(), "field": malformedErr.Field})
	case errors.As(err, &parseErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error(), "path": parseErr.Path})
	case errors.As(err, &unsupportedErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": unsupportedErr.Error()})
	default:
		h.logger.Error("unhandled engine error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
