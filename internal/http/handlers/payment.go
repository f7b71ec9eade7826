package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildhub/homeowner-gateway/internal/http/handlers/common"
	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/payment"
)

// PaymentHandler drives the pay-to-unlock checkout sequence.
type PaymentHandler struct {
	flow *payment.Flow
}

func NewPaymentHandler(flow *payment.Flow) *PaymentHandler {
	return &PaymentHandler{flow: flow}
}

func paymentKind(c *gin.Context) (string, bool) {
	kind := c.Param("kind")
	switch kind {
	case payment.KindLayoutView, payment.KindTechnicalDetails, payment.KindEstimate, payment.KindPaymentRequest:
		return kind, true
	}
	common.Fail(c, http.StatusBadRequest, "Unknown payment kind")
	return "", false
}

type initiateRequest struct {
	ResourceID     int64   `json:"resource_id" binding:"required"`
	AmountOverride float64 `json:"amount_override"`
}

// Initiate opens a checkout and returns the Razorpay descriptor.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	kind, ok := paymentKind(c)
	if !ok {
		return
	}
	var req initiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "resource_id is required")
		return
	}

	desc, err := h.flow.Begin(c.Request.Context(), sess, kind, req.ResourceID, req.AmountOverride)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"checkout": desc})
}

type verifyRequest struct {
	ResourceID        int64  `json:"resource_id" binding:"required"`
	PaymentID         string `json:"payment_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// Verify confirms a completed checkout and unlocks the resource.
func (h *PaymentHandler) Verify(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	kind, ok := paymentKind(c)
	if !ok {
		return
	}
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "the razorpay result fields are required")
		return
	}

	result := models.GatewayResult{
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpaySignature: req.RazorpaySignature,
	}
	if err := h.flow.Complete(c.Request.Context(), sess, kind, req.ResourceID, result, req.PaymentID); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"state": payment.StateUnlocked})
}

type abandonRequest struct {
	ResourceID int64 `json:"resource_id" binding:"required"`
}

// Abandon relocks a dismissed checkout.
func (h *PaymentHandler) Abandon(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	kind, ok := paymentKind(c)
	if !ok {
		return
	}
	var req abandonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "resource_id is required")
		return
	}
	h.flow.Abandon(sess.HomeownerID, kind, req.ResourceID)
	common.OK(c, gin.H{"state": payment.StateLocked})
}

// State reports the flow state for a resource.
func (h *PaymentHandler) State(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	kind, ok := paymentKind(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	common.OK(c, gin.H{"state": h.flow.State(sess.HomeownerID, kind, id)})
}
