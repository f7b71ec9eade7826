package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildhub/homeowner-gateway/internal/http/handlers/common"
	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/service"
)

// EstimateHandler serves the estimate workflow and the payment-gated report.
type EstimateHandler struct {
	estimates *service.EstimateService
	receipts  *service.ReceiptService
}

func NewEstimateHandler(estimates *service.EstimateService, receipts *service.ReceiptService) *EstimateHandler {
	return &EstimateHandler{estimates: estimates, receipts: receipts}
}

type respondRequest struct {
	Action  string `json:"action" binding:"required"`
	Message string `json:"message"`
}

func (h *EstimateHandler) Respond(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "action is required")
		return
	}
	if err := h.estimates.Respond(c.Request.Context(), sess, id, req.Action, req.Message); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}

func (h *EstimateHandler) StartConstruction(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.estimates.StartConstruction(c.Request.Context(), sess, id); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}

type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *EstimateHandler) SendMessage(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "message is required")
		return
	}
	if err := h.estimates.SendMessage(c.Request.Context(), sess, id, req.Message); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}

func (h *EstimateHandler) Delete(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.estimates.Delete(c.Request.Context(), sess, id); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}

// Report streams the PDF cost report for a paid estimate.
func (h *EstimateHandler) Report(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="estimate-%d.pdf"`, id))
	if err := h.estimates.DownloadReport(c.Request.Context(), sess, id, c.Writer); err != nil {
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", "")
		common.Error(c, err)
	}
}

func (h *EstimateHandler) Breakdown(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	breakdown, err := h.estimates.Breakdown(c.Request.Context(), sess, id)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"breakdown": breakdown})
}

type respondPaymentRequest struct {
	Response       string  `json:"response" binding:"required"`
	HomeownerNotes string  `json:"homeowner_notes"`
	ApprovedAmount float64 `json:"approved_amount"`
}

func (h *EstimateHandler) RespondPaymentRequest(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req respondPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "response is required")
		return
	}
	if err := h.estimates.RespondPaymentRequest(c.Request.Context(), sess, id, req.Response, req.HomeownerNotes, req.ApprovedAmount); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}

// UploadReceipt accepts the manual payment receipt form with its attachments.
func (h *EstimateHandler) UploadReceipt(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "multipart form required")
		return
	}

	upload := models.ReceiptUpload{
		PaymentID:            id,
		TransactionReference: c.PostForm("transaction_reference"),
		PaymentDate:          c.PostForm("payment_date"),
		PaymentMethod:        c.PostForm("payment_method"),
		Notes:                c.PostForm("notes"),
	}

	var files []service.ReceiptFile
	for _, header := range form.File["receipt_files[]"] {
		f, err := header.Open()
		if err != nil {
			common.Fail(c, http.StatusBadRequest, "could not read uploaded file")
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			common.Fail(c, http.StatusBadRequest, "could not read uploaded file")
			return
		}
		files = append(files, service.ReceiptFile{Name: header.Filename, Content: content})
	}

	if err := h.receipts.Upload(c.Request.Context(), sess, upload, files); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}
