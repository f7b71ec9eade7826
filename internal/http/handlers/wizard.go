package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/buildhub/homeowner-gateway/internal/http/handlers/common"
	"github.com/buildhub/homeowner-gateway/internal/service"
	"github.com/buildhub/homeowner-gateway/internal/wizard"
)

// WizardHandler serves the seven-step request wizard.
type WizardHandler struct {
	wizards *service.WizardService
}

func NewWizardHandler(wizards *service.WizardService) *WizardHandler {
	return &WizardHandler{wizards: wizards}
}

func wizardView(w *wizard.Wizard) gin.H {
	return gin.H{
		"step":         w.Step,
		"step_name":    wizard.StepNames[w.Step],
		"steps":        wizard.StepNames,
		"data":         w.Data,
		"field_errors": w.FieldErrors,
	}
}

func (h *WizardHandler) Get(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	common.OK(c, gin.H{"wizard": wizardView(h.wizards.Get(sess.HomeownerID))})
}

func (h *WizardHandler) Update(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var data wizard.Data
	if err := c.ShouldBindJSON(&data); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid wizard data")
		return
	}
	common.OK(c, gin.H{"wizard": wizardView(h.wizards.Update(sess.HomeownerID, data))})
}

func (h *WizardHandler) Next(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	w, err := h.wizards.Next(sess.HomeownerID)
	if errors.Is(err, wizard.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":      false,
			"message":      "Please fix the highlighted fields before continuing",
			"field_errors": w.FieldErrors,
			"wizard":       wizardView(w),
		})
		return
	}
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"wizard": wizardView(w)})
}

func (h *WizardHandler) Prev(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	common.OK(c, gin.H{"wizard": wizardView(h.wizards.Prev(sess.HomeownerID))})
}

func (h *WizardHandler) Reset(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	h.wizards.Reset(sess.HomeownerID)
	common.OK(c, nil)
}

func (h *WizardHandler) Submit(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	result, err := h.wizards.Submit(c.Request.Context(), sess)
	if errors.Is(err, wizard.ErrValidation) {
		w := h.wizards.Get(sess.HomeownerID)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":      false,
			"message":      "Please fix the highlighted fields before continuing",
			"field_errors": w.FieldErrors,
			"wizard":       wizardView(w),
		})
		return
	}
	if err != nil {
		common.Error(c, err)
		return
	}

	message := "Request submitted and sent to your selected architects"
	if len(result.ArchitectNames) > 0 {
		message = "Request submitted and assigned to " + strings.Join(result.ArchitectNames, ", ")
	}
	if !result.ArchitectsAssigned {
		message = "Request submitted; architect assignment will be retried"
	}
	common.OK(c, gin.H{
		"request_id":          result.RequestID,
		"architects_assigned": result.ArchitectsAssigned,
		"architect_names":     result.ArchitectNames,
		"message":             message,
	})
}
