package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/buildhub/homeowner-gateway/internal/http/handlers/common"
	"github.com/buildhub/homeowner-gateway/internal/http/middleware"
	"github.com/buildhub/homeowner-gateway/internal/plan"
	"github.com/buildhub/homeowner-gateway/internal/service"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
)

// DashboardHandler serves the dashboard's list views and design actions.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func mustSession(c *gin.Context) (upstream.Session, bool) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, "Not authenticated")
	}
	return sess, ok
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		common.Fail(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func (h *DashboardHandler) Requests(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	common.OK(c, gin.H{"requests": h.dashboard.Requests(c.Request.Context(), sess)})
}

func (h *DashboardHandler) ContractorRequests(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	requests, err := h.dashboard.ContractorRequests(c.Request.Context(), sess)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"requests": requests})
}

func (h *DashboardHandler) Designs(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	common.OK(c, gin.H{"designs": h.dashboard.Designs(c.Request.Context(), sess)})
}

// DesignPlan returns the 3D preview scene for one design.
func (h *DashboardHandler) DesignPlan(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	designID, ok := pathID(c, "id")
	if !ok {
		return
	}

	for _, view := range h.dashboard.Designs(c.Request.Context(), sess) {
		if view.ID.Int64() == designID {
			if !view.Paid {
				common.Fail(c, http.StatusPaymentRequired, "Pay to unlock this design first")
				return
			}
			common.OK(c, gin.H{"plan": plan.FromDesign(view.Design)})
			return
		}
	}
	common.Fail(c, http.StatusNotFound, "Design not found")
}

func (h *DashboardHandler) Estimates(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	common.OK(c, gin.H{"estimates": h.dashboard.Estimates(c.Request.Context(), sess)})
}

func (h *DashboardHandler) Projects(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	common.OK(c, gin.H{"projects": h.dashboard.Projects(c.Request.Context(), sess)})
}

func (h *DashboardHandler) PaymentRequests(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	common.OK(c, gin.H{"payment_requests": h.dashboard.PaymentRequests(c.Request.Context(), sess)})
}

func (h *DashboardHandler) LayoutLibrary(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	layouts, err := h.dashboard.LayoutLibrary(c.Request.Context(), sess)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"layouts": layouts})
}

func (h *DashboardHandler) Architects(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	architects, err := h.dashboard.Architects(c.Request.Context(), sess)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"architects": architects})
}

func (h *DashboardHandler) Contractors(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	contractors, err := h.dashboard.Contractors(c.Request.Context(), sess)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, gin.H{"contractors": contractors})
}

func (h *DashboardHandler) DeleteRequest(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.dashboard.DeleteRequest(c.Request.Context(), sess, id); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}

func (h *DashboardHandler) DeleteDesign(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.dashboard.DeleteDesign(c.Request.Context(), sess, id); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}

func (h *DashboardHandler) DeleteHousePlan(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.dashboard.DeleteHousePlan(c.Request.Context(), sess, id); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}

type selectDesignRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *DashboardHandler) SelectDesign(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req selectDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "status is required")
		return
	}
	if err := h.dashboard.SelectDesign(c.Request.Context(), sess, id, req.Status); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}

type sendToContractorRequest struct {
	ContractorID int64 `json:"contractor_id" binding:"required"`
}

func (h *DashboardHandler) SendToContractor(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req sendToContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "contractor_id is required")
		return
	}
	if err := h.dashboard.SendToContractor(c.Request.Context(), sess, id, req.ContractorID); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}

func (h *DashboardHandler) SendHousePlanToContractor(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req sendToContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "contractor_id is required")
		return
	}
	if err := h.dashboard.SendHousePlanToContractor(c.Request.Context(), sess, id, req.ContractorID); err != nil {
		common.Error(c, err)
		return
	}
	common.OK(c, nil)
}
