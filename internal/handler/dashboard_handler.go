package handler

import (
	"dormitory-backend/internal/service"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns the headline numbers; ?from and ?to (YYYY-MM-DD) narrow the payment sum
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var dormitoryID *uint
	if id := queryUint(c, "dormitory_id"); id != 0 {
		dormitoryID = &id
	}
	dashboard, err := h.dashboardService.GetDashboard(scopeOf(c), dormitoryID, queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, dashboard)
}
