package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/middleware"
)

// payrollHandler handles HTTP requests for earnings summaries.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

// registerPayrollRoutes registers the payroll routes under a company.
func registerPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := &payrollHandler{payrollService: payrollService}
	rg.GET("/payroll/earnings", h.summarizeEarnings)
}

// summarizeEarnings godoc
// @Summary Per-employee earnings summary
// @Description Aggregates derived cleaner payments over a date range: gross earnings, approved kept-cash deductions and net payable per employee.
// @Tags payroll
// @Produce json
// @Param company_id path string true "Company ID"
// @Param from query string false "Range start (YYYY-MM-DD), default today"
// @Param to query string false "Range end (YYYY-MM-DD), default today+7"
// @Success 200 {array} domain.EarningsSummary
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/payroll/earnings [get]
func (h *payrollHandler) summarizeEarnings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	from, to, ok := parseDateRange(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date range, expected YYYY-MM-DD"})
		return
	}

	summaries, err := h.payrollService.SummarizeEarnings(c.Request.Context(), c.Param("company_id"), from, to, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to summarize earnings")
		return
	}
	c.JSON(http.StatusOK, summaries)
}
