package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/dto"
	"github.com/tidyops/cleanops_backend/internal/middleware"
)

// absenceHandler handles HTTP requests related to employee absence requests.
type absenceHandler struct {
	absenceService portssvc.AbsenceSvcFacade
}

// registerAbsenceRoutes registers the absence routes under a company.
func registerAbsenceRoutes(rg *gin.RouterGroup, absenceService portssvc.AbsenceSvcFacade) {
	h := &absenceHandler{absenceService: absenceService}

	absences := rg.Group("/absences")
	{
		absences.POST("", h.requestAbsence)
		absences.GET("", h.listAbsences)
		absences.POST("/:absence_id/approve", h.approveAbsence)
		absences.POST("/:absence_id/reject", h.rejectAbsence)
	}
}

// requestAbsence godoc
// @Summary File an absence request
// @Description Files an absence over a date range. Approved absences block scheduling for the employee.
// @Tags absences
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param absence body dto.RequestAbsenceRequest true "Absence details"
// @Success 201 {object} domain.AbsenceRequest
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/absences [post]
func (h *absenceHandler) requestAbsence(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RequestAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestAbsence", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	absence := domain.AbsenceRequest{
		CompanyID:  c.Param("company_id"),
		EmployeeID: req.EmployeeID,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     req.Reason,
	}
	created, err := h.absenceService.RequestAbsence(c.Request.Context(), absence, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to file absence request")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// listAbsences godoc
// @Summary List absence requests
// @Tags absences
// @Produce json
// @Param company_id path string true "Company ID"
// @Param status query string false "Filter by status" Enums(REQUESTED, APPROVED, REJECTED)
// @Success 200 {array} domain.AbsenceRequest
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/absences [get]
func (h *absenceHandler) listAbsences(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var status *domain.AbsenceStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.AbsenceStatus(raw)
		status = &s
	}

	absences, err := h.absenceService.ListAbsences(c.Request.Context(), c.Param("company_id"), status, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list absences")
		return
	}
	c.JSON(http.StatusOK, absences)
}

// approveAbsence godoc
// @Summary Approve an absence request
// @Tags absences
// @Produce json
// @Param company_id path string true "Company ID"
// @Param absence_id path string true "Absence ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already decided"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/absences/{absence_id}/approve [post]
func (h *absenceHandler) approveAbsence(c *gin.Context) {
	h.review(c, true)
}

// rejectAbsence godoc
// @Summary Reject an absence request
// @Tags absences
// @Produce json
// @Param company_id path string true "Company ID"
// @Param absence_id path string true "Absence ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already decided"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/absences/{absence_id}/reject [post]
func (h *absenceHandler) rejectAbsence(c *gin.Context) {
	h.review(c, false)
}

func (h *absenceHandler) review(c *gin.Context, approve bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.absenceService.ReviewAbsence(c.Request.Context(), c.Param("company_id"), c.Param("absence_id"), approve, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to review absence request")
		return
	}
	c.Status(http.StatusNoContent)
}
