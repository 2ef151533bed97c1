package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/middleware"
)

// activityHandler handles HTTP requests for the audit trail and notifications.
type activityHandler struct {
	activityService portssvc.ActivityEmitterSvc
	notifierService portssvc.NotifierSvc
	authorizer      portssvc.CompanyAuthorizerSvc
}

// registerActivityRoutes registers the activity and notification routes under a company.
func registerActivityRoutes(rg *gin.RouterGroup, activity portssvc.ActivityEmitterSvc, notifier portssvc.NotifierSvc, authorizer portssvc.CompanyAuthorizerSvc) {
	h := &activityHandler{activityService: activity, notifierService: notifier, authorizer: authorizer}

	rg.GET("/activity", h.listActivity)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("/:notification_id/read", h.markNotificationRead)
	}
}

// listActivity godoc
// @Summary Recent audit trail
// @Tags activity
// @Produce json
// @Param company_id path string true "Company ID"
// @Param limit query int false "Max entries" default(100)
// @Success 200 {array} domain.ActivityLog
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/activity [get]
func (h *activityHandler) listActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := h.activityService.ListRecent(c.Request.Context(), c.Param("company_id"), limit, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list activity")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// listNotifications godoc
// @Summary List notifications for the current user
// @Description Returns notifications addressed to the user, plus admin-audience notifications when the user is a company admin.
// @Tags notifications
// @Produce json
// @Param company_id path string true "Company ID"
// @Param limit query int false "Max entries" default(50)
// @Success 200 {array} domain.Notification
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/notifications [get]
func (h *activityHandler) listNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	isAdmin := h.authorizer.AuthorizeUserAction(c.Request.Context(), userID, companyID, domain.RoleAdmin) == nil
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.notifierService.ListForUser(c.Request.Context(), companyID, userID, isAdmin, limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// markNotificationRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Param company_id path string true "Company ID"
// @Param notification_id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/notifications/{notification_id}/read [post]
func (h *activityHandler) markNotificationRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.notifierService.MarkRead(c.Request.Context(), c.Param("company_id"), c.Param("notification_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to mark notification read")
		return
	}
	c.Status(http.StatusNoContent)
}
