package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/middleware"
)

// cashHandler handles HTTP requests for the cash handling approval workflow.
type cashHandler struct {
	cashService portssvc.CashSvcFacade
}

// registerCashRoutes registers the cash collection routes under a company.
func registerCashRoutes(rg *gin.RouterGroup, cashService portssvc.CashSvcFacade) {
	h := &cashHandler{cashService: cashService}

	cash := rg.Group("/cash-collections")
	{
		cash.GET("", h.listCollections)
		cash.POST("/:collection_id/approve", h.approveCollection)
		cash.POST("/:collection_id/dispute", h.disputeCollection)
		cash.POST("/:collection_id/settle", h.settleCollection)
	}
}

// listCollections godoc
// @Summary List cash collections
// @Tags cash
// @Produce json
// @Param company_id path string true "Company ID"
// @Param status query string false "Filter by compensation status" Enums(NOT_APPLICABLE, PENDING, APPROVED, DISPUTED, SETTLED)
// @Param limit query int false "Page size" default(50)
// @Param next_token query string false "Cursor from the previous page"
// @Success 200 {array} domain.CashCollection
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/cash-collections [get]
func (h *cashHandler) listCollections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var status *domain.CompensationStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.CompensationStatus(raw)
		status = &s
	}
	var nextToken *string
	if raw := c.Query("next_token"); raw != "" {
		nextToken = &raw
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	collections, next, err := h.cashService.ListCashCollections(c.Request.Context(), c.Param("company_id"), status, limit, nextToken, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list cash collections")
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": collections, "nextToken": next})
}

// approveCollection godoc
// @Summary Approve kept cash
// @Description Transitions pending to approved, making the amount eligible as a payroll deduction. Admin only.
// @Tags cash
// @Produce json
// @Param company_id path string true "Company ID"
// @Param collection_id path string true "Cash collection ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not awaiting a decision"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/cash-collections/{collection_id}/approve [post]
func (h *cashHandler) approveCollection(c *gin.Context) {
	h.transition(c, h.cashService.ApproveCashCollection)
}

// disputeCollection godoc
// @Summary Dispute kept cash
// @Tags cash
// @Produce json
// @Param company_id path string true "Company ID"
// @Param collection_id path string true "Cash collection ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not awaiting a decision"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/cash-collections/{collection_id}/dispute [post]
func (h *cashHandler) disputeCollection(c *gin.Context) {
	h.transition(c, h.cashService.DisputeCashCollection)
}

// settleCollection godoc
// @Summary Settle approved kept cash
// @Description Marks an approved collection settled once the payroll deduction has been applied. Admin only.
// @Tags cash
// @Produce json
// @Param company_id path string true "Company ID"
// @Param collection_id path string true "Cash collection ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not approved"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/cash-collections/{collection_id}/settle [post]
func (h *cashHandler) settleCollection(c *gin.Context) {
	h.transition(c, h.cashService.SettleCashCollection)
}

func (h *cashHandler) transition(c *gin.Context, fn func(ctx context.Context, companyID, collectionID, actorUserID string) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := fn(c.Request.Context(), c.Param("company_id"), c.Param("collection_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to update cash collection")
		return
	}
	c.Status(http.StatusNoContent)
}
