package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/dto"
	"github.com/tidyops/cleanops_backend/internal/middleware"
)

// receiptHandler handles HTTP requests for payment receipts.
type receiptHandler struct {
	receiptService portssvc.ReceiptSvcFacade
}

// registerReceiptRoutes registers the receipt routes under a company.
func registerReceiptRoutes(rg *gin.RouterGroup, receiptService portssvc.ReceiptSvcFacade) {
	h := &receiptHandler{receiptService: receiptService}

	receipts := rg.Group("/receipts")
	{
		receipts.GET("", h.listReceipts)
		receipts.GET("/:receipt_id", h.getReceipt)
		receipts.POST("/:receipt_id/send", h.sendReceipt)
	}

	rg.POST("/jobs/:job_id/receipt", h.generateForJob)
}

// listReceipts godoc
// @Summary List receipts
// @Tags receipts
// @Produce json
// @Param company_id path string true "Company ID"
// @Param limit query int false "Page size" default(50)
// @Param next_token query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListReceiptsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/receipts [get]
func (h *receiptHandler) listReceipts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var nextToken *string
	if raw := c.Query("next_token"); raw != "" {
		nextToken = &raw
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	receipts, next, err := h.receiptService.ListReceipts(c.Request.Context(), c.Param("company_id"), limit, nextToken, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list receipts")
		return
	}
	c.JSON(http.StatusOK, dto.ListReceiptsResponse{Receipts: receipts, NextToken: next})
}

// getReceipt godoc
// @Summary Get a receipt by ID
// @Tags receipts
// @Produce json
// @Param company_id path string true "Company ID"
// @Param receipt_id path string true "Receipt ID"
// @Success 200 {object} domain.PaymentReceipt
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/receipts/{receipt_id} [get]
func (h *receiptHandler) getReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	receipt, err := h.receiptService.GetReceiptByID(c.Request.Context(), c.Param("company_id"), c.Param("receipt_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve receipt")
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// sendReceipt godoc
// @Summary Send a receipt to the client
// @Description Dispatches the receipt to the client's on-file email and stamps it sent.
// @Tags receipts
// @Produce json
// @Param company_id path string true "Company ID"
// @Param receipt_id path string true "Receipt ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "No client email on file"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Receipt is cancelled"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/receipts/{receipt_id}/send [post]
func (h *receiptHandler) sendReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.receiptService.SendReceipt(c.Request.Context(), c.Param("company_id"), c.Param("receipt_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to send receipt")
		return
	}
	c.Status(http.StatusNoContent)
}

// generateForJob godoc
// @Summary Generate the receipt for a completed job
// @Description Creates the receipt for a completed job whose payment was recorded without one (auto-generate was off).
// @Tags receipts
// @Produce json
// @Param company_id path string true "Company ID"
// @Param job_id path string true "Job ID"
// @Success 201 {object} domain.PaymentReceipt
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Job not completed with a payment, or a receipt already exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id}/receipt [post]
func (h *receiptHandler) generateForJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	receipt, err := h.receiptService.GenerateReceiptForJob(c.Request.Context(), c.Param("company_id"), c.Param("job_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate receipt")
		return
	}

	logger.Info("Receipt generated", slog.String("receipt_id", receipt.ReceiptID))
	c.JSON(http.StatusCreated, receipt)
}
