package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/dto"
	"github.com/tidyops/cleanops_backend/internal/middleware"
)

// invoiceHandler handles HTTP requests for the invoice lifecycle.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// registerInvoiceRoutes registers the invoice routes under a company.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService}

	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoice_id", h.getInvoice)
		invoices.POST("/:invoice_id/cancel", h.cancelInvoice)
		invoices.POST("/:invoice_id/regenerate", h.regenerateInvoice)
		invoices.POST("/:invoice_id/mark-paid", h.markInvoicePaid)
		invoices.DELETE("/:invoice_id", h.deleteInvoice)
	}
}

// listInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param company_id path string true "Company ID"
// @Param status query string false "Filter by status" Enums(DRAFT, SENT, PAID, CANCELLED)
// @Param limit query int false "Page size" default(50)
// @Param next_token query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var status *domain.InvoiceStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.InvoiceStatus(raw)
		status = &s
	}
	var nextToken *string
	if raw := c.Query("next_token"); raw != "" {
		nextToken = &raw
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	invoices, next, err := h.invoiceService.ListInvoices(c.Request.Context(), c.Param("company_id"), status, limit, nextToken, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ListInvoicesResponse{Invoices: invoices, NextToken: next})
}

// getInvoice godoc
// @Summary Get an invoice with its lines
// @Tags invoices
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.Param("company_id"), c.Param("invoice_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.InvoiceResponse{Invoice: *invoice})
}

// cancelInvoice godoc
// @Summary Cancel an invoice
// @Description Transitions any non-cancelled invoice to cancelled. The row is retained; the reason goes to the audit trail.
// @Tags invoices
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice_id path string true "Invoice ID"
// @Param cancel body dto.CancelInvoiceRequest true "Cancellation reason"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already cancelled"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id}/cancel [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CancelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.invoiceService.CancelInvoice(c.Request.Context(), c.Param("company_id"), c.Param("invoice_id"), req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel invoice")
		return
	}
	c.Status(http.StatusNoContent)
}

// regenerateInvoice godoc
// @Summary Regenerate an invoice
// @Description Cancels the invoice and creates a fresh draft for the same job under a new number, atomically.
// @Tags invoices
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Paid, or another active invoice exists for the job"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id}/regenerate [post]
func (h *invoiceHandler) regenerateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.RegenerateInvoice(c.Request.Context(), c.Param("company_id"), c.Param("invoice_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to regenerate invoice")
		return
	}

	logger.Info("Invoice regenerated", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusCreated, dto.InvoiceResponse{Invoice: *invoice})
}

// markInvoicePaid godoc
// @Summary Mark an invoice paid
// @Description Transitions draft/sent to paid and synthesizes a receipt when the linked job has none yet.
// @Tags invoices
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice_id path string true "Invoice ID"
// @Param payment body dto.MarkInvoicePaidRequest true "Payment details"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not in a payable state"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id}/mark-paid [post]
func (h *invoiceHandler) markInvoicePaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.MarkInvoicePaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), c.Param("company_id"), c.Param("invoice_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to mark invoice paid")
		return
	}
	c.JSON(http.StatusOK, dto.InvoiceResponse{Invoice: *invoice})
}

// deleteInvoice godoc
// @Summary Permanently delete an invoice
// @Description Hard-deletes the invoice and its lines. The request must carry the exact confirmation literal.
// @Tags invoices
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param invoice_id path string true "Invoice ID"
// @Param confirm body dto.DeleteInvoiceRequest true "Confirmation"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Confirmation text does not match"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DeleteInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.invoiceService.DeleteInvoicePermanently(c.Request.Context(), c.Param("company_id"), c.Param("invoice_id"), req.Confirmation, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to delete invoice")
		return
	}

	logger.Info("Invoice permanently deleted", slog.String("invoice_id", c.Param("invoice_id")))
	c.Status(http.StatusNoContent)
}
