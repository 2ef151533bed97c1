package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/dto"
	"github.com/tidyops/cleanops_backend/internal/middleware"
)

// companyHandler handles HTTP requests related to companies, memberships and
// tenant settings.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

// newCompanyHandler creates a new companyHandler.
func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{companyService: cs}
}

// registerCompanyRoutes registers the company routes and nests every
// company-scoped resource under /companies/:company_id.
func registerCompanyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCompanyHandler(services.Company)

	companies := rg.Group("/companies")
	{
		companies.POST("", h.createCompany)
		companies.GET("", h.listUserCompanies)
	}

	companyScoped := rg.Group("/companies/:company_id")
	{
		companyScoped.GET("", h.getCompany)

		members := companyScoped.Group("/users")
		{
			members.GET("", h.listCompanyUsers)
			members.POST("", h.addUserToCompany)
			members.PUT("/:user_id/role", h.updateUserRole)
		}

		settings := companyScoped.Group("/settings")
		{
			settings.GET("", h.getSettings)
			settings.PUT("", h.updateSettings)
		}

		registerClientRoutes(companyScoped, services.Client)
		registerAbsenceRoutes(companyScoped, services.Absence)
		registerJobRoutes(companyScoped, services.Scheduling, services.Completion)
		registerInvoiceRoutes(companyScoped, services.Invoice)
		registerReceiptRoutes(companyScoped, services.Receipt)
		registerCashRoutes(companyScoped, services.Cash)
		registerPayrollRoutes(companyScoped, services.Payroll)
		registerActivityRoutes(companyScoped, services.Activity, services.Notifier, services.Company)
	}
}

// createCompany godoc
// @Summary Create a company
// @Description Creates a new company; the creator becomes its admin.
// @Tags companies
// @Accept json
// @Produce json
// @Param company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCompany", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req.Name, req.Address, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create company")
		return
	}

	logger.Info("Company created", slog.String("company_id", company.CompanyID))
	c.JSON(http.StatusCreated, dto.CompanyResponse{Company: *company})
}

// listUserCompanies godoc
// @Summary List companies for current user
// @Tags companies
// @Produce json
// @Success 200 {array} domain.Company
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [get]
func (h *companyHandler) listUserCompanies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	companies, err := h.companyService.ListUserCompanies(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list companies")
		return
	}
	c.JSON(http.StatusOK, companies)
}

// getCompany godoc
// @Summary Get a company by ID
// @Tags companies
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	company, err := h.companyService.FindCompanyByID(c.Request.Context(), c.Param("company_id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve company")
		return
	}
	c.JSON(http.StatusOK, dto.CompanyResponse{Company: *company})
}

// listCompanyUsers godoc
// @Summary List company members
// @Tags companies
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {array} domain.UserCompany
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/users [get]
func (h *companyHandler) listCompanyUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	members, err := h.companyService.ListCompanyUsers(c.Request.Context(), c.Param("company_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list company members")
		return
	}
	c.JSON(http.StatusOK, members)
}

// addUserToCompany godoc
// @Summary Add a member to a company
// @Description Adds a user to a company with a role. Admin only.
// @Tags companies
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param member body dto.AddCompanyUserRequest true "User ID and role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/users [post]
func (h *companyHandler) addUserToCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AddCompanyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddUserToCompany", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	addingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.companyService.AddUserToCompany(c.Request.Context(), addingUserID, req.UserID, c.Param("company_id"), domain.UserCompanyRole(req.Role))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add member")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateUserRole godoc
// @Summary Update a member's role
// @Tags companies
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param user_id path string true "Target user ID"
// @Param member body dto.AddCompanyUserRequest true "New role (userID field is ignored)"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/users/{user_id}/role [put]
func (h *companyHandler) updateUserRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req struct {
		Role string `json:"role" binding:"required,oneof=ADMIN MANAGER CLEANER REMOVED"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.companyService.UpdateUserCompanyRole(c.Request.Context(), requestingUserID, c.Param("user_id"), c.Param("company_id"), domain.UserCompanyRole(req.Role))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update member role")
		return
	}
	c.Status(http.StatusNoContent)
}

// getSettings godoc
// @Summary Get company settings
// @Description Returns the tenant workflow configuration, defaulted when never saved.
// @Tags companies
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {object} domain.CompanySettings
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/settings [get]
func (h *companyHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	settings, err := h.companyService.GetSettings(c.Request.Context(), c.Param("company_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// updateSettings godoc
// @Summary Update company settings
// @Description Applies the provided fields over the current settings and saves them. Admin only.
// @Tags companies
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param settings body dto.UpdateCompanySettingsRequest true "Settings to change"
// @Success 200 {object} domain.CompanySettings
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/settings [put]
func (h *companyHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.UpdateCompanySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	current, err := h.companyService.GetSettings(c.Request.Context(), companyID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load settings")
		return
	}

	settings := *current
	if req.CurrencyCode != nil {
		settings.CurrencyCode = *req.CurrencyCode
	}
	if req.TaxRatePercent != nil {
		settings.TaxRatePercent = *req.TaxRatePercent
	}
	if req.DefaultHourlyRate != nil {
		settings.DefaultHourlyRate = *req.DefaultHourlyRate
	}
	if req.CashKeptByEmployee != nil {
		settings.CashKeptByEmployee = *req.CashKeptByEmployee
	}
	if req.AutoGenerateReceipt != nil {
		settings.AutoGenerateReceipt = *req.AutoGenerateReceipt
	}
	if req.AutoSendReceipt != nil {
		settings.AutoSendReceipt = *req.AutoSendReceipt
	}
	if req.InvoiceGenerationMode != nil {
		settings.InvoiceGenerationMode = domain.InvoiceGenerationMode(*req.InvoiceGenerationMode)
	}

	if err := h.companyService.UpdateSettings(c.Request.Context(), settings, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to update settings")
		return
	}

	logger.Info("Company settings updated", slog.String("company_id", companyID))
	c.JSON(http.StatusOK, settings)
}
