package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/dto"
	"github.com/tidyops/cleanops_backend/internal/middleware"
)

// jobHandler handles HTTP requests for scheduling and the job state machine.
type jobHandler struct {
	schedulingService portssvc.SchedulingSvcFacade
	completionService portssvc.CompletionSvcFacade
}

// registerJobRoutes registers the job routes under a company.
func registerJobRoutes(rg *gin.RouterGroup, scheduling portssvc.SchedulingSvcFacade, completion portssvc.CompletionSvcFacade) {
	h := &jobHandler{schedulingService: scheduling, completionService: completion}

	jobs := rg.Group("/jobs")
	{
		jobs.POST("", h.createJob)
		jobs.GET("", h.listJobs)
		jobs.GET("/:job_id", h.getJob)
		jobs.PUT("/:job_id", h.updateJob)
		jobs.POST("/:job_id/cancel", h.cancelJob)
		jobs.POST("/:job_id/start", h.startJob)
		jobs.POST("/:job_id/complete", h.completeJob)
		jobs.POST("/:job_id/complete-visit", h.completeVisit)
	}

	rg.GET("/schedule", h.getScheduleView)
}

// parseDateRange reads the from/to query parameters, defaulting to the coming
// week when absent.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	from, to := now, now.AddDate(0, 0, 7)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	return from, to, true
}

// createJob godoc
// @Summary Schedule a job
// @Description Validates operation-type requirements and runs the feasibility checks (employee overlap, approved absence, active contract) before persisting. Nothing is written on rejection.
// @Tags jobs
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param job body dto.CreateJobRequest true "Job details"
// @Success 201 {object} dto.JobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Scheduling conflict or inactive contract"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/jobs [post]
func (h *jobHandler) createJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	job, err := h.schedulingService.CreateJob(c.Request.Context(), c.Param("company_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to schedule job")
		return
	}

	logger.Info("Job scheduled", slog.String("job_id", job.JobID))
	c.JSON(http.StatusCreated, dto.JobResponse{Job: *job})
}

// listJobs godoc
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Param company_id path string true "Company ID"
// @Param from query string false "Range start (YYYY-MM-DD), default today"
// @Param to query string false "Range end (YYYY-MM-DD), default today+7"
// @Param employee_id query string false "Filter by assigned employee"
// @Param limit query int false "Page size" default(50)
// @Param next_token query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListJobsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/jobs [get]
func (h *jobHandler) listJobs(c *gin.Context) {
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

	var employeeID *string
	if raw := c.Query("employee_id"); raw != "" {
		employeeID = &raw
	}
	var nextToken *string
	if raw := c.Query("next_token"); raw != "" {
		nextToken = &raw
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	jobs, next, err := h.schedulingService.ListJobs(c.Request.Context(), c.Param("company_id"), from, to, employeeID, limit, nextToken, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list jobs")
		return
	}
	c.JSON(http.StatusOK, dto.ListJobsResponse{Jobs: jobs, NextToken: next})
}

// getJob godoc
// @Summary Get a job by ID
// @Tags jobs
// @Produce json
// @Param company_id path string true "Company ID"
// @Param job_id path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id} [get]
func (h *jobHandler) getJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	job, err := h.schedulingService.GetJobByID(c.Request.Context(), c.Param("company_id"), c.Param("job_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve job")
		return
	}
	c.JSON(http.StatusOK, dto.JobResponse{Job: *job})
}

// updateJob godoc
// @Summary Update a scheduled job
// @Description Overwrites the mutable scheduling fields, re-running the feasibility checks excluding the job's own reservation. Completed and cancelled jobs are immutable.
// @Tags jobs
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param job_id path string true "Job ID"
// @Param job body dto.UpdateJobRequest true "Fields to update"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Scheduling conflict"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id} [put]
func (h *jobHandler) updateJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	job, err := h.schedulingService.UpdateJob(c.Request.Context(), c.Param("company_id"), c.Param("job_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update job")
		return
	}
	c.JSON(http.StatusOK, dto.JobResponse{Job: *job})
}

// cancelJob godoc
// @Summary Cancel a job
// @Tags jobs
// @Produce json
// @Param company_id path string true "Company ID"
// @Param job_id path string true "Job ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Job is not cancellable"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id}/cancel [post]
func (h *jobHandler) cancelJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.schedulingService.CancelJob(c.Request.Context(), c.Param("company_id"), c.Param("job_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to cancel job")
		return
	}
	c.Status(http.StatusNoContent)
}

// startJob godoc
// @Summary Start a job
// @Description Transitions scheduled to in progress, recording optional before photos.
// @Tags jobs
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param job_id path string true "Job ID"
// @Param start body dto.StartJobRequest true "Start details"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Job is not startable"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id}/start [post]
func (h *jobHandler) startJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.StartJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	job, err := h.completionService.StartJob(c.Request.Context(), c.Param("company_id"), c.Param("job_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to start job")
		return
	}
	c.JSON(http.StatusOK, dto.JobResponse{Job: *job})
}

// completeJob godoc
// @Summary Complete a billable job
// @Description Validates the completion and payment payloads and writes them with the status transition in one atomic update. Billing derivation, cash handling, audit and notifications follow best-effort.
// @Tags jobs
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param job_id path string true "Job ID"
// @Param completion body dto.CompleteJobRequest true "Completion details"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Job is not completable"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id}/complete [post]
func (h *jobHandler) completeJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CompleteJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CompleteJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	job, err := h.completionService.CompleteJob(c.Request.Context(), c.Param("company_id"), c.Param("job_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to complete job")
		return
	}

	logger.Info("Job completed", slog.String("job_id", job.JobID))
	c.JSON(http.StatusOK, dto.JobResponse{Job: *job})
}

// completeVisit godoc
// @Summary Complete a non-billable visit
// @Tags jobs
// @Accept json
// @Produce json
// @Param company_id path string true "Company ID"
// @Param job_id path string true "Job ID"
// @Param visit body dto.CompleteVisitRequest true "Visit outcome"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not a visit or not completable"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/jobs/{job_id}/complete-visit [post]
func (h *jobHandler) completeVisit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CompleteVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	job, err := h.completionService.CompleteVisit(c.Request.Context(), c.Param("company_id"), c.Param("job_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to complete visit")
		return
	}
	c.JSON(http.StatusOK, dto.JobResponse{Job: *job})
}

// getScheduleView godoc
// @Summary Calendar schedule view
// @Description Projects jobs onto calendar days. Jobs crossing midnight appear as two segments sharing the same job ID, the second flagged as a continuation.
// @Tags jobs
// @Produce json
// @Param company_id path string true "Company ID"
// @Param from query string false "Range start (YYYY-MM-DD), default today"
// @Param to query string false "Range end (YYYY-MM-DD), default today+7"
// @Success 200 {array} dto.ScheduleEntry
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/schedule [get]
func (h *jobHandler) getScheduleView(c *gin.Context) {
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

	entries, err := h.schedulingService.GetScheduleView(c.Request.Context(), c.Param("company_id"), from, to, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build schedule view")
		return
	}
	c.JSON(http.StatusOK, entries)
}
