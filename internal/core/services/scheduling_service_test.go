package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tidyops/cleanops_backend/internal/apperrors"
	"github.com/tidyops/cleanops_backend/internal/core/domain"
	portssvc "github.com/tidyops/cleanops_backend/internal/core/ports/services"
	"github.com/tidyops/cleanops_backend/internal/core/services"
	"github.com/tidyops/cleanops_backend/internal/dto"
)

type SchedulingServiceTestSuite struct {
	suite.Suite
	mockJobRepo     *MockJobRepository
	mockClientRepo  *MockClientRepository
	mockAbsenceRepo *MockAbsenceRepository
	activity        *recordingActivity
	notifier        *recordingNotifier
	service         portssvc.SchedulingSvcFacade

	companyID string
	managerID string
	cleanerID string
	clientID  string
}

func (suite *SchedulingServiceTestSuite) SetupTest() {
	suite.mockJobRepo = new(MockJobRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockAbsenceRepo = new(MockAbsenceRepository)
	suite.activity = new(recordingActivity)
	suite.notifier = new(recordingNotifier)
	suite.companyID = uuid.NewString()
	suite.managerID = uuid.NewString()
	suite.cleanerID = uuid.NewString()
	suite.clientID = uuid.NewString()

	authorizer := &stubAuthorizer{}
	suite.service = services.NewSchedulingService(
		suite.mockJobRepo, suite.mockClientRepo, suite.mockAbsenceRepo,
		authorizer, suite.activity, suite.notifier,
	)
}

func (suite *SchedulingServiceTestSuite) activeClient() *domain.Client {
	return &domain.Client{
		ClientID:       suite.clientID,
		CompanyID:      suite.companyID,
		Name:           "Maple Dental",
		Email:          "office@mapledental.example",
		ContractStatus: domain.ContractActive,
	}
}

func (suite *SchedulingServiceTestSuite) billableRequest() dto.CreateJobRequest {
	return dto.CreateJobRequest{
		OperationType: string(domain.OperationBillableService),
		ClientID:      &suite.clientID,
		EmployeeID:    &suite.cleanerID,
		ScheduledDate: "2026-09-14",
		StartTime:     "09:00",
		Duration:      "2h",
	}
}

func (suite *SchedulingServiceTestSuite) TestCreateJob_Success() {
	ctx := context.Background()
	req := suite.billableRequest()

	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(suite.activeClient(), nil).Once()
	suite.mockAbsenceRepo.On("FindApprovedAbsence", ctx, suite.companyID, suite.cleanerID, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockJobRepo.On("SaveJobGuarded", ctx, mock.MatchedBy(func(job domain.Job) bool {
		return job.CompanyID == suite.companyID &&
			job.Status == domain.JobScheduled &&
			job.StartMinute == 9*60 &&
			job.DurationMinutes == 120 &&
			job.JobType == domain.JobTypeCleaning
	})).Return(nil).Once()

	job, err := suite.service.CreateJob(ctx, suite.companyID, req, suite.managerID)

	suite.Require().NoError(err)
	suite.Require().NotNil(job)
	suite.NotEmpty(job.JobID)
	suite.Equal(domain.JobScheduled, job.Status)
	suite.Len(suite.activity.Entries, 1)
	suite.Equal(domain.ActionJobCreated, suite.activity.Entries[0].Action)
	// The assigned cleaner hears about the new job.
	suite.Require().Len(suite.notifier.UserNotices, 1)
	suite.Equal(suite.cleanerID, *suite.notifier.UserNotices[0].UserID)
	suite.mockJobRepo.AssertExpectations(suite.T())
}

func (suite *SchedulingServiceTestSuite) TestCreateJob_BillableRequiresClient() {
	ctx := context.Background()
	req := suite.billableRequest()
	req.ClientID = nil

	job, err := suite.service.CreateJob(ctx, suite.companyID, req, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(job)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "SaveJobGuarded", mock.Anything, mock.Anything)
}

func (suite *SchedulingServiceTestSuite) TestCreateJob_BillableRequiresEmployee() {
	ctx := context.Background()
	req := suite.billableRequest()
	req.EmployeeID = nil

	_, err := suite.service.CreateJob(ctx, suite.companyID, req, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SchedulingServiceTestSuite) TestCreateJob_InternalWorkRejectsClient() {
	ctx := context.Background()
	req := dto.CreateJobRequest{
		OperationType: string(domain.OperationInternalWork),
		ActivityCode:  "EQUIPMENT_MAINTENANCE",
		ClientID:      &suite.clientID,
		ScheduledDate: "2026-09-14",
		StartTime:     "09:00",
	}

	_, err := suite.service.CreateJob(ctx, suite.companyID, req, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SchedulingServiceTestSuite) TestCreateJob_InternalWorkRequiresActivityCode() {
	ctx := context.Background()
	req := dto.CreateJobRequest{
		OperationType: string(domain.OperationInternalWork),
		ScheduledDate: "2026-09-14",
		StartTime:     "09:00",
	}

	_, err := suite.service.CreateJob(ctx, suite.companyID, req, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SchedulingServiceTestSuite) TestCreateJob_SuspendedContractRejected() {
	ctx := context.Background()
	req := suite.billableRequest()
	client := suite.activeClient()
	client.ContractStatus = domain.ContractSuspended

	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(client, nil).Once()

	job, err := suite.service.CreateJob(ctx, suite.companyID, req, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(job)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "SaveJobGuarded", mock.Anything, mock.Anything)
	suite.Empty(suite.activity.Entries)
}

func (suite *SchedulingServiceTestSuite) TestCreateJob_ApprovedAbsenceRejected() {
	ctx := context.Background()
	req := suite.billableRequest()
	absence := &domain.AbsenceRequest{
		AbsenceID:  uuid.NewString(),
		EmployeeID: suite.cleanerID,
		Status:     domain.AbsenceApproved,
	}

	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(suite.activeClient(), nil).Once()
	suite.mockAbsenceRepo.On("FindApprovedAbsence", ctx, suite.companyID, suite.cleanerID, mock.AnythingOfType("time.Time")).Return(absence, nil).Once()

	_, err := suite.service.CreateJob(ctx, suite.companyID, req, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "SaveJobGuarded", mock.Anything, mock.Anything)
}

func (suite *SchedulingServiceTestSuite) TestCreateJob_OverlapConflictFromGuard() {
	ctx := context.Background()
	req := suite.billableRequest()

	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(suite.activeClient(), nil).Once()
	suite.mockAbsenceRepo.On("FindApprovedAbsence", ctx, suite.companyID, suite.cleanerID, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockJobRepo.On("SaveJobGuarded", ctx, mock.AnythingOfType("domain.Job")).Return(apperrors.ErrConflict).Once()

	job, err := suite.service.CreateJob(ctx, suite.companyID, req, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(job)
	// A rejected schedule leaves no trace.
	suite.Empty(suite.activity.Entries)
	suite.Empty(suite.notifier.UserNotices)
}

func (suite *SchedulingServiceTestSuite) TestCreateJob_BadScheduledDate() {
	ctx := context.Background()
	req := suite.billableRequest()
	req.ScheduledDate = "14/09/2026"

	_, err := suite.service.CreateJob(ctx, suite.companyID, req, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SchedulingServiceTestSuite) TestUpdateJob_CompletedJobRejected() {
	ctx := context.Background()
	jobID := uuid.NewString()
	job := &domain.Job{
		JobID:         jobID,
		CompanyID:     suite.companyID,
		OperationType: domain.OperationBillableService,
		Status:        domain.JobCompleted,
	}
	notes := "move to monday"

	suite.mockJobRepo.On("FindJobByID", ctx, suite.companyID, jobID).Return(job, nil).Once()

	_, err := suite.service.UpdateJob(ctx, suite.companyID, jobID, dto.UpdateJobRequest{Notes: &notes}, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "UpdateJobGuarded", mock.Anything, mock.Anything)
}

func (suite *SchedulingServiceTestSuite) TestUpdateJob_RescheduleSuccess() {
	ctx := context.Background()
	jobID := uuid.NewString()
	job := &domain.Job{
		JobID:           jobID,
		CompanyID:       suite.companyID,
		OperationType:   domain.OperationBillableService,
		ClientID:        &suite.clientID,
		EmployeeID:      &suite.cleanerID,
		ScheduledDate:   time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartMinute:     9 * 60,
		DurationMinutes: 120,
		Status:          domain.JobScheduled,
	}
	newDate := "2026-09-15"
	newStart := "13:30"

	suite.mockJobRepo.On("FindJobByID", ctx, suite.companyID, jobID).Return(job, nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, suite.companyID, suite.clientID).Return(suite.activeClient(), nil).Once()
	suite.mockAbsenceRepo.On("FindApprovedAbsence", ctx, suite.companyID, suite.cleanerID, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockJobRepo.On("UpdateJobGuarded", ctx, mock.MatchedBy(func(updated domain.Job) bool {
		return updated.JobID == jobID &&
			updated.ScheduledDate.Equal(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)) &&
			updated.StartMinute == 13*60+30
	})).Return(nil).Once()

	updated, err := suite.service.UpdateJob(ctx, suite.companyID, jobID, dto.UpdateJobRequest{
		ScheduledDate: &newDate,
		StartTime:     &newStart,
	}, suite.managerID)

	suite.Require().NoError(err)
	suite.Equal(13*60+30, updated.StartMinute)
	suite.mockJobRepo.AssertExpectations(suite.T())
}

func (suite *SchedulingServiceTestSuite) TestCancelJob_Success() {
	ctx := context.Background()
	jobID := uuid.NewString()
	job := &domain.Job{
		JobID:         jobID,
		CompanyID:     suite.companyID,
		OperationType: domain.OperationBillableService,
		EmployeeID:    &suite.cleanerID,
		ScheduledDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Status:        domain.JobScheduled,
	}

	suite.mockJobRepo.On("FindJobByID", ctx, suite.companyID, jobID).Return(job, nil).Once()
	suite.mockJobRepo.On("UpdateJobStatus", ctx, suite.companyID, jobID, domain.JobCancelled, suite.managerID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.CancelJob(ctx, suite.companyID, jobID, suite.managerID)

	suite.Require().NoError(err)
	suite.Require().Len(suite.notifier.UserNotices, 1)
	suite.Equal("Job cancelled", suite.notifier.UserNotices[0].Title)
	suite.mockJobRepo.AssertExpectations(suite.T())
}

func (suite *SchedulingServiceTestSuite) TestCancelJob_AlreadyCancelled() {
	ctx := context.Background()
	jobID := uuid.NewString()
	job := &domain.Job{JobID: jobID, CompanyID: suite.companyID, Status: domain.JobCancelled}

	suite.mockJobRepo.On("FindJobByID", ctx, suite.companyID, jobID).Return(job, nil).Once()

	err := suite.service.CancelJob(ctx, suite.companyID, jobID, suite.managerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *SchedulingServiceTestSuite) TestGetScheduleView_SplitsMidnightCrossing() {
	ctx := context.Background()
	from := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	// 23:00 for three hours: one hour on the 14th, two on the 15th.
	job := domain.Job{
		JobID:           uuid.NewString(),
		CompanyID:       suite.companyID,
		OperationType:   domain.OperationBillableService,
		ScheduledDate:   time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartMinute:     23 * 60,
		DurationMinutes: 180,
		Status:          domain.JobScheduled,
	}

	suite.mockJobRepo.On("ListJobsByCompany", ctx, suite.companyID, mock.AnythingOfType("time.Time"), to, (*string)(nil), 1000, (*string)(nil)).
		Return([]domain.Job{job}, nil, nil).Once()

	entries, err := suite.service.GetScheduleView(ctx, suite.companyID, from, to, suite.managerID)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Equal(job.JobID, entries[0].JobID)
	suite.Equal(job.JobID, entries[1].JobID)
	suite.Equal("23:00", entries[0].StartTime)
	suite.Equal("00:00", entries[0].EndTime)
	suite.False(entries[0].Continuation)
	suite.Equal("00:00", entries[1].StartTime)
	suite.Equal("02:00", entries[1].EndTime)
	suite.True(entries[1].Continuation)
	suite.Equal(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), entries[1].Date)
}

func (suite *SchedulingServiceTestSuite) TestGetScheduleView_SkipsCancelled() {
	ctx := context.Background()
	from := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	job := domain.Job{
		JobID:           uuid.NewString(),
		CompanyID:       suite.companyID,
		ScheduledDate:   from,
		StartMinute:     600,
		DurationMinutes: 60,
		Status:          domain.JobCancelled,
	}

	suite.mockJobRepo.On("ListJobsByCompany", ctx, suite.companyID, mock.AnythingOfType("time.Time"), to, (*string)(nil), 1000, (*string)(nil)).
		Return([]domain.Job{job}, nil, nil).Once()

	entries, err := suite.service.GetScheduleView(ctx, suite.companyID, from, to, suite.managerID)

	suite.Require().NoError(err)
	suite.Empty(entries)
}

func (suite *SchedulingServiceTestSuite) TestListJobs_NilBecomesEmpty() {
	ctx := context.Background()
	from := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	suite.mockJobRepo.On("ListJobsByCompany", ctx, suite.companyID, from, to, (*string)(nil), 50, (*string)(nil)).
		Return(nil, nil, nil).Once()

	jobs, token, err := suite.service.ListJobs(ctx, suite.companyID, from, to, nil, 50, nil, suite.managerID)

	suite.Require().NoError(err)
	suite.NotNil(jobs)
	suite.Empty(jobs)
	suite.Nil(token)
}

func TestSchedulingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulingServiceTestSuite))
}
