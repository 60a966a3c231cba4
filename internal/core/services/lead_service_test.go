package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/core/services"
	"github.com/nexacrm/crm_backend/internal/dto"
)

type LeadServiceTestSuite struct {
	suite.Suite
	mockLeadRepo  *MockLeadRepository
	mockLogWriter *MockActivityLogWriter
	service       portssvc.LeadSvcFacade
}

func (suite *LeadServiceTestSuite) SetupTest() {
	suite.mockLeadRepo = new(MockLeadRepository)
	suite.mockLogWriter = new(MockActivityLogWriter)
	suite.service = services.NewLeadService(suite.mockLeadRepo, suite.mockLogWriter)
}

func (suite *LeadServiceTestSuite) expectTx() {
	suite.mockLeadRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockLeadRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockLeadRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// Creation logs exactly one summary line naming the lead, regardless of how
// many optional fields the request populated.
func (suite *LeadServiceTestSuite) TestCreateLead_LogsSingleSummaryLine() {
	ctx := context.Background()
	stageID := int64(2)

	suite.expectTx()
	suite.mockLeadRepo.SaveLeadInTxFn = func(ctx context.Context, tx pgx.Tx, lead *domain.Lead) error {
		lead.ID = 9
		return nil
	}

	var loggedLabel string
	var loggedSummary []string
	suite.mockLogWriter.RecordFn = func(ctx context.Context, tx pgx.Tx, entityID, userID, branchID int64, label string, summary []string) error {
		suite.Equal(int64(9), entityID)
		suite.Equal(int64(3), branchID)
		loggedLabel = label
		loggedSummary = summary
		return nil
	}

	lead, err := suite.service.CreateLead(ctx, 3, dto.CreateLeadRequest{
		Name:        "Acme Industries",
		Phone:       "555-0100",
		LeadStageID: &stageID,
	}, 7)

	suite.Require().NoError(err)
	suite.Equal(int64(9), lead.ID)
	suite.Equal("Lead Created", loggedLabel)
	suite.Equal([]string{"Added **name** *Acme Industries*"}, loggedSummary)
}

// An update whose values all match the stored lead writes nothing: no
// transaction, no row update, no log entry.
func (suite *LeadServiceTestSuite) TestUpdateLead_NoOpPersistsNothing() {
	ctx := context.Background()
	name := "Acme Industries"

	stored := &domain.Lead{ID: 9, BranchID: 3, Name: name, EstimatedValue: decimal.Zero}
	suite.mockLeadRepo.On("FindLeadByID", ctx, int64(9), int64(3)).Return(stored, nil).Once()

	lead, err := suite.service.UpdateLead(ctx, 9, 3, dto.UpdateLeadRequest{Name: &name}, 7)

	suite.Require().NoError(err)
	suite.Equal(stored, lead)
	suite.mockLeadRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockLeadRepo.AssertNotCalled(suite.T(), "UpdateLeadInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockLogWriter.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Timestamps are compared at whole-second precision, so a request differing
// from the stored value only by sub-second noise is still a no-op.
func (suite *LeadServiceTestSuite) TestUpdateLead_SubSecondStartTimeIsNoOp() {
	ctx := context.Background()

	storedStart := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
	stored := &domain.Lead{ID: 9, BranchID: 3, Name: "Acme", StartTime: &storedStart, EstimatedValue: decimal.Zero}
	suite.mockLeadRepo.On("FindLeadByID", ctx, int64(9), int64(3)).Return(stored, nil).Once()

	requested := storedStart.Add(300 * time.Millisecond)
	lead, err := suite.service.UpdateLead(ctx, 9, 3, dto.UpdateLeadRequest{StartTime: &requested}, 7)

	suite.Require().NoError(err)
	suite.Equal(stored, lead)
	suite.mockLeadRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *LeadServiceTestSuite) TestUpdateLead_SingleFieldLabel() {
	ctx := context.Background()
	oldStage, newStage := int64(1), int64(2)

	stored := &domain.Lead{ID: 9, BranchID: 3, Name: "Acme", LeadStageID: &oldStage, EstimatedValue: decimal.Zero}
	suite.mockLeadRepo.On("FindLeadByID", ctx, int64(9), int64(3)).Return(stored, nil).Once()
	suite.expectTx()
	suite.mockLeadRepo.On("UpdateLeadInTx", ctx, mock.Anything, mock.MatchedBy(func(lead *domain.Lead) bool {
		return lead.LeadStageID != nil && *lead.LeadStageID == newStage && lead.LastUpdatedBy == 7
	})).Return(nil).Once()
	suite.mockLogWriter.On("Record", ctx, mock.Anything, int64(9), int64(7), int64(3),
		"lead stage id", []string{"Updated **lead stage id** from *1* to *2*"}).Return(nil).Once()

	_, err := suite.service.UpdateLead(ctx, 9, 3, dto.UpdateLeadRequest{LeadStageID: &newStage}, 7)

	suite.Require().NoError(err)
	suite.mockLogWriter.AssertExpectations(suite.T())
}

func (suite *LeadServiceTestSuite) TestUpdateLead_MultiFieldLabel() {
	ctx := context.Background()
	newName := "Acme International"
	newNotes := "renewal discussion"

	stored := &domain.Lead{ID: 9, BranchID: 3, Name: "Acme", EstimatedValue: decimal.Zero}
	suite.mockLeadRepo.On("FindLeadByID", ctx, int64(9), int64(3)).Return(stored, nil).Once()
	suite.expectTx()
	suite.mockLeadRepo.On("UpdateLeadInTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockLogWriter.On("Record", ctx, mock.Anything, int64(9), int64(7), int64(3),
		"Lead Details Updated", []string{
			"Updated **name** from *Acme* to *Acme International*",
			"Added **notes** *renewal discussion*",
		}).Return(nil).Once()

	_, err := suite.service.UpdateLead(ctx, 9, 3, dto.UpdateLeadRequest{Name: &newName, Notes: &newNotes}, 7)

	suite.Require().NoError(err)
	suite.mockLogWriter.AssertExpectations(suite.T())
}

func (suite *LeadServiceTestSuite) TestDeleteLead_LogsRemoval() {
	ctx := context.Background()

	stored := &domain.Lead{ID: 9, BranchID: 3, Name: "Acme", EstimatedValue: decimal.Zero}
	suite.mockLeadRepo.On("FindLeadByID", ctx, int64(9), int64(3)).Return(stored, nil).Once()
	suite.expectTx()
	suite.mockLeadRepo.On("DeleteLeadInTx", ctx, mock.Anything, int64(9), int64(3)).Return(nil).Once()
	suite.mockLogWriter.On("Record", ctx, mock.Anything, int64(9), int64(7), int64(3),
		"Lead Deleted", []string{"Removed **name** *Acme*"}).Return(nil).Once()

	err := suite.service.DeleteLead(ctx, 9, 3, 7)

	suite.Require().NoError(err)
	suite.mockLogWriter.AssertExpectations(suite.T())
}

func TestLeadServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LeadServiceTestSuite))
}
