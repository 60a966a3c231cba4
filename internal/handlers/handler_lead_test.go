package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nexacrm/crm_backend/internal/apperrors"
	"github.com/nexacrm/crm_backend/internal/core/domain"
	portssvc "github.com/nexacrm/crm_backend/internal/core/ports/services"
	"github.com/nexacrm/crm_backend/internal/dto"
	"github.com/nexacrm/crm_backend/internal/middleware"
)

// --- Mock LeadService ---
type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) CreateLead(ctx context.Context, branchID int64, req dto.CreateLeadRequest, actorID int64) (*domain.Lead, error) {
	args := m.Called(ctx, branchID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}
func (m *MockLeadService) GetLead(ctx context.Context, leadID, branchID int64) (*domain.Lead, error) {
	args := m.Called(ctx, leadID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}
func (m *MockLeadService) ListLeads(ctx context.Context, branchID int64, limit, offset int) ([]domain.Lead, error) {
	args := m.Called(ctx, branchID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lead), args.Error(1)
}
func (m *MockLeadService) UpdateLead(ctx context.Context, leadID, branchID int64, req dto.UpdateLeadRequest, actorID int64) (*domain.Lead, error) {
	args := m.Called(ctx, leadID, branchID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}
func (m *MockLeadService) DeleteLead(ctx context.Context, leadID, branchID int64, actorID int64) error {
	args := m.Called(ctx, leadID, branchID, actorID)
	return args.Error(0)
}

var _ portssvc.LeadSvcFacade = (*MockLeadService)(nil)

// --- Mock TaskService ---
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, branchID int64, req dto.CreateTaskRequest, actorID int64) (*domain.Task, error) {
	args := m.Called(ctx, branchID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
func (m *MockTaskService) GetTask(ctx context.Context, taskID, branchID int64) (*domain.Task, error) {
	args := m.Called(ctx, taskID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
func (m *MockTaskService) ListLeadTasks(ctx context.Context, leadID, branchID int64) ([]domain.Task, error) {
	args := m.Called(ctx, leadID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}
func (m *MockTaskService) UpdateTask(ctx context.Context, taskID, branchID int64, req dto.UpdateTaskRequest, actorID int64) (*domain.Task, error) {
	args := m.Called(ctx, taskID, branchID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
func (m *MockTaskService) DeleteTask(ctx context.Context, taskID, branchID int64, actorID int64) error {
	args := m.Called(ctx, taskID, branchID, actorID)
	return args.Error(0)
}

var _ portssvc.TaskSvcFacade = (*MockTaskService)(nil)

// --- Mock CallService ---
type MockCallService struct {
	mock.Mock
}

func (m *MockCallService) CreateCall(ctx context.Context, branchID int64, req dto.CreateCallRequest, actorID int64) (*domain.Call, error) {
	args := m.Called(ctx, branchID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Call), args.Error(1)
}
func (m *MockCallService) GetCall(ctx context.Context, callID, branchID int64) (*domain.Call, error) {
	args := m.Called(ctx, callID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Call), args.Error(1)
}
func (m *MockCallService) ListLeadCalls(ctx context.Context, leadID, branchID int64) ([]domain.Call, error) {
	args := m.Called(ctx, leadID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Call), args.Error(1)
}
func (m *MockCallService) UpdateCall(ctx context.Context, callID, branchID int64, req dto.UpdateCallRequest, actorID int64) (*domain.Call, error) {
	args := m.Called(ctx, callID, branchID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Call), args.Error(1)
}
func (m *MockCallService) DeleteCall(ctx context.Context, callID, branchID int64, actorID int64) error {
	args := m.Called(ctx, callID, branchID, actorID)
	return args.Error(0)
}

var _ portssvc.CallSvcFacade = (*MockCallService)(nil)

// --- Mock ReminderService ---
type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) CreateReminder(ctx context.Context, branchID int64, req dto.CreateReminderRequest, actorID int64) (*domain.Reminder, error) {
	args := m.Called(ctx, branchID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}
func (m *MockReminderService) GetReminder(ctx context.Context, reminderID, branchID int64) (*domain.Reminder, error) {
	args := m.Called(ctx, reminderID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}
func (m *MockReminderService) ListLeadReminders(ctx context.Context, leadID, branchID int64) ([]domain.Reminder, error) {
	args := m.Called(ctx, leadID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reminder), args.Error(1)
}
func (m *MockReminderService) UpdateReminder(ctx context.Context, reminderID, branchID int64, req dto.UpdateReminderRequest, actorID int64) (*domain.Reminder, error) {
	args := m.Called(ctx, reminderID, branchID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}
func (m *MockReminderService) DeleteReminder(ctx context.Context, reminderID, branchID int64, actorID int64) error {
	args := m.Called(ctx, reminderID, branchID, actorID)
	return args.Error(0)
}

var _ portssvc.ReminderSvcFacade = (*MockReminderService)(nil)

// --- Mock ActivityLogService ---
type MockActivityLogService struct {
	mock.Mock
}

func (m *MockActivityLogService) Record(ctx context.Context, tx pgx.Tx, entityID, userID, branchID int64, label string, summary []string) error {
	args := m.Called(ctx, tx, entityID, userID, branchID, label, summary)
	return args.Error(0)
}
func (m *MockActivityLogService) ListEntityLog(ctx context.Context, entityID, branchID int64, limit, offset int) ([]domain.ActivityLogEntry, error) {
	args := m.Called(ctx, entityID, branchID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLogEntry), args.Error(1)
}
func (m *MockActivityLogService) ListBranchLog(ctx context.Context, branchID int64, limit, offset int) ([]domain.ActivityLogEntry, error) {
	args := m.Called(ctx, branchID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLogEntry), args.Error(1)
}

var _ portssvc.ActivityLogSvcFacade = (*MockActivityLogService)(nil)

// --- Mock AuthorizationService ---
type MockAuthorizationService struct {
	mock.Mock
}

func (m *MockAuthorizationService) ResolvePermissions(ctx context.Context, userID, branchID int64) (domain.PermissionSet, error) {
	args := m.Called(ctx, userID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.PermissionSet), args.Error(1)
}
func (m *MockAuthorizationService) RequirePermission(ctx context.Context, userID, branchID int64, module string, action domain.PermissionAction) error {
	args := m.Called(ctx, userID, branchID, module, action)
	return args.Error(0)
}

var _ portssvc.AuthorizationSvcFacade = (*MockAuthorizationService)(nil)

// --- Test Suite ---
type LeadHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockLeadService     *MockLeadService
	mockTaskService     *MockTaskService
	mockCallService     *MockCallService
	mockReminderService *MockReminderService
	mockLogService      *MockActivityLogService
	mockAuthz           *MockAuthorizationService
	jwtSecret           string
}

func (suite *LeadHandlerTestSuite) generateTestToken(userID int64) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "crm-test",
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *LeadHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockLeadService = new(MockLeadService)
	suite.mockTaskService = new(MockTaskService)
	suite.mockCallService = new(MockCallService)
	suite.mockReminderService = new(MockReminderService)
	suite.mockLogService = new(MockActivityLogService)
	suite.mockAuthz = new(MockAuthorizationService)

	v1 := suite.router.Group("/api/v1")
	registerLeadRoutes(v1, suite.mockLeadService, suite.mockTaskService, suite.mockCallService, suite.mockReminderService, suite.mockLogService, suite.mockAuthz)
}

func (suite *LeadHandlerTestSuite) doRequest(method, url string, body []byte, userID, branchID int64) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("X-Branch-ID", strconv.FormatInt(branchID, 10))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LeadHandlerTestSuite) TestGetLead_Success() {
	userID := int64(10)
	branchID := int64(5)
	stageID := int64(2)
	lead := &domain.Lead{
		ID:             77,
		BranchID:       branchID,
		Name:           "Acme Industries",
		Phone:          "555-0100",
		LeadStageID:    &stageID,
		EstimatedValue: decimal.NewFromInt(12000),
	}

	suite.mockAuthz.On("RequirePermission", mock.Anything, userID, branchID, "Leads", domain.ActionView).
		Return(nil).Once()
	suite.mockLeadService.On("GetLead", mock.Anything, int64(77), branchID).
		Return(lead, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/leads/77", nil, userID, branchID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.Envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("true", resp.Status)
	data, ok := resp.Data.(map[string]any)
	suite.Require().True(ok)
	suite.Equal("Acme Industries", data["name"])
	suite.mockLeadService.AssertExpectations(suite.T())
	suite.mockAuthz.AssertExpectations(suite.T())
}

func (suite *LeadHandlerTestSuite) TestGetLead_Forbidden() {
	userID := int64(10)
	branchID := int64(5)

	suite.mockAuthz.On("RequirePermission", mock.Anything, userID, branchID, "Leads", domain.ActionView).
		Return(apperrors.NewForbiddenError("missing permission: Leads:view")).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/leads/77", nil, userID, branchID)

	suite.Equal(http.StatusForbidden, w.Code)
	var resp dto.Envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("false", resp.Status)
	suite.Contains(resp.Message, "Leads:view")
	suite.mockLeadService.AssertNotCalled(suite.T(), "GetLead", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LeadHandlerTestSuite) TestGetLead_MissingBranchHeader() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/leads/77", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(10))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAuthz.AssertNotCalled(suite.T(), "RequirePermission",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LeadHandlerTestSuite) TestGetLead_NoToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/leads/77", nil)
	req.Header.Set("X-Branch-ID", "5")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *LeadHandlerTestSuite) TestCreateLead_Success() {
	userID := int64(10)
	branchID := int64(5)

	body, _ := json.Marshal(dto.CreateLeadRequest{Name: "Acme Industries", Phone: "555-0100"})

	suite.mockAuthz.On("RequirePermission", mock.Anything, userID, branchID, "Leads", domain.ActionCreate).
		Return(nil).Once()
	suite.mockLeadService.On("CreateLead", mock.Anything, branchID,
		mock.MatchedBy(func(req dto.CreateLeadRequest) bool { return req.Name == "Acme Industries" }),
		userID,
	).Return(&domain.Lead{ID: 77, BranchID: branchID, Name: "Acme Industries", Phone: "555-0100"}, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/leads", body, userID, branchID)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.Envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("true", resp.Status)
	suite.mockLeadService.AssertExpectations(suite.T())
}

func (suite *LeadHandlerTestSuite) TestUpdateLead_NotFound() {
	userID := int64(10)
	branchID := int64(5)

	body, _ := json.Marshal(dto.UpdateLeadRequest{})

	suite.mockAuthz.On("RequirePermission", mock.Anything, userID, branchID, "Leads", domain.ActionUpdate).
		Return(nil).Once()
	suite.mockLeadService.On("UpdateLead", mock.Anything, int64(404), branchID, mock.Anything, userID).
		Return(nil, apperrors.NewNotFoundError("lead not found")).Once()

	w := suite.doRequest(http.MethodPut, "/api/v1/leads/404", body, userID, branchID)

	suite.Equal(http.StatusNotFound, w.Code)
	var resp dto.Envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("false", resp.Status)
}

func (suite *LeadHandlerTestSuite) TestListLeadLogs_RenderedEntries() {
	userID := int64(10)
	branchID := int64(5)

	entries := []domain.ActivityLogEntry{
		{
			ID:        1,
			EntityID:  77,
			UserID:    userID,
			BranchID:  branchID,
			FieldName: "lead stage id",
			Summary:   []string{"Updated **lead stage id** from *New* to *Contacted*"},
			CreatedAt: time.Now(),
		},
	}

	suite.mockAuthz.On("RequirePermission", mock.Anything, userID, branchID, "Leads", domain.ActionView).
		Return(nil).Once()
	suite.mockLogService.On("ListEntityLog", mock.Anything, int64(77), branchID, 20, 0).
		Return(entries, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/leads/77/logs", nil, userID, branchID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.Envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("true", resp.Status)
	suite.mockLogService.AssertExpectations(suite.T())
}

func (suite *LeadHandlerTestSuite) TestListLeads_PaginationDefaults() {
	userID := int64(10)
	branchID := int64(5)

	suite.mockAuthz.On("RequirePermission", mock.Anything, userID, branchID, "Leads", domain.ActionView).
		Return(nil).Once()
	suite.mockLeadService.On("ListLeads", mock.Anything, branchID, 20, 0).
		Return([]domain.Lead{}, nil).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/leads?limit=%d", -3), nil, userID, branchID)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLeadService.AssertExpectations(suite.T())
}

func TestLeadHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LeadHandlerTestSuite))
}
