package controller

import (
	"bytes"
	"context"
	"disasterlink-backend/models"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockLogger implements the logger interface for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Info(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Error(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Fatal(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.Called(format, args)
}

func newQuietLogger() *MockLogger {
	l := &MockLogger{}
	l.On("Debug", mock.Anything).Return().Maybe()
	l.On("Debugf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Info", mock.Anything).Return().Maybe()
	l.On("Infof", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Warn", mock.Anything).Return().Maybe()
	l.On("Warnf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Error", mock.Anything, mock.Anything).Return().Maybe()
	l.On("Errorf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	return l
}

// MockTeamService implements the TeamServiceInterface for testing
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) CreateTeam(ctx context.Context, req *models.CreateTeamRequest) (*models.RescueTeam, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RescueTeam), args.Error(1)
}

func (m *MockTeamService) GetTeam(ctx context.Context, teamID string) (*models.RescueTeam, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RescueTeam), args.Error(1)
}

func (m *MockTeamService) GetTeams(ctx context.Context, filter *models.TeamFilter) ([]*models.RescueTeam, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RescueTeam), args.Error(1)
}

func (m *MockTeamService) UpdateTeam(ctx context.Context, teamID string, req *models.UpdateTeamRequest) (*models.RescueTeam, error) {
	args := m.Called(ctx, teamID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RescueTeam), args.Error(1)
}

func (m *MockTeamService) GetRoster(ctx context.Context, teamID string) ([]*models.Rescuer, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Rescuer), args.Error(1)
}

func (m *MockTeamService) AddMember(ctx context.Context, teamID, rescuerID string) (*models.RescueTeam, error) {
	args := m.Called(ctx, teamID, rescuerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RescueTeam), args.Error(1)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, teamID, rescuerID string) (*models.RescueTeam, error) {
	args := m.Called(ctx, teamID, rescuerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RescueTeam), args.Error(1)
}

func (m *MockTeamService) DeleteTeam(ctx context.Context, teamID string) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

// TeamControllerTestSuite defines a test suite for the team HTTP surface
type TeamControllerTestSuite struct {
	suite.Suite
	ctx         context.Context
	mockService *MockTeamService
	router      *gin.Engine
}

func (suite *TeamControllerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.ctx = context.Background()
	suite.mockService = &MockTeamService{}

	controller := NewTeamController(suite.ctx, suite.mockService, newQuietLogger())

	suite.router = gin.New()
	suite.router.POST("/teams", controller.CreateTeam)
	suite.router.GET("/teams", controller.GetTeams)
	suite.router.GET("/teams/:id", controller.GetTeam)
	suite.router.PATCH("/teams/:id", controller.UpdateTeam)
	suite.router.DELETE("/teams/:id", controller.DeleteTeam)
	suite.router.GET("/teams/:id/members", controller.GetRoster)
	suite.router.POST("/teams/:id/members/:memberId", controller.AddMember)
	suite.router.DELETE("/teams/:id/members/:memberId", controller.RemoveMember)
}

func (suite *TeamControllerTestSuite) TearDownTest() {
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *TeamControllerTestSuite) request(method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TeamControllerTestSuite) TestCreateTeam() {
	suite.mockService.On("CreateTeam", mock.Anything, mock.MatchedBy(func(req *models.CreateTeamRequest) bool {
		return req.TeamName == "Alpha" && req.LeaderID == "rescuer-1"
	})).Return(&models.RescueTeam{
		TeamID:   "team-1",
		TeamName: "Alpha",
		LeaderID: "rescuer-1",
		Status:   models.TeamStatusFree,
	}, nil).Once()

	w := suite.request(http.MethodPost, "/teams", `{"teamName":"Alpha","leaderId":"rescuer-1"}`)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "team-1")
	assert.Contains(suite.T(), w.Body.String(), `"status":"success"`)
}

func (suite *TeamControllerTestSuite) TestCreateTeamValidationFailure() {
	w := suite.request(http.MethodPost, "/teams", `{"teamName":"A"}`)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "ValidationError")
	suite.mockService.AssertNotCalled(suite.T(), "CreateTeam", mock.Anything, mock.Anything)
}

func (suite *TeamControllerTestSuite) TestCreateTeamMalformedJSON() {
	w := suite.request(http.MethodPost, "/teams", `{"teamName": `)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TeamControllerTestSuite) TestGetTeam() {
	suite.mockService.On("GetTeam", mock.Anything, "team-1").Return(&models.RescueTeam{
		TeamID:   "team-1",
		TeamName: "Alpha",
	}, nil).Once()

	w := suite.request(http.MethodGet, "/teams/team-1", "")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Alpha")
}

func (suite *TeamControllerTestSuite) TestGetTeamNotFound() {
	suite.mockService.On("GetTeam", mock.Anything, "team-x").Return(nil, fmt.Errorf("team team-x: %w", models.ErrNotFound)).Once()

	w := suite.request(http.MethodGet, "/teams/team-x", "")

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "NotFoundError")
}

func (suite *TeamControllerTestSuite) TestGetTeamsWithStatusFilter() {
	suite.mockService.On("GetTeams", mock.Anything, mock.MatchedBy(func(f *models.TeamFilter) bool {
		return f.Status == models.TeamStatusFree
	})).Return([]*models.RescueTeam{{TeamID: "team-1"}}, nil).Once()

	w := suite.request(http.MethodGet, "/teams?status=Free", "")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *TeamControllerTestSuite) TestGetRoster() {
	suite.mockService.On("GetRoster", mock.Anything, "team-1").Return([]*models.Rescuer{
		{RescuerID: "rescuer-1", Name: "Asha"},
		{RescuerID: "rescuer-2", Name: "Ravi"},
	}, nil).Once()

	w := suite.request(http.MethodGet, "/teams/team-1/members", "")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Asha")
	assert.Contains(suite.T(), w.Body.String(), "Ravi")
}

func (suite *TeamControllerTestSuite) TestUpdateTeam() {
	suite.mockService.On("UpdateTeam", mock.Anything, "team-1", mock.MatchedBy(func(req *models.UpdateTeamRequest) bool {
		return req.TeamName == "Alpha Prime"
	})).Return(&models.RescueTeam{TeamID: "team-1", TeamName: "Alpha Prime"}, nil).Once()

	w := suite.request(http.MethodPatch, "/teams/team-1", `{"teamName":"Alpha Prime"}`)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Alpha Prime")
}

func (suite *TeamControllerTestSuite) TestAddMember() {
	suite.mockService.On("AddMember", mock.Anything, "team-1", "rescuer-9").
		Return(&models.RescueTeam{
			TeamID:    "team-1",
			MemberIDs: []string{"rescuer-1", "rescuer-9"},
		}, nil).Once()

	w := suite.request(http.MethodPost, "/teams/team-1/members/rescuer-9", "")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "rescuer-9")
}

func (suite *TeamControllerTestSuite) TestRemoveMemberLeader() {
	suite.mockService.On("RemoveMember", mock.Anything, "team-1", "rescuer-1").
		Return(nil, fmt.Errorf("rescuer rescuer-1 leads team team-1: %w", models.ErrInvalidState)).Once()

	w := suite.request(http.MethodDelete, "/teams/team-1/members/rescuer-1", "")

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "InvalidStateError")
}

func (suite *TeamControllerTestSuite) TestDeleteTeamWhileAssigned() {
	suite.mockService.On("DeleteTeam", mock.Anything, "team-1").
		Return(fmt.Errorf("team team-1 is currently assigned: %w", models.ErrInvalidState)).Once()

	w := suite.request(http.MethodDelete, "/teams/team-1", "")

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "InvalidStateError")
}

func TestTeamControllerTestSuite(t *testing.T) {
	suite.Run(t, new(TeamControllerTestSuite))
}
