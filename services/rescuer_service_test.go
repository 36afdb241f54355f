package services

import (
	"context"
	"disasterlink-backend/models"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// RescuerServiceTestSuite defines a test suite for RescuerService functions
type RescuerServiceTestSuite struct {
	suite.Suite
	ctx            context.Context
	mockRescuers   *MockRescuerRepository
	rescuerService *RescuerService
}

func (suite *RescuerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRescuers = &MockRescuerRepository{}
	suite.rescuerService = NewRescuerService(suite.mockRescuers, newQuietLogger())
}

func (suite *RescuerServiceTestSuite) TearDownTest() {
	suite.mockRescuers.AssertExpectations(suite.T())
}

func (suite *RescuerServiceTestSuite) TestCreateRescuerNormalizesPhone() {
	suite.mockRescuers.On("CreateRescuer", mock.Anything, mock.MatchedBy(func(r *models.Rescuer) bool {
		return r.RescuerID != "" &&
			r.Name == "Asha" &&
			r.Phone == "919812345678" &&
			r.Status == models.TeamStatusFree
	})).Return(&models.Rescuer{
		RescuerID: "rescuer-1",
		Name:      "Asha",
		Phone:     "919812345678",
		Status:    models.TeamStatusFree,
	}, nil).Once()

	rescuer, err := suite.rescuerService.CreateRescuer(suite.ctx, &models.CreateRescuerRequest{
		Name:  "Asha",
		Phone: " +919812345678 ",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "919812345678", rescuer.Phone)
	assert.Equal(suite.T(), models.TeamStatusFree, rescuer.Status)
}

func (suite *RescuerServiceTestSuite) TestGetRescuersByTeam() {
	suite.mockRescuers.On("GetRescuersByTeam", mock.Anything, "team-1").Return([]*models.Rescuer{
		{RescuerID: "rescuer-1", TeamID: "team-1"},
		{RescuerID: "rescuer-2", TeamID: "team-1"},
	}, nil).Once()

	rescuers, err := suite.rescuerService.GetRescuers(suite.ctx, &models.RescuerFilter{TeamID: "team-1"})

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), rescuers, 2)
	suite.mockRescuers.AssertNotCalled(suite.T(), "GetRescuers", mock.Anything)
}

// Available means not rostered and Free: a rescuer already on a team, or one
// marked Unavailable, never shows up in the available list.
func (suite *RescuerServiceTestSuite) TestGetRescuersAvailableOnly() {
	suite.mockRescuers.On("GetRescuers", mock.Anything).Return([]*models.Rescuer{
		{RescuerID: "rescuer-1", Status: models.TeamStatusFree},
		{RescuerID: "rescuer-2", TeamID: "team-1", Status: models.TeamStatusFree},
		{RescuerID: "rescuer-3", Status: models.TeamStatusUnavailable},
	}, nil).Once()

	rescuers, err := suite.rescuerService.GetRescuers(suite.ctx, &models.RescuerFilter{AvailableOnly: true})

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), rescuers, 1)
	assert.Equal(suite.T(), "rescuer-1", rescuers[0].RescuerID)
}

// Leader location updates flow into the record the incident best-fit scorer
// reads, so both coordinates must be written together.
func (suite *RescuerServiceTestSuite) TestUpdateRescuerLocation() {
	lat, lon := 19.076, 72.8777
	suite.mockRescuers.On("GetRescuer", mock.Anything, "rescuer-1").Return(&models.Rescuer{
		RescuerID: "rescuer-1",
		Name:      "Asha",
	}, nil).Once()
	suite.mockRescuers.On("UpdateRescuerFields", mock.Anything, "rescuer-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["latitude"] == lat && updates["longitude"] == lon
	})).Return(nil).Once()

	rescuer, err := suite.rescuerService.UpdateRescuer(suite.ctx, "rescuer-1", &models.UpdateRescuerRequest{
		Latitude:  &lat,
		Longitude: &lon,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), lat, *rescuer.Latitude)
	assert.Equal(suite.T(), lon, *rescuer.Longitude)
}

func (suite *RescuerServiceTestSuite) TestUpdateRescuerLatitudeAloneIgnored() {
	lat := 19.076
	suite.mockRescuers.On("GetRescuer", mock.Anything, "rescuer-1").Return(&models.Rescuer{
		RescuerID: "rescuer-1",
	}, nil).Once()

	rescuer, err := suite.rescuerService.UpdateRescuer(suite.ctx, "rescuer-1", &models.UpdateRescuerRequest{
		Latitude: &lat,
	})

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), rescuer.Latitude)
	suite.mockRescuers.AssertNotCalled(suite.T(), "UpdateRescuerFields", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RescuerServiceTestSuite) TestDeleteRescuer() {
	suite.mockRescuers.On("GetRescuer", mock.Anything, "rescuer-1").Return(&models.Rescuer{
		RescuerID: "rescuer-1",
	}, nil).Once()
	suite.mockRescuers.On("DeleteRescuer", mock.Anything, "rescuer-1").Return(nil).Once()

	err := suite.rescuerService.DeleteRescuer(suite.ctx, "rescuer-1")

	assert.NoError(suite.T(), err)
}

func (suite *RescuerServiceTestSuite) TestDeleteRescuerStillOnTeamRefused() {
	suite.mockRescuers.On("GetRescuer", mock.Anything, "rescuer-1").Return(&models.Rescuer{
		RescuerID: "rescuer-1",
		TeamID:    "team-1",
	}, nil).Once()

	err := suite.rescuerService.DeleteRescuer(suite.ctx, "rescuer-1")

	assert.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, models.ErrInvalidState))
	suite.mockRescuers.AssertNotCalled(suite.T(), "DeleteRescuer", mock.Anything, mock.Anything)
}

func TestRescuerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RescuerServiceTestSuite))
}
