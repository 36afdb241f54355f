package services

import (
	"context"
	"disasterlink-backend/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// TeamServiceTestSuite defines a test suite for TeamService functions
type TeamServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	mockTeams    *MockTeamRepository
	mockRescuers *MockRescuerRepository
	teamService  *TeamService
}

func (suite *TeamServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockTeams = &MockTeamRepository{}
	suite.mockRescuers = &MockRescuerRepository{}
	suite.teamService = NewTeamService(suite.mockTeams, suite.mockRescuers, newQuietLogger())
}

func (suite *TeamServiceTestSuite) TearDownTest() {
	suite.mockTeams.AssertExpectations(suite.T())
	suite.mockRescuers.AssertExpectations(suite.T())
}

// The leader is always part of the member set, whether or not the request
// listed them.
func (suite *TeamServiceTestSuite) TestCreateTeamLeaderJoinsMembers() {
	req := &models.CreateTeamRequest{
		TeamName:  "Alpha",
		LeaderID:  "rescuer-1",
		MemberIDs: []string{"rescuer-2", "rescuer-3"},
	}

	suite.mockTeams.On("CreateTeam", mock.Anything, mock.MatchedBy(func(team *models.RescueTeam) bool {
		return team.TeamName == "Alpha" &&
			team.Status == models.TeamStatusFree &&
			len(team.MemberIDs) == 3 &&
			team.MemberIDs[2] == "rescuer-1"
	})).Return(&models.RescueTeam{
		TeamID:    "team-1",
		TeamName:  "Alpha",
		LeaderID:  "rescuer-1",
		MemberIDs: []string{"rescuer-2", "rescuer-3", "rescuer-1"},
		Status:    models.TeamStatusFree,
	}, nil).Once()
	suite.mockRescuers.On("UpdateRescuerFields", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil).Times(3)

	team, err := suite.teamService.CreateTeam(suite.ctx, req)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, team.TeamSize())
	assert.Contains(suite.T(), team.MemberIDs, "rescuer-1")
}

func (suite *TeamServiceTestSuite) TestCreateTeamLeaderAlreadyListed() {
	req := &models.CreateTeamRequest{
		TeamName:  "Bravo",
		LeaderID:  "rescuer-1",
		MemberIDs: []string{"rescuer-1", "rescuer-2"},
	}

	suite.mockTeams.On("CreateTeam", mock.Anything, mock.MatchedBy(func(team *models.RescueTeam) bool {
		return len(team.MemberIDs) == 2
	})).Return(&models.RescueTeam{
		TeamID:    "team-2",
		MemberIDs: []string{"rescuer-1", "rescuer-2"},
	}, nil).Once()
	suite.mockRescuers.On("UpdateRescuerFields", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil).Times(2)

	team, err := suite.teamService.CreateTeam(suite.ctx, req)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), team.MemberIDs, 2)
}

// Rescuer tagging is best-effort: a failed stamp never fails the create.
func (suite *TeamServiceTestSuite) TestCreateTeamTaggingFailureIgnored() {
	req := &models.CreateTeamRequest{
		TeamName: "Charlie",
		LeaderID: "rescuer-1",
	}

	suite.mockTeams.On("CreateTeam", mock.Anything, mock.Anything).Return(&models.RescueTeam{
		TeamID:    "team-3",
		MemberIDs: []string{"rescuer-1"},
	}, nil).Once()
	suite.mockRescuers.On("UpdateRescuerFields", mock.Anything, "rescuer-1", mock.Anything).Return(models.ErrNotFound).Once()

	team, err := suite.teamService.CreateTeam(suite.ctx, req)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "team-3", team.TeamID)
}

func (suite *TeamServiceTestSuite) TestUpdateTeamName() {
	existing := &models.RescueTeam{
		TeamID:    "team-1",
		TeamName:  "Alpha",
		LeaderID:  "rescuer-1",
		MemberIDs: []string{"rescuer-1"},
		Status:    models.TeamStatusFree,
	}

	suite.mockTeams.On("GetTeam", mock.Anything, "team-1").Return(existing, nil).Once()
	suite.mockTeams.On("UpdateTeamFields", mock.Anything, "team-1", mock.MatchedBy(func(u map[string]interface{}) bool {
		_, touchesStatus := u["status"]
		return u["teamName"] == "Alpha Prime" && !touchesStatus
	})).Return(nil).Once()
	suite.mockRescuers.On("UpdateRescuerFields", mock.Anything, "rescuer-1", mock.Anything).Return(nil).Once()

	team, err := suite.teamService.UpdateTeam(suite.ctx, "team-1", &models.UpdateTeamRequest{TeamName: "Alpha Prime"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Alpha Prime", team.TeamName)
}

func (suite *TeamServiceTestSuite) TestUpdateTeamNewLeaderJoinsMembers() {
	existing := &models.RescueTeam{
		TeamID:    "team-1",
		TeamName:  "Alpha",
		LeaderID:  "rescuer-1",
		MemberIDs: []string{"rescuer-1", "rescuer-2"},
		Status:    models.TeamStatusFree,
	}

	suite.mockTeams.On("GetTeam", mock.Anything, "team-1").Return(existing, nil).Once()
	suite.mockTeams.On("UpdateTeamFields", mock.Anything, "team-1", mock.MatchedBy(func(u map[string]interface{}) bool {
		members, ok := u["memberIds"].([]string)
		return ok && u["leaderId"] == "rescuer-9" && len(members) == 3
	})).Return(nil).Once()
	suite.mockRescuers.On("UpdateRescuerFields", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil).Times(3)

	team, err := suite.teamService.UpdateTeam(suite.ctx, "team-1", &models.UpdateTeamRequest{LeaderID: "rescuer-9"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "rescuer-9", team.LeaderID)
	assert.Contains(suite.T(), team.MemberIDs, "rescuer-9")
}

func (suite *TeamServiceTestSuite) TestUpdateTeamNoChanges() {
	existing := &models.RescueTeam{TeamID: "team-1", TeamName: "Alpha", LeaderID: "rescuer-1"}

	suite.mockTeams.On("GetTeam", mock.Anything, "team-1").Return(existing, nil).Once()

	team, err := suite.teamService.UpdateTeam(suite.ctx, "team-1", &models.UpdateTeamRequest{})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Alpha", team.TeamName)
}

// Roster order follows the member list; missing rescuer records are skipped
// rather than failing the whole lookup.
func (suite *TeamServiceTestSuite) TestGetRoster() {
	suite.mockTeams.On("GetTeam", mock.Anything, "team-1").Return(&models.RescueTeam{
		TeamID:    "team-1",
		LeaderID:  "rescuer-1",
		MemberIDs: []string{"rescuer-2", "rescuer-1", "rescuer-9"},
	}, nil).Once()
	suite.mockRescuers.On("GetRescuersByIDs", mock.Anything, []string{"rescuer-2", "rescuer-1", "rescuer-9"}).Return(map[string]*models.Rescuer{
		"rescuer-1": {RescuerID: "rescuer-1", Name: "Asha"},
		"rescuer-2": {RescuerID: "rescuer-2", Name: "Ravi"},
	}, nil).Once()

	roster, err := suite.teamService.GetRoster(suite.ctx, "team-1")

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), roster, 2)
	assert.Equal(suite.T(), "rescuer-2", roster[0].RescuerID)
	assert.Equal(suite.T(), "rescuer-1", roster[1].RescuerID)
}

func (suite *TeamServiceTestSuite) TestAddMember() {
	suite.mockTeams.On("GetTeam", mock.Anything, "team-1").Return(&models.RescueTeam{
		TeamID:    "team-1",
		TeamName:  "Alpha",
		LeaderID:  "rescuer-1",
		MemberIDs: []string{"rescuer-1"},
	}, nil).Once()
	suite.mockTeams.On("UpdateTeamFields", mock.Anything, "team-1", mock.MatchedBy(func(u map[string]interface{}) bool {
		members, ok := u["memberIds"].([]string)
		return ok && len(members) == 2 && members[1] == "rescuer-9"
	})).Return(nil).Once()
	suite.mockRescuers.On("UpdateRescuerFields", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil).Times(2)

	team, err := suite.teamService.AddMember(suite.ctx, "team-1", "rescuer-9")

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), team.MemberIDs, "rescuer-9")
}

// Adding a rescuer who is already on the roster changes nothing.
func (suite *TeamServiceTestSuite) TestAddMemberAlreadyOnRoster() {
	suite.mockTeams.On("GetTeam", mock.Anything, "team-1").Return(&models.RescueTeam{
		TeamID:    "team-1",
		LeaderID:  "rescuer-1",
		MemberIDs: []string{"rescuer-1", "rescuer-2"},
	}, nil).Once()

	team, err := suite.teamService.AddMember(suite.ctx, "team-1", "rescuer-2")

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), team.MemberIDs, 2)
	suite.mockTeams.AssertNotCalled(suite.T(), "UpdateTeamFields", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TeamServiceTestSuite) TestRemoveMember() {
	suite.mockTeams.On("GetTeam", mock.Anything, "team-1").Return(&models.RescueTeam{
		TeamID:    "team-1",
		LeaderID:  "rescuer-1",
		MemberIDs: []string{"rescuer-1", "rescuer-2"},
	}, nil).Once()
	suite.mockTeams.On("UpdateTeamFields", mock.Anything, "team-1", mock.MatchedBy(func(u map[string]interface{}) bool {
		members, ok := u["memberIds"].([]string)
		return ok && len(members) == 1 && members[0] == "rescuer-1"
	})).Return(nil).Once()
	suite.mockRescuers.On("UpdateRescuerFields", mock.Anything, "rescuer-2", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["teamId"] == ""
	})).Return(nil).Once()

	team, err := suite.teamService.RemoveMember(suite.ctx, "team-1", "rescuer-2")

	assert.NoError(suite.T(), err)
	assert.NotContains(suite.T(), team.MemberIDs, "rescuer-2")
}

func (suite *TeamServiceTestSuite) TestRemoveMemberLeaderRefused() {
	suite.mockTeams.On("GetTeam", mock.Anything, "team-1").Return(&models.RescueTeam{
		TeamID:    "team-1",
		LeaderID:  "rescuer-1",
		MemberIDs: []string{"rescuer-1", "rescuer-2"},
	}, nil).Once()

	team, err := suite.teamService.RemoveMember(suite.ctx, "team-1", "rescuer-1")

	assert.Nil(suite.T(), team)
	assert.ErrorIs(suite.T(), err, models.ErrInvalidState)
}

func (suite *TeamServiceTestSuite) TestRemoveMemberNotOnRoster() {
	suite.mockTeams.On("GetTeam", mock.Anything, "team-1").Return(&models.RescueTeam{
		TeamID:    "team-1",
		LeaderID:  "rescuer-1",
		MemberIDs: []string{"rescuer-1"},
	}, nil).Once()

	team, err := suite.teamService.RemoveMember(suite.ctx, "team-1", "rescuer-9")

	assert.Nil(suite.T(), team)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

func (suite *TeamServiceTestSuite) TestDeleteTeam() {
	suite.mockTeams.On("GetTeam", mock.Anything, "team-1").Return(&models.RescueTeam{
		TeamID: "team-1",
		Status: models.TeamStatusFree,
	}, nil).Once()
	suite.mockTeams.On("DeleteTeam", mock.Anything, "team-1").Return(nil).Once()

	err := suite.teamService.DeleteTeam(suite.ctx, "team-1")

	assert.NoError(suite.T(), err)
}

// A staged team cannot be deleted out from under its assignment.
func (suite *TeamServiceTestSuite) TestDeleteTeamWhileAssigned() {
	suite.mockTeams.On("GetTeam", mock.Anything, "team-1").Return(&models.RescueTeam{
		TeamID: "team-1",
		Status: models.TeamStatusAssigned,
	}, nil).Once()

	err := suite.teamService.DeleteTeam(suite.ctx, "team-1")

	assert.ErrorIs(suite.T(), err, models.ErrInvalidState)
	suite.mockTeams.AssertNotCalled(suite.T(), "DeleteTeam", mock.Anything, "team-1")
}

func TestTeamServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TeamServiceTestSuite))
}

func TestEnsureMember(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ensureMember([]string{"a", "b"}, "a"))
	assert.Equal(t, []string{"a", "b", "c"}, ensureMember([]string{"a", "b"}, "c"))
	assert.Equal(t, []string{"x"}, ensureMember(nil, "x"))
}
