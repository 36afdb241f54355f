package services

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/repository"
	"disasterlink-backend/utils"
	"disasterlink-backend/utils/logger"
	"fmt"
)

type TeamService struct {
	teams    repository.TeamRepositoryInterface
	rescuers repository.RescuerRepositoryInterface
	logger   logger.Logger
}

func NewTeamService(teams repository.TeamRepositoryInterface, rescuers repository.RescuerRepositoryInterface, log logger.Logger) *TeamService {
	return &TeamService{
		teams:    teams,
		rescuers: rescuers,
		logger:   log,
	}
}

// CreateTeam creates a team from the request, enforcing that the leader is
// always part of the member set.
func (s *TeamService) CreateTeam(ctx context.Context, req *models.CreateTeamRequest) (*models.RescueTeam, error) {
	team := &models.RescueTeam{
		TeamID:    utils.GenerateUUID(),
		TeamName:  req.TeamName,
		LeaderID:  req.LeaderID,
		MemberIDs: ensureMember(req.MemberIDs, req.LeaderID),
		Status:    models.TeamStatusFree,
	}

	created, err := s.teams.CreateTeam(ctx, team)
	if err != nil {
		return nil, err
	}

	s.tagRescuers(ctx, created)
	return created, nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*models.RescueTeam, error) {
	return s.teams.GetTeam(ctx, teamID)
}

func (s *TeamService) GetTeams(ctx context.Context, filter *models.TeamFilter) ([]*models.RescueTeam, error) {
	return s.teams.GetTeamsByFilter(ctx, filter)
}

// UpdateTeam edits name and membership. Team status and assigned location
// are owned by the coordinator and are never writable here.
func (s *TeamService) UpdateTeam(ctx context.Context, teamID string, req *models.UpdateTeamRequest) (*models.RescueTeam, error) {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.TeamName != "" {
		team.TeamName = req.TeamName
		updates["teamName"] = req.TeamName
	}
	if req.LeaderID != "" {
		team.LeaderID = req.LeaderID
	}
	if req.MemberIDs != nil {
		team.MemberIDs = req.MemberIDs
	}
	if req.LeaderID != "" || req.MemberIDs != nil {
		team.MemberIDs = ensureMember(team.MemberIDs, team.LeaderID)
		updates["leaderId"] = team.LeaderID
		updates["memberIds"] = team.MemberIDs
	}

	if len(updates) == 0 {
		return team, nil
	}

	if err := s.teams.UpdateTeamFields(ctx, teamID, updates); err != nil {
		return nil, err
	}

	s.tagRescuers(ctx, team)
	return team, nil
}

// GetRoster resolves the team's member IDs to rescuer records, preserving
// roster order. Members whose records are missing are skipped.
func (s *TeamService) GetRoster(ctx context.Context, teamID string) ([]*models.Rescuer, error) {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.rescuers.GetRescuersByIDs(ctx, team.MemberIDs)
	if err != nil {
		return nil, err
	}

	roster := make([]*models.Rescuer, 0, len(team.MemberIDs))
	for _, id := range team.MemberIDs {
		if rescuer, ok := resolved[id]; ok {
			roster = append(roster, rescuer)
		}
	}
	return roster, nil
}

// AddMember adds a rescuer to the team roster. Adding an existing member is
// a no-op.
func (s *TeamService) AddMember(ctx context.Context, teamID, rescuerID string) (*models.RescueTeam, error) {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	for _, id := range team.MemberIDs {
		if id == rescuerID {
			return team, nil
		}
	}

	team.MemberIDs = append(team.MemberIDs, rescuerID)
	if err := s.teams.UpdateTeamFields(ctx, teamID, map[string]interface{}{
		"memberIds": team.MemberIDs,
	}); err != nil {
		return nil, err
	}

	s.tagRescuers(ctx, team)
	return team, nil
}

// RemoveMember removes a rescuer from the team roster. The leader cannot be
// removed; promote a new leader first.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, rescuerID string) (*models.RescueTeam, error) {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if rescuerID == team.LeaderID {
		return nil, fmt.Errorf("rescuer %s leads team %s: %w", rescuerID, teamID, models.ErrInvalidState)
	}

	kept := team.MemberIDs[:0]
	found := false
	for _, id := range team.MemberIDs {
		if id == rescuerID {
			found = true
			continue
		}
		kept = append(kept, id)
	}
	if !found {
		return nil, fmt.Errorf("rescuer %s is not on team %s: %w", rescuerID, teamID, models.ErrNotFound)
	}

	team.MemberIDs = kept
	if err := s.teams.UpdateTeamFields(ctx, teamID, map[string]interface{}{
		"memberIds": team.MemberIDs,
	}); err != nil {
		return nil, err
	}

	if err := s.rescuers.UpdateRescuerFields(ctx, rescuerID, map[string]interface{}{
		"teamId":   "",
		"teamName": "",
	}); err != nil {
		s.logger.Warnf("Failed to untag rescuer %s from team %s: %v", rescuerID, teamID, err)
	}
	return team, nil
}

// DeleteTeam removes a team. A team that is currently staged must be
// unassigned first.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID string) error {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}

	if team.Status == models.TeamStatusAssigned {
		return fmt.Errorf("team %s is currently assigned: %w", teamID, models.ErrInvalidState)
	}

	return s.teams.DeleteTeam(ctx, teamID)
}

// tagRescuers stamps the team id and name onto each member's rescuer record
// so roster queries on the teamId index stay current. Best-effort.
func (s *TeamService) tagRescuers(ctx context.Context, team *models.RescueTeam) {
	for _, rescuerID := range team.MemberIDs {
		updates := map[string]interface{}{
			"teamId":   team.TeamID,
			"teamName": team.TeamName,
		}
		if err := s.rescuers.UpdateRescuerFields(ctx, rescuerID, updates); err != nil {
			s.logger.Warnf("Failed to tag rescuer %s with team %s: %v", rescuerID, team.TeamID, err)
		}
	}
}

func ensureMember(memberIDs []string, leaderID string) []string {
	for _, id := range memberIDs {
		if id == leaderID {
			return memberIDs
		}
	}
	return append(memberIDs, leaderID)
}
