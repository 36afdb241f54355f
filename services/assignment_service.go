package services

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/repository"
	"disasterlink-backend/utils/logger"
	"errors"
	"fmt"
	"time"
)

// Coordinator owns every transition of team status, assigned locations and
// victim claims. All other code paths treat those fields as read-only; the
// coordinator funnels each write through a versioned compare-and-set so two
// concurrent operations can never double-assign a team or a victim.
type Coordinator struct {
	teams     repository.TeamRepositoryInterface
	victims   repository.VictimRepositoryInterface
	incidents repository.IncidentRepositoryInterface
	rescuers  repository.RescuerRepositoryInterface
	notifier  Dispatcher
	config    *models.Config
	logger    logger.Logger
}

func NewCoordinator(repos *repository.Repository, notifier Dispatcher, cfg *models.Config, log logger.Logger) *Coordinator {
	return &Coordinator{
		teams:     repos.Teams,
		victims:   repos.Victims,
		incidents: repos.Incidents,
		rescuers:  repos.Rescuers,
		notifier:  notifier,
		config:    cfg,
		logger:    log,
	}
}

func (c *Coordinator) repoCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.config.RepositoryTimeout)
}

func (c *Coordinator) notifyCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.config.NotificationTimeout)
}

// AssignTeamToLocation stages a Free team at a response point. A lost
// optimistic-concurrency race is retried once with fresh state; a second
// loss surfaces the conflict so the caller can re-score with current data
// instead of the coordinator silently picking a different team.
func (c *Coordinator) AssignTeamToLocation(ctx context.Context, teamID string, lat, lon float64) (*models.TeamAssignmentResult, error) {
	var lastErr error

	for attempt := 0; attempt < 2; attempt++ {
		team, err := c.getTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}

		if team.Status != models.TeamStatusFree {
			return nil, fmt.Errorf("team %s is not available: %w", teamID, models.ErrInvalidState)
		}

		patch := map[string]interface{}{
			"status":            string(models.TeamStatusAssigned),
			"assignedLatitude":  lat,
			"assignedLongitude": lon,
		}

		rctx, cancel := c.repoCtx(ctx)
		newVersion, err := c.teams.CompareAndSetTeam(rctx, teamID, team.Version, patch)
		cancel()
		if err != nil {
			if errors.Is(err, models.ErrConflict) {
				c.logger.Warnf("Assignment of team %s lost a concurrency race (attempt %d)", teamID, attempt+1)
				lastErr = err
				continue
			}
			return nil, err
		}

		team.Status = models.TeamStatusAssigned
		team.AssignedLatitude = &lat
		team.AssignedLongitude = &lon
		team.Version = newVersion

		result := &models.TeamAssignmentResult{Team: team}
		c.notifyTeamLeader(ctx, team,
			fmt.Sprintf("DISPATCH: your team %s is assigned to (%.5f, %.5f). Proceed immediately.", team.TeamName, lat, lon),
			&result.Warnings)

		c.logger.Infof("Team %s assigned to (%.5f, %.5f)", teamID, lat, lon)
		return result, nil
	}

	return nil, lastErr
}

// UnassignTeam releases an Assigned team back to the Free pool.
func (c *Coordinator) UnassignTeam(ctx context.Context, teamID string) (*models.TeamAssignmentResult, error) {
	team, err := c.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if team.Status != models.TeamStatusAssigned {
		return nil, fmt.Errorf("team %s is not assigned: %w", teamID, models.ErrInvalidState)
	}

	patch := map[string]interface{}{
		"status":            string(models.TeamStatusFree),
		"assignedLatitude":  nil,
		"assignedLongitude": nil,
	}

	rctx, cancel := c.repoCtx(ctx)
	newVersion, err := c.teams.CompareAndSetTeam(rctx, teamID, team.Version, patch)
	cancel()
	if err != nil {
		return nil, err
	}

	team.Status = models.TeamStatusFree
	team.AssignedLatitude = nil
	team.AssignedLongitude = nil
	team.Version = newVersion

	result := &models.TeamAssignmentResult{Team: team}
	c.notifyTeamLeader(ctx, team,
		fmt.Sprintf("STAND DOWN: team %s is released from its assignment.", team.TeamName),
		&result.Warnings)

	c.logger.Infof("Team %s unassigned", teamID)
	return result, nil
}

// AutoAssignSweep matches every unclaimed active victim to the nearest team
// staged within the sweep radius and claims each victim with a versioned
// write. A victim claimed concurrently is dropped from the result and the
// sweep continues; one bad record never aborts the batch. A sweep that
// commits nothing is a valid steady state, not an error.
func (c *Coordinator) AutoAssignSweep(ctx context.Context) (*models.SweepResult, error) {
	result := &models.SweepResult{
		Assigned:  []models.VictimAssignment{},
		Skipped:   []models.SkippedEntity{},
		StartedAt: time.Now(),
	}

	rctx, cancel := c.repoCtx(ctx)
	active := true
	victims, err := c.victims.GetVictimsByFilter(rctx, &models.VictimFilter{IsActive: &active})
	cancel()
	if err != nil {
		return nil, err
	}

	rctx, cancel = c.repoCtx(ctx)
	staged, err := c.teams.GetTeamsByFilter(rctx, &models.TeamFilter{Status: models.TeamStatusAssigned})
	cancel()
	if err != nil {
		return nil, err
	}

	var unclaimed []*models.Victim
	for _, v := range victims {
		if v.AssignedTeamID == "" {
			unclaimed = append(unclaimed, v)
		}
	}
	result.TotalScanned = len(unclaimed)

	candidates, skipped := RankVictimsForSweep(unclaimed, staged, result.StartedAt)
	result.Skipped = append(result.Skipped, skipped...)

	for _, candidate := range candidates {
		patch := map[string]interface{}{
			"assignedTeamId": candidate.Team.TeamID,
		}

		rctx, cancel = c.repoCtx(ctx)
		_, err := c.victims.CompareAndSetVictim(rctx, candidate.Victim.PhoneNumber, candidate.Victim.Version, patch)
		cancel()
		if err != nil {
			if errors.Is(err, models.ErrConflict) {
				result.Skipped = append(result.Skipped, models.SkippedEntity{
					EntityID: candidate.Victim.PhoneNumber,
					Reason:   "Claimed concurrently",
				})
				continue
			}
			c.logger.Errorf("Sweep failed to claim victim %s: %v", candidate.Victim.PhoneNumber, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("victim %s: %v", candidate.Victim.PhoneNumber, err))
			continue
		}

		result.Assigned = append(result.Assigned, models.VictimAssignment{
			VictimID:   candidate.Victim.PhoneNumber,
			TeamID:     candidate.Team.TeamID,
			DistanceKm: candidate.DistanceKm,
			Priority:   candidate.Priority,
		})

		c.notifyVictim(ctx, candidate.Victim,
			fmt.Sprintf("HELP IS COMING: rescue team %s has been assigned to you (%.2f km away).", candidate.Team.TeamName, candidate.DistanceKm),
			&result.Warnings)
	}

	result.FinishedAt = time.Now()
	c.logger.Infof("Sweep complete: %d assigned, %d skipped of %d scanned",
		len(result.Assigned), len(result.Skipped), result.TotalScanned)
	return result, nil
}

// AutoAssignIncident picks the best-fit free team for an incident, stages it
// at the incident location and moves the incident to In Progress. If the
// staging write loses its race the incident keeps its prior status and the
// conflict is surfaced; re-scoring is the caller's call because a different
// team may now be optimal.
func (c *Coordinator) AutoAssignIncident(ctx context.Context, incidentID string) (*models.IncidentAssignment, error) {
	rctx, cancel := c.repoCtx(ctx)
	incident, err := c.incidents.GetIncident(rctx, incidentID)
	cancel()
	if err != nil {
		return nil, err
	}

	if incident.Status == models.IncidentStatusInProgress || incident.Status == models.IncidentStatusResolved {
		return nil, fmt.Errorf("incident %s is already %s: %w", incidentID, incident.Status, models.ErrInvalidState)
	}
	if !incident.HasLocation() {
		return nil, fmt.Errorf("incident %s has no coordinates: %w", incidentID, models.ErrInvalidState)
	}

	rctx, cancel = c.repoCtx(ctx)
	active := true
	victims, err := c.victims.GetVictimsByFilter(rctx, &models.VictimFilter{IsActive: &active})
	cancel()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cluster, totalUrgency := ClusterVictims(victims, incident, now)
	if len(cluster) == 0 {
		return nil, fmt.Errorf("no victims to justify dispatch: %w", models.ErrNoCandidate)
	}

	rctx, cancel = c.repoCtx(ctx)
	freeTeams, err := c.teams.GetTeamsByFilter(rctx, &models.TeamFilter{Status: models.TeamStatusFree})
	cancel()
	if err != nil {
		return nil, err
	}

	candidates := c.locateCandidates(ctx, freeTeams)
	scores := ScoreTeamsForIncident(candidates, incident, len(cluster))
	if len(scores) == 0 {
		return nil, fmt.Errorf("no free team with a known location: %w", models.ErrNoCandidate)
	}

	best := scores[0]
	teamResult, err := c.AssignTeamToLocation(ctx, best.TeamID, *incident.Latitude, *incident.Longitude)
	if err != nil {
		return nil, err
	}

	assignment := &models.IncidentAssignment{
		IncidentID:   incidentID,
		TeamID:       best.TeamID,
		VictimCount:  len(cluster),
		TotalUrgency: totalUrgency,
		Scores:       scores,
		Warnings:     teamResult.Warnings,
	}

	patch := map[string]interface{}{
		"status": string(models.IncidentStatusInProgress),
	}
	rctx, cancel = c.repoCtx(ctx)
	_, err = c.incidents.CompareAndSetIncident(rctx, incidentID, incident.Version, patch)
	cancel()
	if err != nil {
		c.logger.Errorf("Team %s staged but incident %s transition failed: %v", best.TeamID, incidentID, err)
		return nil, err
	}

	c.logger.Infof("Incident %s assigned to team %s (cluster=%d urgency=%d)",
		incidentID, best.TeamID, len(cluster), totalUrgency)
	return assignment, nil
}

func (c *Coordinator) getTeam(ctx context.Context, teamID string) (*models.RescueTeam, error) {
	rctx, cancel := c.repoCtx(ctx)
	defer cancel()
	return c.teams.GetTeam(rctx, teamID)
}

// locateCandidates resolves each free team's leader location. Leaders that
// cannot be resolved leave the coordinates nil; scoring excludes them.
func (c *Coordinator) locateCandidates(ctx context.Context, teams []*models.RescueTeam) []IncidentCandidate {
	candidates := make([]IncidentCandidate, 0, len(teams))
	for _, team := range teams {
		candidate := IncidentCandidate{Team: team}

		rctx, cancel := c.repoCtx(ctx)
		leader, err := c.rescuers.GetRescuer(rctx, team.LeaderID)
		cancel()
		if err != nil {
			c.logger.Warnf("Leader %s of team %s unresolved: %v", team.LeaderID, team.TeamID, err)
		} else {
			candidate.Latitude = leader.Latitude
			candidate.Longitude = leader.Longitude
		}

		candidates = append(candidates, candidate)
	}
	return candidates
}

func (c *Coordinator) notifyTeamLeader(ctx context.Context, team *models.RescueTeam, body string, warnings *[]string) {
	nctx, cancel := c.notifyCtx(ctx)
	defer cancel()

	leader, err := c.rescuers.GetRescuer(nctx, team.LeaderID)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("notification skipped: leader %s unresolved", team.LeaderID))
		return
	}

	if err := c.notifier.Send(nctx, []string{leader.Phone}, body); err != nil {
		c.logger.Warnf("Notification to team %s leader failed: %v", team.TeamID, err)
		*warnings = append(*warnings, fmt.Sprintf("notification to team %s failed", team.TeamID))
	}
}

func (c *Coordinator) notifyVictim(ctx context.Context, victim *models.Victim, body string, warnings *[]string) {
	nctx, cancel := c.notifyCtx(ctx)
	defer cancel()

	if err := c.notifier.Send(nctx, []string{victim.PhoneNumber}, body); err != nil {
		c.logger.Warnf("Notification to victim %s failed: %v", victim.PhoneNumber, err)
		*warnings = append(*warnings, fmt.Sprintf("notification to victim %s failed", victim.PhoneNumber))
	}
}
