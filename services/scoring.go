package services

import (
	"disasterlink-backend/models"
	"disasterlink-backend/utils/geo"
	"math"
	"sort"
	"time"
)

const (
	// SweepRadiusKm is the inclusive cutoff for matching a victim to a
	// staged team during the nearest-available sweep.
	SweepRadiusKm = 5.0

	// IncidentClusterRadiusKm bounds the victim cluster that justifies
	// dispatching a team to an incident.
	IncidentClusterRadiusKm = 1.0

	// SuitabilityCap limits how much an oversized team can score.
	SuitabilityCap = 1.5

	distanceWeight    = 0.7
	suitabilityWeight = 0.3
)

const (
	SkipReasonMissingCoordinates = "Missing coordinates"
	SkipReasonNoTeamInRadius     = "No team within radius"
)

// SweepCandidate is one victim paired with its nearest staged team,
// ready to be committed by the coordinator.
type SweepCandidate struct {
	Victim     *models.Victim
	Team       *models.RescueTeam
	DistanceKm float64
	Priority   int
}

// RankVictimsForSweep matches each victim to the nearest team staged at a
// response point, within the sweep radius, and orders the matches by
// (priority, distance) so the most vulnerable and closest victims are served
// first when teams are scarce. Victims that cannot be matched come back as
// skips with a reason. The input teams must already be filtered to
// status Assigned; a staged team may serve any number of victims.
func RankVictimsForSweep(victims []*models.Victim, teams []*models.RescueTeam, asOf time.Time) ([]SweepCandidate, []models.SkippedEntity) {
	var candidates []SweepCandidate
	var skipped []models.SkippedEntity

	for _, victim := range victims {
		if !victim.HasLocation() {
			skipped = append(skipped, models.SkippedEntity{
				EntityID: victim.PhoneNumber,
				Reason:   SkipReasonMissingCoordinates,
			})
			continue
		}

		nearest, distance := nearestStagedTeam(victim, teams)
		if nearest == nil || distance > SweepRadiusKm {
			skipped = append(skipped, models.SkippedEntity{
				EntityID: victim.PhoneNumber,
				Reason:   SkipReasonNoTeamInRadius,
			})
			continue
		}

		candidates = append(candidates, SweepCandidate{
			Victim:     victim,
			Team:       nearest,
			DistanceKm: distance,
			Priority:   geo.SweepPriority(victim, asOf),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority < candidates[j].Priority
		}
		if candidates[i].DistanceKm != candidates[j].DistanceKm {
			return candidates[i].DistanceKm < candidates[j].DistanceKm
		}
		return candidates[i].Victim.PhoneNumber < candidates[j].Victim.PhoneNumber
	})

	return candidates, skipped
}

func nearestStagedTeam(victim *models.Victim, teams []*models.RescueTeam) (*models.RescueTeam, float64) {
	var nearest *models.RescueTeam
	best := math.Inf(1)

	for _, team := range teams {
		d := geo.DistanceKm(victim.Latitude, victim.Longitude, team.AssignedLatitude, team.AssignedLongitude)
		if d < best || (d == best && nearest != nil && team.TeamID < nearest.TeamID) {
			nearest = team
			best = d
		}
	}

	return nearest, best
}

// IncidentCandidate is a free team annotated with its leader's last known
// location, which stands in for the team's position before staging.
type IncidentCandidate struct {
	Team      *models.RescueTeam
	Latitude  *float64
	Longitude *float64
}

// ScoreTeamsForIncident ranks free teams for dispatch to an incident.
// Distance and suitability are normalized across the candidate set; the
// final score weighs proximity 0.7 and suitability 0.3 because response
// time dominates outcome. Candidates without a resolvable leader location
// are excluded before normalization. Returns the scores sorted best-first;
// ties resolve to the lowest team id.
func ScoreTeamsForIncident(candidates []IncidentCandidate, incident *models.Incident, victimCount int) []models.TeamScore {
	type scored struct {
		candidate   IncidentCandidate
		distance    float64
		suitability float64
	}

	var eligible []scored
	maxDistance := 0.0
	maxSuitability := 0.0

	for _, c := range candidates {
		d := geo.DistanceKm(c.Latitude, c.Longitude, incident.Latitude, incident.Longitude)
		if math.IsInf(d, 1) {
			continue
		}

		suitability := math.Min(float64(c.Team.TeamSize())/float64(victimCount), SuitabilityCap)
		eligible = append(eligible, scored{candidate: c, distance: d, suitability: suitability})

		if d > maxDistance {
			maxDistance = d
		}
		if suitability > maxSuitability {
			maxSuitability = suitability
		}
	}

	scores := make([]models.TeamScore, 0, len(eligible))
	for _, e := range eligible {
		distScore := 0.0
		if maxDistance > 0 {
			distScore = 1 - e.distance/maxDistance
		}
		suitScore := 0.0
		if maxSuitability > 0 {
			suitScore = e.suitability / maxSuitability
		}

		scores = append(scores, models.TeamScore{
			TeamID:      e.candidate.Team.TeamID,
			DistanceKm:  e.distance,
			Suitability: e.suitability,
			Score:       distanceWeight*distScore + suitabilityWeight*suitScore,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].TeamID < scores[j].TeamID
	})

	return scores
}

// ClusterVictims returns the active victims within the cluster radius of the
// incident location, with the summed urgency that justifies dispatch size.
func ClusterVictims(victims []*models.Victim, incident *models.Incident, asOf time.Time) ([]*models.Victim, int) {
	var cluster []*models.Victim
	totalUrgency := 0

	for _, victim := range victims {
		d := geo.DistanceKm(victim.Latitude, victim.Longitude, incident.Latitude, incident.Longitude)
		if d <= IncidentClusterRadiusKm {
			cluster = append(cluster, victim)
			totalUrgency += geo.UrgencyPoints(victim, asOf)
		}
	}

	return cluster, totalUrgency
}
