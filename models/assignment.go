package models

import "time"

// AssignTeamRequest is the payload for manually staging a team at a location.
type AssignTeamRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// VictimAssignment records one committed victim-to-team pairing from a sweep.
type VictimAssignment struct {
	VictimID   string  `json:"victimId"`
	TeamID     string  `json:"teamId"`
	DistanceKm float64 `json:"distanceKm"`
	Priority   int     `json:"priority"`
}

// SkippedEntity records an entity the engine passed over and why.
type SkippedEntity struct {
	EntityID string `json:"entityId"`
	Reason   string `json:"reason"`
}

// SweepResult is the outcome of one auto-assign sweep. A sweep that commits
// nothing is a valid steady state, not an error.
type SweepResult struct {
	Assigned     []VictimAssignment `json:"assigned"`
	Skipped      []SkippedEntity    `json:"skipped"`
	Warnings     []string           `json:"warnings,omitempty"`
	TotalScanned int                `json:"totalScanned"`
	StartedAt    time.Time          `json:"startedAt"`
	FinishedAt   time.Time          `json:"finishedAt"`
}

// TeamScore is one team's scoring breakdown from the best-fit ranker.
type TeamScore struct {
	TeamID      string  `json:"teamId"`
	DistanceKm  float64 `json:"distanceKm"`
	Suitability float64 `json:"suitability"`
	Score       float64 `json:"score"`
}

// IncidentAssignment is the outcome of assigning a team to an incident.
type IncidentAssignment struct {
	IncidentID   string      `json:"incidentId"`
	TeamID       string      `json:"teamId"`
	VictimCount  int         `json:"victimCount"`
	TotalUrgency int         `json:"totalUrgency"`
	Scores       []TeamScore `json:"scores,omitempty"`
	Warnings     []string    `json:"warnings,omitempty"`
}

// TeamAssignmentResult is the outcome of a manual assign/unassign operation.
type TeamAssignmentResult struct {
	Team     *RescueTeam `json:"team"`
	Warnings []string    `json:"warnings,omitempty"`
}
