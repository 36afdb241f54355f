package models

import "time"

// TeamStatus represents the assignment state of a rescue team
type TeamStatus string

const (
	TeamStatusFree        TeamStatus = "Free"
	TeamStatusAssigned    TeamStatus = "Assigned"
	TeamStatusUnavailable TeamStatus = "Unavailable"
)

// RescueTeam represents a rescue team. status == Assigned iff the assigned
// location is non-nil; only the assignment coordinator writes those fields.
type RescueTeam struct {
	TeamID            string     `json:"teamId" dynamodbav:"teamId"`
	TeamName          string     `json:"teamName" dynamodbav:"teamName"`
	LeaderID          string     `json:"leaderId" dynamodbav:"leaderId"`
	MemberIDs         []string   `json:"memberIds" dynamodbav:"memberIds"`
	Status            TeamStatus `json:"status" dynamodbav:"status"`
	AssignedLatitude  *float64   `json:"assignedLatitude,omitempty" dynamodbav:"assignedLatitude,omitempty"`
	AssignedLongitude *float64   `json:"assignedLongitude,omitempty" dynamodbav:"assignedLongitude,omitempty"`
	Version           int64      `json:"version" dynamodbav:"version"`
	CreatedAt         time.Time  `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt" dynamodbav:"updatedAt"`
}

// TeamSize counts the leader plus the members.
func (t *RescueTeam) TeamSize() int {
	return len(t.MemberIDs) + 1
}

type CreateTeamRequest struct {
	TeamName  string   `json:"teamName" validate:"required,min=2,max=100"`
	LeaderID  string   `json:"leaderId" validate:"required"`
	MemberIDs []string `json:"memberIds"`
}

type UpdateTeamRequest struct {
	TeamName  string   `json:"teamName,omitempty" validate:"omitempty,min=2,max=100"`
	LeaderID  string   `json:"leaderId,omitempty"`
	MemberIDs []string `json:"memberIds,omitempty"`
}

type TeamFilter struct {
	Status   TeamStatus `json:"status,omitempty"`
	LeaderID string     `json:"leaderId,omitempty"`
}

// Rescuer represents an individual team member. The leader's live location
// feeds the best-fit incident scoring.
type Rescuer struct {
	RescuerID string     `json:"rescuerId" dynamodbav:"rescuerId"`
	Name      string     `json:"name" dynamodbav:"name"`
	Phone     string     `json:"phone" dynamodbav:"phone"`
	Latitude  *float64   `json:"latitude,omitempty" dynamodbav:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty" dynamodbav:"longitude,omitempty"`
	TeamID    string     `json:"teamId,omitempty" dynamodbav:"teamId,omitempty"`
	TeamName  string     `json:"teamName,omitempty" dynamodbav:"teamName,omitempty"`
	Status    TeamStatus `json:"status" dynamodbav:"status"`
	Version   int64      `json:"version" dynamodbav:"version"`
	CreatedAt time.Time  `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" dynamodbav:"updatedAt"`
}

type CreateRescuerRequest struct {
	Name      string   `json:"name" validate:"required,min=2,max=100"`
	Phone     string   `json:"phone" validate:"required"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

type UpdateRescuerRequest struct {
	Name      string     `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone     string     `json:"phone,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64   `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Status    TeamStatus `json:"status,omitempty" validate:"omitempty,oneof=Free Assigned Unavailable"`
}

type RescuerFilter struct {
	TeamID        string `json:"teamId,omitempty"`
	AvailableOnly bool   `json:"availableOnly,omitempty"`
}
