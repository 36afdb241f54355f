package models

import "time"

// VictimStatus represents the triage status reported for a victim
type VictimStatus string

const (
	VictimStatusActive    VictimStatus = "Active"
	VictimStatusNeedsHelp VictimStatus = "Needs Help"
	VictimStatusCritical  VictimStatus = "Critical"
)

// Victim represents an affected person tracked by the system. The record is
// keyed by phone number because victims are created on first SMS contact.
type Victim struct {
	PhoneNumber    string       `json:"phoneNumber" dynamodbav:"phoneNumber"`
	Name           string       `json:"name" dynamodbav:"name"`
	DateOfBirth    *time.Time   `json:"dateOfBirth,omitempty" dynamodbav:"dateOfBirth,omitempty"`
	BloodGroup     string       `json:"bloodGroup,omitempty" dynamodbav:"bloodGroup,omitempty"`
	City           string       `json:"city,omitempty" dynamodbav:"city,omitempty"`
	Latitude       *float64     `json:"latitude,omitempty" dynamodbav:"latitude,omitempty"`
	Longitude      *float64     `json:"longitude,omitempty" dynamodbav:"longitude,omitempty"`
	Battery        int          `json:"battery,omitempty" dynamodbav:"battery,omitempty"`
	Status         VictimStatus `json:"status" dynamodbav:"status"`
	IsActive       bool         `json:"isActive" dynamodbav:"isActive"`
	AssignedTeamID string       `json:"assignedTeamId,omitempty" dynamodbav:"assignedTeamId,omitempty"`
	Version        int64        `json:"version" dynamodbav:"version"`
	CreatedAt      time.Time    `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt" dynamodbav:"updatedAt"`
}

// HasLocation reports whether the victim has a resolvable coordinate pair.
func (v *Victim) HasLocation() bool {
	return v.Latitude != nil && v.Longitude != nil
}

type UpdateVictimStatusRequest struct {
	Status VictimStatus `json:"status" validate:"required,oneof='Active' 'Needs Help' 'Critical'"`
}

type UpdateVictimLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Battery   int     `json:"battery" validate:"omitempty,gte=0,lte=100"`
}

type VictimFilter struct {
	IsActive       *bool        `json:"isActive,omitempty"`
	Status         VictimStatus `json:"status,omitempty"`
	AssignedTeamID string       `json:"assignedTeamId,omitempty"`
	City           string       `json:"city,omitempty"`
}
