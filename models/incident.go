package models

import "time"

// IncidentType categorizes a reported incident
type IncidentType string

const (
	IncidentTypeFlood            IncidentType = "Flood"
	IncidentTypeFire             IncidentType = "Fire"
	IncidentTypeBuildingCollapse IncidentType = "Building Collapse"
	IncidentTypeLandslide        IncidentType = "Landslide"
	IncidentTypeMedicalEmergency IncidentType = "Medical Emergency"
	IncidentTypeOther            IncidentType = "Other"
)

// IncidentSeverity grades the impact of an incident
type IncidentSeverity string

const (
	IncidentSeverityLow      IncidentSeverity = "Low"
	IncidentSeverityMedium   IncidentSeverity = "Medium"
	IncidentSeverityHigh     IncidentSeverity = "High"
	IncidentSeverityCritical IncidentSeverity = "Critical"
)

// IncidentStatus tracks the incident lifecycle. The transition to InProgress
// happens exactly when the coordinator commits a team to the incident.
type IncidentStatus string

const (
	IncidentStatusReported   IncidentStatus = "Reported"
	IncidentStatusVerified   IncidentStatus = "Verified"
	IncidentStatusInProgress IncidentStatus = "In Progress"
	IncidentStatusResolved   IncidentStatus = "Resolved"
)

type Incident struct {
	IncidentID  string           `json:"incidentId" dynamodbav:"incidentId"`
	Type        IncidentType     `json:"type" dynamodbav:"type"`
	Latitude    *float64         `json:"latitude,omitempty" dynamodbav:"latitude,omitempty"`
	Longitude   *float64         `json:"longitude,omitempty" dynamodbav:"longitude,omitempty"`
	Severity    IncidentSeverity `json:"severity" dynamodbav:"severity"`
	Status      IncidentStatus   `json:"status" dynamodbav:"status"`
	ReportedBy  string           `json:"reportedBy" dynamodbav:"reportedBy"`
	Description string           `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Version     int64            `json:"version" dynamodbav:"version"`
	CreatedAt   time.Time        `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt" dynamodbav:"updatedAt"`
}

// HasLocation reports whether the incident carries a coordinate pair.
func (i *Incident) HasLocation() bool {
	return i.Latitude != nil && i.Longitude != nil
}

type CreateIncidentRequest struct {
	Type        IncidentType     `json:"type" validate:"required"`
	Latitude    float64          `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64          `json:"longitude" validate:"gte=-180,lte=180"`
	Severity    IncidentSeverity `json:"severity" validate:"required,oneof=Low Medium High Critical"`
	ReportedBy  string           `json:"reportedBy" validate:"required"`
	Description string           `json:"description,omitempty" validate:"omitempty,max=500"`
}

type UpdateIncidentRequest struct {
	Status      IncidentStatus   `json:"status,omitempty" validate:"omitempty,oneof=Reported Verified 'In Progress' Resolved"`
	Severity    IncidentSeverity `json:"severity,omitempty" validate:"omitempty,oneof=Low Medium High Critical"`
	Description string           `json:"description,omitempty" validate:"omitempty,max=500"`
}

type IncidentFilter struct {
	Status   IncidentStatus   `json:"status,omitempty"`
	Type     IncidentType     `json:"type,omitempty"`
	Severity IncidentSeverity `json:"severity,omitempty"`
}
