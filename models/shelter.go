package models

import "time"

type Shelter struct {
	ShelterID        string    `json:"shelterId" dynamodbav:"shelterId"`
	Name             string    `json:"name" dynamodbav:"name"`
	Address          string    `json:"address" dynamodbav:"address"`
	Description      string    `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Capacity         int       `json:"capacity" dynamodbav:"capacity"`
	CurrentOccupancy int       `json:"currentOccupancy" dynamodbav:"currentOccupancy"`
	ContactNumber    string    `json:"contactNumber" dynamodbav:"contactNumber"`
	Latitude         *float64  `json:"latitude,omitempty" dynamodbav:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty" dynamodbav:"longitude,omitempty"`
	Amenities        []string  `json:"amenities" dynamodbav:"amenities"`
	Status           string    `json:"status" dynamodbav:"status"`
	IsActive         bool      `json:"isActive" dynamodbav:"isActive"`
	Version          int64     `json:"version" dynamodbav:"version"`
	CreatedAt        time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

type CreateShelterRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=100"`
	Address       string   `json:"address" validate:"required,max=200"`
	Description   string   `json:"description,omitempty" validate:"omitempty,max=500"`
	Capacity      int      `json:"capacity" validate:"required,gt=0"`
	ContactNumber string   `json:"contactNumber" validate:"required"`
	Latitude      float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude     float64  `json:"longitude" validate:"gte=-180,lte=180"`
	Amenities     []string `json:"amenities"`
}

type UpdateShelterRequest struct {
	Name          string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Address       string   `json:"address,omitempty" validate:"omitempty,max=200"`
	Description   string   `json:"description,omitempty" validate:"omitempty,max=500"`
	Capacity      *int     `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	ContactNumber string   `json:"contactNumber,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty"`
}

type ShelterCheckinRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// NearestShelter is a shelter annotated with its distance from a query point.
type NearestShelter struct {
	Shelter    *Shelter `json:"shelter"`
	DistanceKm float64  `json:"distanceKm"`
}
