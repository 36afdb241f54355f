package geo

import (
	"disasterlink-backend/models"
	"math"
	"time"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance in kilometers between two
// coordinate pairs. A nil coordinate yields +Inf so ranking code can treat
// missing-location candidates as maximally undesirable without special-casing.
func DistanceKm(lat1, lon1, lat2, lon2 *float64) float64 {
	if lat1 == nil || lon1 == nil || lat2 == nil || lon2 == nil {
		return math.Inf(1)
	}
	return haversine(*lat1, *lon1, *lat2, *lon2)
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// AgeYears returns whole civil years between dob and asOf: the year difference
// minus one when the asOf month/day precedes the birth month/day.
func AgeYears(dob, asOf time.Time) int {
	years := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() ||
		(asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		years--
	}
	return years
}

// UrgencyPoints scores a victim's vulnerability. Triage status contributes
// {Critical: 10, Needs Help: 5, else: 1}; age under 15 or over 60 adds 4,
// any other (or unknown) age adds 1.
func UrgencyPoints(v *models.Victim, asOf time.Time) int {
	points := 1
	switch v.Status {
	case models.VictimStatusCritical:
		points = 10
	case models.VictimStatusNeedsHelp:
		points = 5
	}

	if v.DateOfBirth != nil {
		age := AgeYears(*v.DateOfBirth, asOf)
		if age < 15 || age > 60 {
			points += 4
		} else {
			points += 1
		}
	} else {
		points += 1
	}

	return points
}

// SweepPriority buckets a victim for the nearest-available sweep: 1 for the
// age-vulnerable (under 15 or over 60), 2 otherwise. Lower sorts first.
func SweepPriority(v *models.Victim, asOf time.Time) int {
	if v.DateOfBirth == nil {
		return 2
	}
	age := AgeYears(*v.DateOfBirth, asOf)
	if age < 15 || age > 60 {
		return 1
	}
	return 2
}
