package main

import "time"

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Candidate is a single search result row: another member as seen by the
// viewer. Distance stays nil until the pipeline annotates it, and remains
// nil when either party has no stored coordinates.
type Candidate struct {
	ID                 int        `json:"id"`
	DisplayName        string     `json:"display_name"`
	CreatedAt          time.Time  `json:"created_at"`
	Age                int        `json:"age"`
	HeightCm           *int       `json:"height_cm,omitempty"`
	BodyType           string     `json:"body_type,omitempty"`
	Ethnicity          string     `json:"ethnicity,omitempty"`
	RelationshipStatus string     `json:"relationship_status,omitempty"`
	Bio                string     `json:"bio,omitempty"`
	Interests          string     `json:"interests,omitempty"`
	Latitude           *float64   `json:"latitude,omitempty"`
	Longitude          *float64   `json:"longitude,omitempty"`
	City               string     `json:"city,omitempty"`
	PrimaryPhoto       *string    `json:"primary_photo,omitempty"`
	IsOnline           bool       `json:"is_online"`
	LastActivity       *time.Time `json:"last_activity,omitempty"`
	Distance           *float64   `json:"distance,omitempty"`
}

// Preferences is the viewer's stored match record. It is written by the
// profile-settings surface and read-only to the search pipeline, which maps
// it onto a FilterSpec for suggestion search.
type Preferences struct {
	MinAge               *int     `json:"min_age,omitempty"`
	MaxAge               *int     `json:"max_age,omitempty"`
	MaxDistanceKm        *float64 `json:"max_distance_km,omitempty"`
	BodyTypes            []string `json:"body_types"`
	Ethnicities          []string `json:"ethnicities"`
	RelationshipStatuses []string `json:"relationship_statuses"`
	OnlyWithPhotos       bool     `json:"only_with_photos"`
}
