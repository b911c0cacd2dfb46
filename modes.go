package main

import (
	"context"
	"database/sql"
)

const (
	defaultSuggestionLimit = 20
	defaultNearbyRadiusKm  = 50.0
)

// specFromPreferences maps a stored match record onto a FilterSpec for the
// suggestion mode.
func specFromPreferences(prefs *Preferences, limit int) *FilterSpec {
	spec := &FilterSpec{Limit: limit}
	if prefs == nil {
		return spec
	}
	spec.MinAge = prefs.MinAge
	spec.MaxAge = prefs.MaxAge
	spec.MaxDistance = prefs.MaxDistanceKm
	spec.BodyTypes = prefs.BodyTypes
	spec.Ethnicities = prefs.Ethnicities
	spec.RelationshipStatuses = prefs.RelationshipStatuses
	spec.OnlyWithPhotos = prefs.OnlyWithPhotos
	return spec
}

// suggestionSearch runs the core pipeline with a FilterSpec auto-populated
// from the viewer's stored preferences.
func suggestionSearch(ctx context.Context, db *sql.DB, viewerID, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	prefs, err := viewerPreferences(ctx, db, viewerID)
	if err != nil {
		return nil, err
	}
	return searchCandidates(ctx, db, viewerID, specFromPreferences(prefs, limit))
}

// nearbySearch discovers members within maxKm of the viewer. A viewer with
// no resolved coordinates gets an empty result without touching the store;
// that is a defined short-circuit, not an error.
func nearbySearch(ctx context.Context, db *sql.DB, viewerID int, maxKm float64, limit int) ([]Candidate, error) {
	if maxKm <= 0 {
		maxKm = defaultNearbyRadiusKm
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	loc, err := viewerLocation(ctx, db, viewerID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return []Candidate{}, nil
	}
	return searchCandidates(ctx, db, viewerID, &FilterSpec{MaxDistance: &maxKm, Limit: limit})
}

// onlineSearch discovers currently-online members.
func onlineSearch(ctx context.Context, db *sql.DB, viewerID, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return searchCandidates(ctx, db, viewerID, &FilterSpec{OnlyOnline: true, Limit: limit})
}

// quickSearch is the keyword mode: case-insensitive substring match across
// bio, interests and display name.
func quickSearch(ctx context.Context, db *sql.DB, viewerID int, keyword string, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return searchCandidates(ctx, db, viewerID, &FilterSpec{Keyword: keyword, Limit: limit})
}
