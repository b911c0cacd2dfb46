package main

import (
	"context"
	"database/sql"
	"encoding/json"
)

// searchCandidates runs the core pipeline for one validated FilterSpec:
// execute the bulk relational query, annotate distances from the viewer's
// resolved location, then apply the optional radius filter and re-sort.
//
// Pagination happened inside the relational query, so an active max_distance
// can trim a page below its limit. Fetching extra rows to refill the page
// would change pagination semantics and is intentionally not done.
func searchCandidates(ctx context.Context, db *sql.DB, viewerID int, spec *FilterSpec) ([]Candidate, error) {
	query, args := buildCandidateQuery(viewerID, spec)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StoreError{Op: "query candidates", Err: err}
	}
	defer rows.Close()

	cands := []Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, &StoreError{Op: "scan candidate", Err: err}
		}
		cands = append(cands, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "read candidates", Err: err}
	}

	loc, err := viewerLocation(ctx, db, viewerID)
	if err != nil {
		return nil, err
	}

	cands = annotateDistances(cands, loc)
	if spec.MaxDistance != nil {
		cands = filterByRadius(cands, *spec.MaxDistance)
		cands = sortByDistance(cands)
	}
	return cands, nil
}

func scanCandidate(rows *sql.Rows) (*Candidate, error) {
	var (
		c            Candidate
		heightCm     sql.NullInt64
		lat, lon     sql.NullFloat64
		primaryPhoto sql.NullString
		lastOnline   sql.NullTime
	)
	err := rows.Scan(
		&c.ID, &c.DisplayName, &c.CreatedAt, &c.Age, &heightCm,
		&c.BodyType, &c.Ethnicity, &c.RelationshipStatus, &c.Bio, &c.Interests,
		&lat, &lon, &c.City, &primaryPhoto, &c.IsOnline, &lastOnline,
	)
	if err != nil {
		return nil, err
	}
	if heightCm.Valid {
		h := int(heightCm.Int64)
		c.HeightCm = &h
	}
	if lat.Valid && lon.Valid {
		c.Latitude = &lat.Float64
		c.Longitude = &lon.Float64
	}
	if primaryPhoto.Valid {
		c.PrimaryPhoto = &primaryPhoto.String
	}
	if lastOnline.Valid {
		c.LastActivity = &lastOnline.Time
	}
	return &c, nil
}

// viewerLocation resolves the viewer's stored coordinates. A missing profile
// row or missing coordinates is not an error: the result is simply nil.
func viewerLocation(ctx context.Context, db *sql.DB, viewerID int) (*Coordinates, error) {
	var lat, lon sql.NullFloat64
	err := db.QueryRowContext(ctx,
		`SELECT location_lat, location_lon FROM profiles WHERE user_id = $1`,
		viewerID,
	).Scan(&lat, &lon)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "resolve viewer location", Err: err}
	}
	if !lat.Valid || !lon.Valid {
		return nil, nil
	}
	return &Coordinates{Lat: lat.Float64, Lon: lon.Float64}, nil
}

// viewerPreferences loads the viewer's stored match record. Returns nil when
// the viewer has no profile yet.
func viewerPreferences(ctx context.Context, db *sql.DB, viewerID int) (*Preferences, error) {
	var (
		prefs                            Preferences
		minAge, maxAge                   sql.NullInt64
		maxDistance                      sql.NullFloat64
		bodyTypes, ethnicities, statuses []byte
	)
	err := db.QueryRowContext(ctx, `
        SELECT pref_min_age, pref_max_age, pref_max_distance_km,
               pref_body_types, pref_ethnicities, pref_relationship_statuses,
               COALESCE(pref_only_with_photos, FALSE)
        FROM profiles WHERE user_id = $1
    `, viewerID).Scan(
		&minAge, &maxAge, &maxDistance,
		&bodyTypes, &ethnicities, &statuses,
		&prefs.OnlyWithPhotos,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "load viewer preferences", Err: err}
	}
	if minAge.Valid {
		v := int(minAge.Int64)
		prefs.MinAge = &v
	}
	if maxAge.Valid {
		v := int(maxAge.Int64)
		prefs.MaxAge = &v
	}
	if maxDistance.Valid {
		prefs.MaxDistanceKm = &maxDistance.Float64
	}
	prefs.BodyTypes = decodeStringArray(bodyTypes)
	prefs.Ethnicities = decodeStringArray(ethnicities)
	prefs.RelationshipStatuses = decodeStringArray(statuses)
	return &prefs, nil
}

func decodeStringArray(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
