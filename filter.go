package main

import (
	"net/url"
	"strconv"
	"strings"
)

// TriState is a three-way field: absent, explicitly true, explicitly false.
// A plain bool cannot express "absent", which matters for has_kids.
type TriState int

const (
	TriUnset TriState = iota
	TriTrue
	TriFalse
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// FilterSpec is the validated, immutable set of constraints for one search
// call. The zero value is valid and means "no restriction": every candidate
// that survives the block exclusion is returned.
type FilterSpec struct {
	MinAge               *int
	MaxAge               *int
	BodyTypes            []string
	Ethnicities          []string
	RelationshipStatuses []string
	HeightMin            *int
	HeightMax            *int
	Education            *string
	Smoking              *string
	Drinking             *string
	WantsKids            *string
	HasKids              TriState
	OnlyWithPhotos       bool
	OnlyOnline           bool
	Keyword              string
	MaxDistance          *float64
	Limit                int
	Offset               int
}

// ParseFilterSpec builds a FilterSpec from loosely-typed key/value options
// (query parameters). Multi-select fields accept repeated parameters and
// comma-separated values; an empty selection is the same as an absent field.
func ParseFilterSpec(values url.Values) (*FilterSpec, error) {
	spec := &FilterSpec{Limit: defaultLimit}

	var err error
	if spec.MinAge, err = optionalInt(values, "min_age"); err != nil {
		return nil, err
	}
	if spec.MaxAge, err = optionalInt(values, "max_age"); err != nil {
		return nil, err
	}
	if spec.MinAge != nil && spec.MaxAge != nil && *spec.MinAge > *spec.MaxAge {
		return nil, &ValidationError{Field: "min_age", Reason: "min_age exceeds max_age"}
	}

	spec.BodyTypes = multiSelect(values, "body_type")
	spec.Ethnicities = multiSelect(values, "ethnicity")
	spec.RelationshipStatuses = multiSelect(values, "relationship_status")

	if spec.HeightMin, err = optionalInt(values, "height_min"); err != nil {
		return nil, err
	}
	if spec.HeightMax, err = optionalInt(values, "height_max"); err != nil {
		return nil, err
	}
	if spec.HeightMin != nil && spec.HeightMax != nil && *spec.HeightMin > *spec.HeightMax {
		return nil, &ValidationError{Field: "height_min", Reason: "height_min exceeds height_max"}
	}

	spec.Education = optionalString(values, "education")
	spec.Smoking = optionalString(values, "smoking")
	spec.Drinking = optionalString(values, "drinking")
	spec.WantsKids = optionalString(values, "wants_kids")

	if spec.HasKids, err = triState(values, "has_kids"); err != nil {
		return nil, err
	}

	if spec.OnlyWithPhotos, err = boolFlag(values, "only_with_photos"); err != nil {
		return nil, err
	}
	if spec.OnlyOnline, err = boolFlag(values, "only_online"); err != nil {
		return nil, err
	}

	spec.Keyword = strings.TrimSpace(values.Get("keyword"))

	if raw := values.Get("max_distance"); raw != "" {
		dist, convErr := strconv.ParseFloat(raw, 64)
		if convErr != nil || dist <= 0 {
			return nil, &ValidationError{Field: "max_distance", Reason: "must be a positive number"}
		}
		spec.MaxDistance = &dist
	}

	if raw := values.Get("limit"); raw != "" {
		limit, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return nil, &ValidationError{Field: "limit", Reason: "must be an integer"}
		}
		if limit < 0 {
			return nil, &ValidationError{Field: "limit", Reason: "must not be negative"}
		}
		if limit > maxLimit {
			return nil, &ValidationError{Field: "limit", Reason: "exceeds maximum of " + strconv.Itoa(maxLimit)}
		}
		spec.Limit = limit
	}
	if raw := values.Get("offset"); raw != "" {
		offset, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return nil, &ValidationError{Field: "offset", Reason: "must be an integer"}
		}
		if offset < 0 {
			return nil, &ValidationError{Field: "offset", Reason: "must not be negative"}
		}
		spec.Offset = offset
	}

	return spec, nil
}

func optionalInt(values url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ValidationError{Field: key, Reason: "must be an integer"}
	}
	return &n, nil
}

func optionalString(values url.Values, key string) *string {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil
	}
	return &raw
}

// multiSelect gathers repeated parameters and comma-separated tokens.
// An empty result means "no constraint".
func multiSelect(values url.Values, key string) []string {
	var tokens []string
	for _, raw := range values[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tokens = append(tokens, part)
			}
		}
	}
	return tokens
}

func triState(values url.Values, key string) (TriState, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return TriUnset, nil
	}
	switch strings.ToLower(raw) {
	case "true", "1":
		return TriTrue, nil
	case "false", "0":
		return TriFalse, nil
	}
	return TriUnset, &ValidationError{Field: key, Reason: "must be true or false"}
}

func boolFlag(values url.Values, key string) (bool, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return false, nil
	}
	switch strings.ToLower(raw) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, &ValidationError{Field: key, Reason: "must be true or false"}
}
