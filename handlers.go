package main

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
)

// GET /search - the primary operation. All filter options arrive as query
// parameters (see ParseFilterSpec); the viewer comes from the bearer token.
func searchHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		viewerID := r.Context().Value(userIDKey).(int)

		spec, err := ParseFilterSpec(r.URL.Query())
		if err != nil {
			writeSearchError(w, err)
			return
		}
		results, err := searchCandidates(r.Context(), db, viewerID, spec)
		if err != nil {
			writeSearchError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]Candidate{"results": results})
	})
}

// GET /search/suggestions?limit=
func suggestionsHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		viewerID := r.Context().Value(userIDKey).(int)
		limit, err := limitParam(r)
		if err != nil {
			writeSearchError(w, err)
			return
		}
		results, err := suggestionSearch(r.Context(), db, viewerID, limit)
		if err != nil {
			writeSearchError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]Candidate{"results": results})
	})
}

// GET /search/nearby?max_distance=&limit=
// A viewer without stored coordinates gets 200 with an empty list.
func nearbyHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		viewerID := r.Context().Value(userIDKey).(int)
		limit, err := limitParam(r)
		if err != nil {
			writeSearchError(w, err)
			return
		}
		var maxKm float64
		if raw := r.URL.Query().Get("max_distance"); raw != "" {
			maxKm, err = strconv.ParseFloat(raw, 64)
			if err != nil || maxKm <= 0 {
				writeSearchError(w, &ValidationError{Field: "max_distance", Reason: "must be a positive number"})
				return
			}
		}
		results, err := nearbySearch(r.Context(), db, viewerID, maxKm, limit)
		if err != nil {
			writeSearchError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]Candidate{"results": results})
	})
}

// GET /search/online?limit=
func onlineHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		viewerID := r.Context().Value(userIDKey).(int)
		limit, err := limitParam(r)
		if err != nil {
			writeSearchError(w, err)
			return
		}
		results, err := onlineSearch(r.Context(), db, viewerID, limit)
		if err != nil {
			writeSearchError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]Candidate{"results": results})
	})
}

// GET /search/quick?q=&limit=
func quickSearchHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		viewerID := r.Context().Value(userIDKey).(int)
		keyword := strings.TrimSpace(r.URL.Query().Get("q"))
		if keyword == "" {
			writeSearchError(w, &ValidationError{Field: "q", Reason: "keyword required"})
			return
		}
		limit, err := limitParam(r)
		if err != nil {
			writeSearchError(w, err)
			return
		}
		results, err := quickSearch(r.Context(), db, viewerID, keyword, limit)
		if err != nil {
			writeSearchError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]Candidate{"results": results})
	})
}

func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: "limit", Reason: "must be an integer"}
	}
	if limit < 0 {
		return 0, &ValidationError{Field: "limit", Reason: "must not be negative"}
	}
	if limit > maxLimit {
		return 0, &ValidationError{Field: "limit", Reason: "exceeds maximum of " + strconv.Itoa(maxLimit)}
	}
	return limit, nil
}
