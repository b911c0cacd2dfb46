package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
)

// GET/PUT /me/preferences - the stored match record feeding suggestion
// search. The search pipeline itself only ever reads this.
func mePreferencesHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(userIDKey).(int)
		switch r.Method {
		case http.MethodGet:
			prefs, err := viewerPreferences(r.Context(), db, userID)
			if err != nil {
				writeSearchError(w, err)
				return
			}
			if prefs == nil {
				writeError(w, http.StatusNotFound, "no_preferences")
				return
			}
			writeJSON(w, http.StatusOK, prefs)
		case http.MethodPut:
			var prefs Preferences
			if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_json")
				return
			}
			if prefs.MinAge != nil && prefs.MaxAge != nil && *prefs.MinAge > *prefs.MaxAge {
				writeError(w, http.StatusBadRequest, "invalid min_age: min_age exceeds max_age")
				return
			}
			bodyTypes, _ := json.Marshal(prefs.BodyTypes)
			ethnicities, _ := json.Marshal(prefs.Ethnicities)
			statuses, _ := json.Marshal(prefs.RelationshipStatuses)
			_, err := db.Exec(`
                INSERT INTO profiles (
                    user_id, pref_min_age, pref_max_age, pref_max_distance_km,
                    pref_body_types, pref_ethnicities, pref_relationship_statuses,
                    pref_only_with_photos
                ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                ON CONFLICT (user_id) DO UPDATE SET
                    pref_min_age = EXCLUDED.pref_min_age,
                    pref_max_age = EXCLUDED.pref_max_age,
                    pref_max_distance_km = EXCLUDED.pref_max_distance_km,
                    pref_body_types = EXCLUDED.pref_body_types,
                    pref_ethnicities = EXCLUDED.pref_ethnicities,
                    pref_relationship_statuses = EXCLUDED.pref_relationship_statuses,
                    pref_only_with_photos = EXCLUDED.pref_only_with_photos
            `,
				userID, prefs.MinAge, prefs.MaxAge, prefs.MaxDistanceKm,
				bodyTypes, ethnicities, statuses, prefs.OnlyWithPhotos,
			)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "preferences_save_error")
				log.Println("Error saving preferences:", err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		default:
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
		}
	})
}
