package main

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
)

// GET /users/{id} - public summary of one member. A blocked relation in
// either direction answers 404, the same as a missing member, so block
// state never leaks.
func userSummaryHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 2 || parts[0] != "users" {
			http.NotFound(w, r)
			return
		}
		targetID, err := strconv.Atoi(parts[1])
		if err != nil {
			http.NotFound(w, r)
			return
		}
		viewerID := r.Context().Value(userIDKey).(int)

		if blocked, err := isBlockedEither(db, viewerID, targetID); err != nil || blocked {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		var displayName, city string
		var primaryPhoto sql.NullString
		err = db.QueryRow(`
            SELECT COALESCE(p.display_name, 'Member ' || u.id::text),
                   COALESCE(p.city, ''),
                   (SELECT ph.path FROM user_photos ph
                     WHERE ph.user_id = u.id AND ph.is_primary
                     ORDER BY ph.id LIMIT 1)
            FROM users u
            LEFT JOIN profiles p ON p.user_id = u.id
            WHERE u.id = $1
        `, targetID).Scan(&displayName, &city, &primaryPhoto)
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		online, err := isOnlineNow(db, targetID)
		if err != nil {
			// Not critical. If the check fails, assume offline
			online = false
		}

		resp := map[string]interface{}{
			"id":           targetID,
			"display_name": displayName,
			"is_online":    online,
		}
		if city != "" {
			resp["city"] = city
		}
		if primaryPhoto.Valid {
			resp["primary_photo"] = primaryPhoto.String
		}
		writeJSON(w, http.StatusOK, resp)
	})
}
