package main

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// POST /me/blocks/{id} and DELETE /me/blocks/{id}. A block suppresses
// mutual visibility: once either side blocks, neither appears in the
// other's search results (the exclusion itself lives in the candidate
// query, see buildCandidateQuery).
func blocksHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 3 || parts[0] != "me" || parts[1] != "blocks" {
			http.NotFound(w, r)
			return
		}
		targetID, err := strconv.Atoi(parts[2])
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		userID := r.Context().Value(userIDKey).(int)
		if targetID == userID {
			writeError(w, http.StatusBadRequest, "cannot_block_self")
			return
		}

		switch r.Method {
		case http.MethodPost:
			var exists bool
			err = db.QueryRow("SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", targetID).Scan(&exists)
			if err != nil || !exists {
				writeError(w, http.StatusNotFound, "not_found")
				return
			}
			// Repeat blocks are fine, same outcome
			_, err = db.Exec(`
                INSERT INTO user_blocks (user_id, blocked_user_id)
                VALUES ($1, $2) ON CONFLICT DO NOTHING
            `, userID, targetID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "block_error")
				log.Println("Error saving block:", err)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]bool{"blocked": true})
		case http.MethodDelete:
			_, err = db.Exec(
				`DELETE FROM user_blocks WHERE user_id = $1 AND blocked_user_id = $2`,
				userID, targetID,
			)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "unblock_error")
				log.Println("Error removing block:", err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"blocked": false})
		default:
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
		}
	})
}

// isBlockedEither reports whether a block exists in either direction
// between the two members.
func isBlockedEither(db *sql.DB, a, b int) (bool, error) {
	var blocked bool
	err := db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM user_blocks
            WHERE (user_id = $1 AND blocked_user_id = $2)
               OR (user_id = $2 AND blocked_user_id = $1)
        )
    `, a, b).Scan(&blocked)
	return blocked, err
}
