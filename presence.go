package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// A member counts as online while last_online is fresher than this. The SQL
// side of the same rule lives in onlineExpr (query.go).
const presenceTTL = 90 * time.Second

func mePingHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		userID := r.Context().Value(userIDKey).(int)
		_, _ = db.Exec(`UPDATE users SET last_online = NOW() WHERE id = $1`, userID)
		w.WriteHeader(http.StatusNoContent)
	})
}

func isOnlineNow(db *sql.DB, userID int) (bool, error) {
	var online bool
	err := db.QueryRow(`
		SELECT COALESCE(last_online > NOW() - INTERVAL '90 seconds', FALSE) AS online
        FROM users
        WHERE id = $1
	`, userID).Scan(&online)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return online, err
}

var presenceUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsPresenceHandler keeps last_online fresh while the client holds a socket
// open: the timestamp is refreshed on connect and then on a timer until the
// peer goes away. Clients that cannot hold a socket use POST /me/ping.
func wsPresenceHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(userIDKey).(int)
		conn, err := presenceUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("presence upgrade failed:", err)
			return
		}

		_, _ = db.Exec(`UPDATE users SET last_online = NOW() WHERE id = $1`, userID)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				// Reads only to detect disconnect; inbound payloads are ignored.
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		// Refresh well inside the TTL so a healthy socket never flickers offline.
		ticker := time.NewTicker(presenceTTL / 3)
		defer ticker.Stop()
		defer conn.Close()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if _, err := db.Exec(`UPDATE users SET last_online = NOW() WHERE id = $1`, userID); err != nil {
					log.Println("presence refresh failed:", err)
				}
			}
		}
	})
}
