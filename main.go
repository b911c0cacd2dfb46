package main

import (
	"log"
	"net/http"
	"os"
)

// JWT secret from environment variable or fallback
func getJWTSecret() []byte {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte("your_secret_key_please_change_in_production")
}

var jwtSecret = getJWTSecret()

func main() {
	initDB()

	mux := http.NewServeMux()

	// Auth
	mux.Handle("/register", registerHandler(db))
	mux.Handle("/login", loginHandler(db))

	// Search: primary operation plus the derived modes
	mux.Handle("/search", searchHandler(db))
	mux.Handle("/search/suggestions", suggestionsHandler(db))
	mux.Handle("/search/nearby", nearbyHandler(db))
	mux.Handle("/search/online", onlineHandler(db))
	mux.Handle("/search/quick", quickSearchHandler(db))

	// Stored match preferences feeding suggestion search
	mux.Handle("/me/preferences", mePreferencesHandler(db))

	// Block management; the exclusion itself runs inside the candidate query
	mux.Handle("/me/blocks/", blocksHandler(db))

	// Presence: one-shot ping or a held-open heartbeat socket
	mux.Handle("/me/ping", mePingHandler(db)) // POST
	mux.Handle("/ws/presence", wsPresenceHandler(db))

	// Member summaries
	mux.Handle("/users/", userSummaryHandler(db))

	// Health check endpoint for Docker
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Println("Starting Corkline backend on", addr)
	http.ListenAndServe(addr, withCORS(mux))
}
