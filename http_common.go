package main

import (
	"encoding/json"
	"errors"
	"net/http"
)

// --- Response helpers ---
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeSearchError maps the pipeline's error taxonomy onto status codes the
// caller can act on: 400 means fix the request, 503 means retry later.
func writeSearchError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	var serr *StoreError
	if errors.As(err, &serr) {
		writeError(w, http.StatusServiceUnavailable, "store_unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "search_error")
}
