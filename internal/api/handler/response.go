package handler

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response wrapper: every endpoint answers
// {"success": bool, "data": ..., "errorMessages": [...]}.
type Envelope struct {
	Success       bool     `json:"success"`
	Data          any      `json:"data,omitempty"`
	ErrorMessages []string `json:"errorMessages,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{Success: true, Data: data}); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func Error(w http.ResponseWriter, status int, messages ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: false, ErrorMessages: messages})
}
