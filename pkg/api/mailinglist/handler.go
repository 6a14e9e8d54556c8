package mailinglist

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"randomwalk/pkg/core/store"
)

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type SignupResponse struct {
	Message string `json:"message"`
}

// Handler holds dependencies for mailing-list endpoints
type Handler struct {
	Signups *store.SignupRepo
}

// NewHandler creates a new mailing-list handler
func NewHandler() *Handler {
	return &Handler{Signups: store.NewSignupRepo()}
}

// HandleSignup records one mailing-list submission. Both fields are
// required; a missing database is a server-side failure, not a user one.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		http.Error(w, "username and email are required", http.StatusBadRequest)
		return
	}

	if store.GetPool() == nil {
		http.Error(w, "mailing list unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := h.Signups.Save(r.Context(), req.Username, req.Email); err != nil {
		fmt.Printf("[MAILINGLIST] Save failed: %v\n", err)
		http.Error(w, "failed to record signup", http.StatusInternalServerError)
		return
	}

	fmt.Printf("[MAILINGLIST] New signup: %s\n", req.Username)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SignupResponse{
		Message: fmt.Sprintf("Thanks for signing up, %s!", req.Username),
	})
}
