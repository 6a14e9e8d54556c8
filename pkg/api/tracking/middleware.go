// Package tracking counts page views per path and logs individual visits,
// keyed by a session cookie. Tracking is best effort: a failed write never
// affects the response already served.
package tracking

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"randomwalk/pkg/core/store"
)

const sessionCookie = "rw_session"

// Middleware wraps handlers with page-view tracking.
type Middleware struct {
	Views *store.TrackingRepo
}

// NewMiddleware creates the tracking middleware.
func NewMiddleware() *Middleware {
	return &Middleware{Views: store.NewTrackingRepo()}
}

// statusRecorder captures the status written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Wrap tracks successful page loads. Static assets, the favicon, and
// non-200 responses are skipped, matching what a page-view count means.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := m.ensureSession(w, r)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if !trackable(r.URL.Path) || rec.status != http.StatusOK {
			return
		}
		if store.GetPool() == nil {
			return
		}
		if err := m.Views.RecordView(r.Context(), r.URL.Path, session); err != nil {
			fmt.Printf("[TRACKING] Failed to record view for %s: %v\n", r.URL.Path, err)
		}
	})
}

// ensureSession returns the visitor's session key, minting one when absent.
func (m *Middleware) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	session := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session,
		Path:     "/",
		HttpOnly: true,
	})
	return session
}

func trackable(path string) bool {
	if path == "/favicon.ico" {
		return false
	}
	return !strings.HasPrefix(path, "/static/")
}

type MetricsResponse struct {
	Pages []store.PageMetric `json:"pages"`
	Total int64              `json:"total"`
}

// HandleMetrics reports per-path visit counts and the overall total.
func (m *Middleware) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if store.GetPool() == nil {
		http.Error(w, "metrics unavailable", http.StatusServiceUnavailable)
		return
	}

	pages, err := m.Views.Metrics(r.Context())
	if err != nil {
		http.Error(w, "failed to load metrics", http.StatusInternalServerError)
		return
	}
	total, err := m.Views.TotalViews(r.Context())
	if err != nil {
		http.Error(w, "failed to load metrics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MetricsResponse{Pages: pages, Total: total})
}
