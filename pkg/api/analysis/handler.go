package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"randomwalk/pkg/core/assemble"
	"randomwalk/pkg/core/company"
	"randomwalk/pkg/core/faults"
	"randomwalk/pkg/core/interpret"
	"randomwalk/pkg/core/period"
	"randomwalk/pkg/core/pipeline"
)

// Runner executes one analysis request.
type Runner interface {
	RunAnalysis(ctx context.Context, req pipeline.Request) (*pipeline.Outcome, error)
}

type AnalysisRequest struct {
	Company      string   `json:"company"`
	StartQuarter string   `json:"start_quarter"`
	EndQuarter   string   `json:"end_quarter"`
	Model        string   `json:"model,omitempty"`
	Documents    []string `json:"documents,omitempty"`
}

type AnalysisResponse struct {
	Company         string               `json:"company"`
	Ticker          string               `json:"ticker"`
	StartQuarter    string               `json:"start_quarter"`
	EndQuarter      string               `json:"end_quarter"`
	Model           string               `json:"model"`
	Result          *interpret.Result    `json:"result"`
	Markdown        string               `json:"markdown"`
	UsedDocuments   []string             `json:"used_documents"`
	FailedDocuments []assemble.FailedDoc `json:"failed_documents,omitempty"`
}

type OptionsResponse struct {
	Companies    []string `json:"companies"`
	Quarters     []string `json:"quarters"`
	DefaultModel string   `json:"default_model"`
}

// DefaultTimeout bounds one analysis request end to end, covering every
// retry the gateway may attempt.
const DefaultTimeout = 5 * time.Minute

// Handler holds dependencies for analysis endpoints
type Handler struct {
	Runner       Runner
	Catalog      *period.Catalog
	Companies    *company.Registry
	DefaultModel string
	Timeout      time.Duration
}

// NewHandler creates a new analysis handler
func NewHandler(runner Runner, catalog *period.Catalog, companies *company.Registry, defaultModel string) *Handler {
	return &Handler{
		Runner:       runner,
		Catalog:      catalog,
		Companies:    companies,
		DefaultModel: defaultModel,
		Timeout:      DefaultTimeout,
	}
}

// HandleAnalyze runs the full pipeline for one company and quarter range.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
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

	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	outcome, err := h.Runner.RunAnalysis(ctx, pipeline.Request{
		Company:       req.Company,
		StartQuarter:  req.StartQuarter,
		EndQuarter:    req.EndQuarter,
		ModelID:       req.Model,
		DocumentNames: req.Documents,
	})
	if err != nil {
		fmt.Printf("[ANALYSIS] Request failed: %v\n", err)
		http.Error(w, err.Error(), StatusForFault(err))
		return
	}

	identity, lookupErr := h.Companies.Lookup(req.Company)
	if lookupErr != nil {
		// The runner already resolved the company, so this cannot fail here.
		http.Error(w, lookupErr.Error(), http.StatusInternalServerError)
		return
	}

	resp := AnalysisResponse{
		Company:         identity.Name,
		Ticker:          identity.Ticker,
		StartQuarter:    req.StartQuarter,
		EndQuarter:      req.EndQuarter,
		Model:           outcome.Model,
		Result:          outcome.Result,
		Markdown:        interpret.RenderMarkdown(outcome.Result),
		UsedDocuments:   outcome.UsedDocuments,
		FailedDocuments: outcome.FailedDocuments,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleOptions lists the selectable companies, quarters, and default model.
func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	resp := OptionsResponse{
		Companies:    h.Companies.Names(),
		Quarters:     h.Catalog.Tokens(),
		DefaultModel: h.DefaultModel,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// StatusForFault maps the pipeline fault taxonomy onto HTTP statuses.
// Caller mistakes are 400, containment violations 403, document problems
// 422, upstream model failures 502, and deadline overruns 504.
func StatusForFault(err error) int {
	switch faults.KindOf(err) {
	case faults.InvalidPeriod, faults.InvertedRange, faults.UnknownCompany:
		return http.StatusBadRequest
	case faults.AccessDenied:
		return http.StatusForbidden
	case faults.DocumentNotFound, faults.UnsupportedFormat, faults.NoUsableDocuments:
		return http.StatusUnprocessableEntity
	case faults.MissingCredential, faults.GatewayRequest, faults.GatewayExhausted:
		return http.StatusBadGateway
	case faults.Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
