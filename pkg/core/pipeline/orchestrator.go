// Package pipeline composes the analysis flow: range resolution, document
// loading, context assembly, prompt building, the model call, and response
// interpretation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"randomwalk/pkg/core/assemble"
	"randomwalk/pkg/core/company"
	"randomwalk/pkg/core/docs"
	"randomwalk/pkg/core/interpret"
	"randomwalk/pkg/core/period"
	"randomwalk/pkg/core/prompt"
)

// ContextAssembler turns an ordered document-name list into a bounded
// context blob.
type ContextAssembler interface {
	Assemble(names []string) (*assemble.Context, error)
}

// ModelCaller performs one external model invocation. DefaultModelID
// names the model used when the caller does not pick one.
type ModelCaller interface {
	Call(ctx context.Context, modelID string, pair prompt.Pair) (string, error)
	DefaultModelID() string
}

// PromptBuilder renders the instruction pair for a company and range.
type PromptBuilder func(identity company.Identity, rng period.Range, ctx *assemble.Context) (prompt.Pair, error)

// Request selects what to analyze. DocumentNames, when present, bypasses
// range-based derivation but keeps the document safety contract.
type Request struct {
	Company       string
	StartQuarter  string
	EndQuarter    string
	ModelID       string
	DocumentNames []string
}

// Outcome is the interpreted result plus the document bookkeeping the
// caller needs for traceability.
type Outcome struct {
	Result          *interpret.Result
	Model           string
	UsedDocuments   []string
	FailedDocuments []assemble.FailedDoc
}

// Orchestrator runs the document-to-analysis pipeline. It is stateless
// across invocations; every call builds its context from scratch.
type Orchestrator struct {
	catalog   *period.Catalog
	companies *company.Registry
	store     *docs.Store
	assembler ContextAssembler
	builder   PromptBuilder
	gateway   ModelCaller
}

// NewOrchestrator wires the pipeline with production collaborators.
func NewOrchestrator(catalog *period.Catalog, store *docs.Store, gateway ModelCaller, contextBudget int) *Orchestrator {
	return &Orchestrator{
		catalog:   catalog,
		companies: company.NewRegistry(),
		store:     store,
		assembler: assemble.NewAssembler(store, contextBudget),
		builder:   prompt.BuildTrendPrompt,
		gateway:   gateway,
	}
}

// NewOrchestratorWithDeps injects every collaborator, used by tests.
func NewOrchestratorWithDeps(catalog *period.Catalog, companies *company.Registry, store *docs.Store,
	assembler ContextAssembler, builder PromptBuilder, gateway ModelCaller) *Orchestrator {
	return &Orchestrator{
		catalog:   catalog,
		companies: companies,
		store:     store,
		assembler: assembler,
		builder:   builder,
		gateway:   gateway,
	}
}

// RunAnalysis executes the full pipeline for one request. Input and access
// errors surface typed before any model call; per-document load failures
// are absorbed into the outcome unless every document failed.
func (o *Orchestrator) RunAnalysis(ctx context.Context, req Request) (*Outcome, error) {
	start := time.Now()

	// 1. Resolve the company.
	identity, err := o.companies.Lookup(req.Company)
	if err != nil {
		return nil, err
	}

	// 2. Resolve the quarter range. Fails before any document access.
	rng, err := o.catalog.ResolveRange(req.StartQuarter, req.EndQuarter)
	if err != nil {
		return nil, err
	}

	// 3. Derive the document list, unless the caller supplied one.
	names := req.DocumentNames
	if len(names) == 0 {
		for _, p := range o.catalog.PeriodsInRange(rng) {
			names = append(names, o.store.DeriveName(identity.Name, p))
		}
	}

	// 4. Load and bound the context.
	assembled, err := o.assembler.Assemble(names)
	if err != nil {
		return nil, err
	}

	// 5. Build the prompt pair.
	pair, err := o.builder(identity, rng, assembled)
	if err != nil {
		return nil, fmt.Errorf("prompt build failed: %w", err)
	}

	// 6. Call the model. The outcome reports the model actually used, so
	// an omitted ID is resolved to the default here.
	modelID := req.ModelID
	if modelID == "" {
		modelID = o.gateway.DefaultModelID()
	}
	raw, err := o.gateway.Call(ctx, modelID, pair)
	if err != nil {
		return nil, err
	}

	// 7. Interpret. Unparseable output degrades, never fails.
	result := interpret.Interpret(raw)

	fmt.Printf("[PIPELINE] Analysis for %s %s-%s completed in %v (%d documents used, %d failed)\n",
		identity.Ticker, rng.Start, rng.End, time.Since(start), len(assembled.Used), len(assembled.Failed))

	return &Outcome{
		Result:          result,
		Model:           modelID,
		UsedDocuments:   assembled.Used,
		FailedDocuments: assembled.Failed,
	}, nil
}
