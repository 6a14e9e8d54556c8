// Package assemble loads the resolved documents and concatenates their
// text into one bounded context blob for the model prompt.
package assemble

import (
	"fmt"
	"strings"

	"randomwalk/pkg/core/docs"
	"randomwalk/pkg/core/faults"
)

// DefaultBudget is the per-document character cap. It is a token-cost
// control, configurable rather than hardcoded.
const DefaultBudget = 8000

// Fragment delimiter between documents in the assembled context.
const delimiter = "\n---\n"

// DocumentLoader is the slice of the document store the assembler needs.
type DocumentLoader interface {
	Resolve(name string) (docs.Handle, error)
	LoadText(h docs.Handle) (string, error)
}

// FailedDoc records one document that could not be used, with a short
// reason for the caller.
type FailedDoc struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Context is the assembled prompt context. Used and Failed together cover
// every requested document.
type Context struct {
	Text      string
	Used      []string
	Failed    []FailedDoc
	Truncated []string // documents whose text exceeded the budget
}

// Assembler builds Contexts from document name lists.
type Assembler struct {
	loader DocumentLoader
	budget int
}

// NewAssembler creates an assembler over the given loader. A non-positive
// budget falls back to DefaultBudget.
func NewAssembler(loader DocumentLoader, budget int) *Assembler {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Assembler{loader: loader, budget: budget}
}

// Assemble loads every named document in order. Per-document failures are
// recorded and skipped; one bad document never aborts the batch. Only when
// every document fails does Assemble return NoUsableDocuments.
func (a *Assembler) Assemble(names []string) (*Context, error) {
	ctx := &Context{}
	var fragments []string

	for _, name := range names {
		handle, err := a.loader.Resolve(name)
		if err != nil {
			fmt.Printf("[WARNING] Skipping document %s: %v\n", name, err)
			ctx.Failed = append(ctx.Failed, FailedDoc{Name: name, Reason: failureReason(err)})
			continue
		}
		text, err := a.loader.LoadText(handle)
		if err != nil {
			fmt.Printf("[WARNING] Skipping document %s: %v\n", handle.Name, err)
			ctx.Failed = append(ctx.Failed, FailedDoc{Name: handle.Name, Reason: failureReason(err)})
			continue
		}

		if len(text) > a.budget {
			// Cut at the budget, then drop any rune split by the cut.
			text = strings.ToValidUTF8(text[:a.budget], "")
			ctx.Truncated = append(ctx.Truncated, handle.Name)
		}
		fragments = append(fragments, fmt.Sprintf("[FILE: %s]\n%s\n", handle.Name, text))
		ctx.Used = append(ctx.Used, handle.Name)
	}

	if len(ctx.Used) == 0 {
		return nil, faults.New(faults.NoUsableDocuments, "none of the %d requested documents could be loaded", len(names))
	}

	ctx.Text = strings.Join(fragments, delimiter)
	return ctx, nil
}

// failureReason keeps the per-document reason short and kind-tagged.
func failureReason(err error) string {
	if kind := faults.KindOf(err); kind != faults.Unknown {
		return kind.String()
	}
	return err.Error()
}
