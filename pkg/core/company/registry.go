// Package company maps the display names offered by the selection form to
// their ticker symbols.
package company

import (
	"sort"

	"randomwalk/pkg/core/faults"
)

// Identity couples a company display name with its ticker symbol.
type Identity struct {
	Name   string
	Ticker string
}

// Registry is the deterministic name -> ticker lookup table. Unknown
// companies are a distinct error, never a default.
type Registry struct {
	tickers map[string]string
}

// NewRegistry returns the registry for the companies covered by the
// document archive.
func NewRegistry() *Registry {
	return &Registry{tickers: map[string]string{
		"Amazon":    "AMZN",
		"Microsoft": "MSFT",
	}}
}

// Lookup resolves a company name to its identity.
func (r *Registry) Lookup(name string) (Identity, error) {
	ticker, ok := r.tickers[name]
	if !ok {
		return Identity{}, faults.New(faults.UnknownCompany, "company %q is not covered", name)
	}
	return Identity{Name: name, Ticker: ticker}, nil
}

// Names lists the known company names in stable order, for the web form.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tickers))
	for name := range r.tickers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
