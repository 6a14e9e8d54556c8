// Package period models fiscal quarters and inclusive quarter ranges.
// The catalog is a pure enumeration over a year span; there is no
// package-level mutable state.
package period

import (
	"fmt"
	"strconv"
	"strings"

	"randomwalk/pkg/core/faults"
)

// Period is a single fiscal quarter. Periods order by (Year, Quarter).
type Period struct {
	Year    int
	Quarter int
}

// String renders the canonical YYYYQn token, e.g. "2020Q1".
func (p Period) String() string {
	return fmt.Sprintf("%dQ%d", p.Year, p.Quarter)
}

// Before reports whether p is strictly earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Quarter < other.Quarter
}

// Parse converts a YYYYQn token into a Period. It validates shape only;
// catalog membership is checked by Catalog.ResolveRange.
func Parse(token string) (Period, error) {
	parts := strings.SplitN(strings.TrimSpace(token), "Q", 2)
	if len(parts) != 2 {
		return Period{}, faults.New(faults.InvalidPeriod, "malformed period token %q", token)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return Period{}, faults.New(faults.InvalidPeriod, "malformed year in period token %q", token)
	}
	quarter, err := strconv.Atoi(parts[1])
	if err != nil || quarter < 1 || quarter > 4 {
		return Period{}, faults.New(faults.InvalidPeriod, "quarter must be 1-4 in period token %q", token)
	}
	return Period{Year: year, Quarter: quarter}, nil
}

// Range is an inclusive span of catalog periods. Start never exceeds End.
type Range struct {
	Start Period
	End   Period
}

// Catalog enumerates the valid periods for a configured year span.
type Catalog struct {
	periods []Period
	index   map[Period]int
}

// Default year span, matching the coverage of the document archive.
const (
	DefaultFromYear = 2020
	DefaultToYear   = 2025
)

// NewCatalog enumerates every quarter across the inclusive year span,
// ascending. Deterministic and side-effect free.
func NewCatalog(fromYear, toYear int) *Catalog {
	c := &Catalog{index: make(map[Period]int)}
	for year := fromYear; year <= toYear; year++ {
		for quarter := 1; quarter <= 4; quarter++ {
			p := Period{Year: year, Quarter: quarter}
			c.index[p] = len(c.periods)
			c.periods = append(c.periods, p)
		}
	}
	return c
}

// DefaultCatalog returns a catalog over the documented default span.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultFromYear, DefaultToYear)
}

// Periods returns the ascending enumeration of all catalog periods.
func (c *Catalog) Periods() []Period {
	out := make([]Period, len(c.periods))
	copy(out, c.periods)
	return out
}

// Tokens returns the YYYYQn tokens for every catalog period, for dropdowns.
func (c *Catalog) Tokens() []string {
	tokens := make([]string, len(c.periods))
	for i, p := range c.periods {
		tokens[i] = p.String()
	}
	return tokens
}

// Contains reports whether the period is part of the catalog.
func (c *Catalog) Contains(p Period) bool {
	_, ok := c.index[p]
	return ok
}

// ResolveRange parses both tokens, checks catalog membership, and returns
// the inclusive range. Start equal to End is a single-period analysis.
// Inverted ranges are rejected, never silently swapped.
func (c *Catalog) ResolveRange(startToken, endToken string) (Range, error) {
	start, err := Parse(startToken)
	if err != nil {
		return Range{}, err
	}
	end, err := Parse(endToken)
	if err != nil {
		return Range{}, err
	}
	if !c.Contains(start) {
		return Range{}, faults.New(faults.InvalidPeriod, "period %s is outside the catalog", start)
	}
	if !c.Contains(end) {
		return Range{}, faults.New(faults.InvalidPeriod, "period %s is outside the catalog", end)
	}
	if end.Before(start) {
		return Range{}, faults.New(faults.InvertedRange, "start %s is after end %s", start, end)
	}
	return Range{Start: start, End: end}, nil
}

// PeriodsInRange returns every catalog period between Start and End
// inclusive, in ascending order.
func (c *Catalog) PeriodsInRange(r Range) []Period {
	startIdx, ok := c.index[r.Start]
	if !ok {
		return nil
	}
	endIdx, ok := c.index[r.End]
	if !ok || endIdx < startIdx {
		return nil
	}
	out := make([]Period, endIdx-startIdx+1)
	copy(out, c.periods[startIdx:endIdx+1])
	return out
}
