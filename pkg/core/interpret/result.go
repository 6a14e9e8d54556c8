// Package interpret turns raw model output into the analysis result
// structure, degrading to a raw-text wrapper when parsing fails.
package interpret

// Evidence substantiates one finding with a verbatim quote and the source
// document it came from. Every structured leaf carries evidence, keeping
// results traceable back to the assembled context.
type Evidence struct {
	Quote string `json:"quote"`
	File  string `json:"file"`
}

// Theme is one recurring strategic theme and its evolution across the
// analyzed range.
type Theme struct {
	Name      string     `json:"name"`
	Evolution string     `json:"evolution"`
	Evidence  []Evidence `json:"evidence"`
}

// TurningPoint marks a quarter where management's focus visibly shifted.
type TurningPoint struct {
	Year        int        `json:"year"`
	Quarter     int        `json:"quarter"`
	Description string     `json:"description"`
	Evidence    []Evidence `json:"evidence"`
}

// Risk is one risk highlighted across the range.
type Risk struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Evidence    []Evidence `json:"evidence"`
}

// Analysis is the structured result shape the model is asked to produce.
type Analysis struct {
	Themes        []Theme        `json:"themes"`
	TurningPoints []TurningPoint `json:"turning_points"`
	Risks         []Risk         `json:"risks"`
}

// Result is either a structured Analysis or the raw model output when the
// response could not be parsed. Exactly one of the two fields is set.
type Result struct {
	Analysis  *Analysis `json:"analysis,omitempty"`
	RawOutput string    `json:"raw_output,omitempty"`
}

// IsStructured reports whether the result carries a parsed analysis.
func (r *Result) IsStructured() bool {
	return r.Analysis != nil
}
