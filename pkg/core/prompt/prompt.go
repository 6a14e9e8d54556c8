// Package prompt provides the prompt library for LLM interactions.
// Templates are versioned data, not logic: they can be defined in JSON
// files and loaded at runtime, with the built-in trend-analysis template
// always available as a fallback.
package prompt

// Template represents a reusable prompt with metadata.
type Template struct {
	ID             string     `json:"id"`                   // Unique identifier (e.g., "analysis.trend")
	Name           string     `json:"name"`                 // Human-readable name
	Category       string     `json:"category"`             // Category (analysis, assistant, ...)
	Description    string     `json:"description"`          // Description of prompt purpose
	SystemPrompt   string     `json:"system_prompt"`        // The system prompt content
	UserPromptTmpl string     `json:"user_prompt_template"` // Go template for the user prompt
	Variables      []Variable `json:"variables"`            // Variables used in the template
	Version        string     `json:"version"`              // Version for tracking changes
}

// Variable defines a variable used in a prompt template.
type Variable struct {
	Name        string `json:"name"`        // Variable name (e.g., "Ticker")
	Type        string `json:"type"`        // Type: string, int, float
	Description string `json:"description"` // What this variable represents
	Required    bool   `json:"required"`    // Whether this variable is required
}

// Pair is the (system instruction, user query) pair sent to the gateway.
type Pair struct {
	System string
	User   string
}

// ExecutionContext holds runtime values for template execution.
type ExecutionContext struct {
	Variables map[string]interface{}
}

// NewContext creates a new execution context.
func NewContext() *ExecutionContext {
	return &ExecutionContext{Variables: make(map[string]interface{})}
}

// Set adds a variable to the context.
func (c *ExecutionContext) Set(key string, value interface{}) *ExecutionContext {
	c.Variables[key] = value
	return c
}
