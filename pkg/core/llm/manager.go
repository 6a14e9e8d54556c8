package llm

import (
	"strings"
)

// DefaultModel is used when the caller does not select one.
const DefaultModel = "gemini-2.0-flash"

// Config selects the active provider and default model, loaded from the
// models yaml file.
type Config struct {
	ActiveProvider string `yaml:"active_provider"`
	DefaultModel   string `yaml:"default_model"`
}

// Manager routes model identifiers to providers.
type Manager struct {
	config    Config
	providers map[string]Provider
}

// NewManager creates a manager with all known providers registered.
func NewManager(config Config) *Manager {
	if config.ActiveProvider == "" {
		config.ActiveProvider = "gemini"
	}
	if config.DefaultModel == "" {
		config.DefaultModel = DefaultModel
	}
	return &Manager{
		config: config,
		providers: map[string]Provider{
			"gemini":   &GeminiProvider{},
			"deepseek": NewDeepSeekProvider(),
		},
	}
}

// DefaultModelID returns the configured default model identifier.
func (m *Manager) DefaultModelID() string {
	return m.config.DefaultModel
}

// Route maps a model identifier to its provider. Model families are keyed
// by prefix ("gemini-..." / "deepseek-..."); anything else goes to the
// active provider.
func (m *Manager) Route(modelID string) Provider {
	for name, provider := range m.providers {
		if strings.HasPrefix(modelID, name) {
			return provider
		}
	}
	return m.providers[m.config.ActiveProvider]
}

// RegisterProvider replaces or adds a provider, used by tests to inject
// mocks.
func (m *Manager) RegisterProvider(name string, p Provider) {
	m.providers[name] = p
}
