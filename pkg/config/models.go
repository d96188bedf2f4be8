package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// ModelConfig defines one switchable model profile. Profiles are keyed
// by model id in the config file; ID is filled in by the loader.
type ModelConfig struct {
	ID string `yaml:"-"`

	// Display name for pickers; defaults to the model id.
	Name string `yaml:"name,omitempty"`

	// Provider label (openai, anthropic, ollama, ...). Informational:
	// every provider is reached through the OpenAI-compatible surface.
	Provider string `yaml:"provider,omitempty"`

	APIKey  string `yaml:"api_key,omitempty"`
	APIBase string `yaml:"api_base,omitempty"`

	// Model is the upstream model name; defaults to the model id.
	Model string `yaml:"model,omitempty"`

	// Optional overrides; zero values take the LLM client defaults.
	Temperature float64  `yaml:"temperature,omitempty"`
	MaxTokens   int      `yaml:"max_tokens,omitempty"`
	Timeout     Duration `yaml:"timeout,omitempty"`
	MaxRetries  int      `yaml:"max_retries,omitempty"`
}

// DisplayName returns the configured name or falls back to the id.
func (m *ModelConfig) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// ModelName returns the upstream model name or falls back to the id.
func (m *ModelConfig) ModelName() string {
	if m.Model != "" {
		return m.Model
	}
	return m.ID
}

// Active reports whether the profile has a usable API key. Placeholder
// configurations are treated as disabled so they never reach pickers:
//   - empty key
//   - key containing "YOUR_" (template text)
//   - unresolved ${VAR} placeholder whose variable is still unset
func (m *ModelConfig) Active() bool {
	key := m.APIKey
	if key == "" {
		return false
	}
	if strings.HasPrefix(key, "${") && strings.HasSuffix(key, "}") {
		name := key[2 : len(key)-1]
		return os.Getenv(name) != ""
	}
	if strings.Contains(strings.ToUpper(key), "YOUR_") {
		return false
	}
	return true
}

// ModelRegistry stores model profiles in memory with thread-safe access
type ModelRegistry struct {
	models map[string]*ModelConfig
	mu     sync.RWMutex
}

// NewModelRegistry creates a new model registry
func NewModelRegistry(models map[string]*ModelConfig) *ModelRegistry {
	// Defensive copy to prevent external mutation
	copied := make(map[string]*ModelConfig, len(models))
	for k, v := range models {
		copied[k] = v
	}
	return &ModelRegistry{
		models: copied,
	}
}

// Get retrieves a model profile by id (thread-safe)
func (r *ModelRegistry) Get(id string) (*ModelConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	model, exists := r.models[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}
	return model, nil
}

// GetAll returns all model profiles (thread-safe, returns copy)
func (r *ModelRegistry) GetAll() map[string]*ModelConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*ModelConfig, len(r.models))
	for k, v := range r.models {
		result[k] = v
	}
	return result
}

// Has checks if a model profile exists in the registry (thread-safe)
func (r *ModelRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.models[id]
	return exists
}

// Len returns the number of model profiles in the registry (thread-safe)
func (r *ModelRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// IDs returns a sorted list of all model ids.
func (r *ModelRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.models))
	for id := range r.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ActiveModels returns the profiles with usable API keys, sorted by id.
// Only these are exposed to model pickers.
func (r *ModelRegistry) ActiveModels() []*ModelConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []*ModelConfig
	for _, m := range r.models {
		if m.Active() {
			active = append(active, m)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active
}
