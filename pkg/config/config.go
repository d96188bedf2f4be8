package config

// Config is the umbrella configuration object returned by Initialize()
// and used throughout the application. Both binaries load the same file;
// the agent reads GRPC/Agent/Models/Session, the gateway reads
// Web/GRPC/Models/Session.
type Config struct {
	configPath string // Configuration file path (for reference)

	GRPC    *GRPCConfig
	Web     *WebConfig
	Agent   *AgentConfig
	Session *SessionConfig

	// DefaultModel is the model profile serving requests that do not
	// name one. Resolved at load time and guaranteed by validation to
	// exist in the registry.
	DefaultModel string

	ModelRegistry *ModelRegistry
}

// Stats contains statistics about loaded configuration
type Stats struct {
	Models       int
	ActiveModels int
}

// Stats returns configuration statistics for logging/monitoring
func (c *Config) Stats() Stats {
	s := Stats{}
	if c.ModelRegistry != nil {
		s.Models = c.ModelRegistry.Len()
		s.ActiveModels = len(c.ModelRegistry.ActiveModels())
	}
	return s
}

// ConfigPath returns the configuration file path
func (c *Config) ConfigPath() string {
	return c.configPath
}

// GetModel retrieves a model profile by id.
// This is a convenience method that wraps ModelRegistry.Get().
func (c *Config) GetModel(id string) (*ModelConfig, error) {
	return c.ModelRegistry.Get(id)
}

// HasModel checks whether a model profile exists.
func (c *Config) HasModel(id string) bool {
	return c.ModelRegistry.Has(id)
}

// DefaultModelConfig returns the profile behind DefaultModel.
func (c *Config) DefaultModelConfig() (*ModelConfig, error) {
	return c.ModelRegistry.Get(c.DefaultModel)
}
