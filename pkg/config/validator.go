package config

import "fmt"

// Valid orchestration modes for agent.mode.
var validModes = map[string]bool{
	"direct": true,
	"react":  true,
	"plan":   true,
}

// ConfigValidator validates configuration comprehensively with clear error messages
type ConfigValidator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration
func NewValidator(cfg *Config) *ConfigValidator {
	return &ConfigValidator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast - stops at first error)
func (v *ConfigValidator) ValidateAll() error {
	if err := v.validateGRPC(); err != nil {
		return fmt.Errorf("grpc validation failed: %w", err)
	}

	if err := v.validateWeb(); err != nil {
		return fmt.Errorf("web validation failed: %w", err)
	}

	if err := v.validateAgent(); err != nil {
		return fmt.Errorf("agent validation failed: %w", err)
	}

	if err := v.validateModels(); err != nil {
		return fmt.Errorf("model validation failed: %w", err)
	}

	if err := v.validateSession(); err != nil {
		return fmt.Errorf("session validation failed: %w", err)
	}

	return nil
}

func validatePort(component string, port int) error {
	if port < 1 || port > 65535 {
		return NewValidationError(component, "", "port", fmt.Errorf("%w: %d (must be 1-65535)", ErrInvalidValue, port))
	}
	return nil
}

func (v *ConfigValidator) validateGRPC() error {
	return validatePort("grpc", v.cfg.GRPC.Port)
}

func (v *ConfigValidator) validateWeb() error {
	w := v.cfg.Web
	if err := validatePort("web", w.Port); err != nil {
		return err
	}
	if w.StreamTimeout <= 0 {
		return NewValidationError("web", "", "stream_timeout", fmt.Errorf("%w: must be positive", ErrInvalidValue))
	}
	if w.HeartbeatInterval <= 0 {
		return NewValidationError("web", "", "heartbeat_interval", fmt.Errorf("%w: must be positive", ErrInvalidValue))
	}
	return nil
}

func (v *ConfigValidator) validateAgent() error {
	a := v.cfg.Agent
	if a.MaxSteps < 1 {
		return NewValidationError("agent", "", "max_steps", fmt.Errorf("%w: must be at least 1", ErrInvalidValue))
	}
	if a.ToolTimeout <= 0 {
		return NewValidationError("agent", "", "tool_timeout", fmt.Errorf("%w: must be positive", ErrInvalidValue))
	}
	if a.MaxWorkingMemory < 1 {
		return NewValidationError("agent", "", "max_working_memory", fmt.Errorf("%w: must be at least 1", ErrInvalidValue))
	}
	if !validModes[a.Mode] {
		return NewValidationError("agent", "", "mode", fmt.Errorf("%w: %q (must be direct, react, or plan)", ErrInvalidValue, a.Mode))
	}
	return nil
}

func (v *ConfigValidator) validateModels() error {
	registry := v.cfg.ModelRegistry

	// The LLM client is built from a model profile, so an empty registry
	// leaves nothing to serve requests with.
	if registry.Len() == 0 {
		return NewValidationError("models", "", "",
			fmt.Errorf("%w: add at least one model under 'models'", ErrNoModels))
	}

	if !registry.Has(v.cfg.DefaultModel) {
		return NewValidationError("models", v.cfg.DefaultModel, "default_model",
			fmt.Errorf("%w: default model not configured", ErrModelNotFound))
	}

	return nil
}

func (v *ConfigValidator) validateSession() error {
	s := v.cfg.Session
	if s.TTL <= 0 {
		return NewValidationError("session", "", "ttl", fmt.Errorf("%w: must be positive", ErrInvalidValue))
	}
	if s.ReaperInterval <= 0 {
		return NewValidationError("session", "", "reaper_interval", fmt.Errorf("%w: must be positive", ErrInvalidValue))
	}
	return nil
}
