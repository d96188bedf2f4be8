package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Resolve the config file path (.yaml falls back to .json)
//  2. Read the file and expand ${VAR} environment placeholders
//  3. Parse into structs (JSON parses through the YAML reader)
//  4. Merge user values over built-in defaults
//  5. Build the model registry and resolve the default model
//  6. Validate all configuration
//  7. Return Config ready for use
func Initialize(ctx context.Context, path string) (*Config, error) {
	log := slog.With("config_path", path)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully",
		"models", stats.Models,
		"active_models", stats.ActiveModels,
		"default_model", cfg.DefaultModel,
		"mode", cfg.Agent.Mode)

	return cfg, nil
}

// load is the internal loader (not exported)
func load(_ context.Context, path string) (*Config, error) {
	loader := &configLoader{path: path}

	fileCfg, err := loader.loadFile()
	if err != nil {
		return nil, NewLoadError(loader.path, err)
	}

	// Merge user values over built-in defaults (non-zero user values win)
	merged := DefaultFileConfig()
	if err := mergo.Merge(merged, fileCfg, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge configuration: %w", err)
	}

	// Map keys are the authoritative model ids
	for id, m := range merged.Models {
		if m == nil {
			m = &ModelConfig{}
			merged.Models[id] = m
		}
		m.ID = id
	}

	registry := NewModelRegistry(merged.Models)

	return &Config{
		configPath:    loader.path,
		GRPC:          merged.GRPC,
		Web:           merged.Web,
		Agent:         merged.Agent,
		Session:       merged.Session,
		DefaultModel:  resolveDefaultModel(merged.DefaultModel, registry),
		ModelRegistry: registry,
	}, nil
}

// validate performs comprehensive validation on loaded configuration
func validate(cfg *Config) error {
	validator := NewValidator(cfg)
	return validator.ValidateAll()
}

type configLoader struct {
	path string
}

// loadFile reads, expands, and parses the config file. A .yaml path
// whose file does not exist falls back to the .json sibling, matching
// how deployments ship either format.
func (l *configLoader) loadFile() (*FileConfig, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		if alt, ok := jsonSibling(l.path); ok {
			if _, err := os.Stat(alt); err == nil {
				slog.Debug("Config file missing, using JSON sibling", "path", l.path, "sibling", alt)
				l.path = alt
			}
		}
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, l.path)
		}
		return nil, err
	}

	// Expand ${VAR} placeholders; unresolved ones survive verbatim and
	// are handled downstream (model availability, validation).
	data = ExpandEnv(data)

	// yaml.v3 parses JSON content as well, so one unmarshal path serves
	// both file formats.
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if cfg.Models == nil {
		cfg.Models = make(map[string]*ModelConfig)
	}

	return &cfg, nil
}

// jsonSibling maps config.yaml / config.yml to config.json.
func jsonSibling(path string) (string, bool) {
	switch {
	case strings.HasSuffix(path, ".yaml"):
		return strings.TrimSuffix(path, ".yaml") + ".json", true
	case strings.HasSuffix(path, ".yml"):
		return strings.TrimSuffix(path, ".yml") + ".json", true
	default:
		return "", false
	}
}

// resolveDefaultModel returns the configured default, or the first
// active profile (by id) when the config leaves it unset.
func resolveDefaultModel(configured string, registry *ModelRegistry) string {
	if configured != "" {
		return configured
	}
	if active := registry.ActiveModels(); len(active) > 0 {
		return active[0].ID
	}
	if ids := registry.IDs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}
