package config

import "time"

// Built-in defaults applied before user configuration is merged on top.
const (
	DefaultAgentName    = "旅行助手"
	DefaultAgentVersion = "1.0.0"
	DefaultAgentMode    = "react"

	// DefaultMaxSteps caps the think-act loop per turn.
	DefaultMaxSteps = 10

	// DefaultToolTimeout is the per-tool execution budget.
	DefaultToolTimeout = 30 * time.Second

	// DefaultMaxWorkingMemory bounds the per-session conversation window.
	DefaultMaxWorkingMemory = 10
)

// DefaultFileConfig returns the complete built-in configuration. User
// YAML is merged on top with mergo, so every field here must hold a
// usable value. Model profiles have no default: at least one must come
// from the config file.
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		GRPC: &GRPCConfig{
			Host: "0.0.0.0",
			Port: 50051,
		},
		Web: &WebConfig{
			Host:              "0.0.0.0",
			Port:              8000,
			Debug:             false,
			StreamTimeout:     Duration(120 * time.Second),
			HeartbeatInterval: Duration(30 * time.Second),
		},
		Agent: &AgentConfig{
			Name:             DefaultAgentName,
			Version:          DefaultAgentVersion,
			MaxSteps:         DefaultMaxSteps,
			ToolTimeout:      Duration(DefaultToolTimeout),
			MaxWorkingMemory: DefaultMaxWorkingMemory,
			Mode:             DefaultAgentMode,
		},
		Session: &SessionConfig{
			TTL:            Duration(86400 * time.Second),
			ReaperInterval: Duration(time.Hour),
		},
	}
}
