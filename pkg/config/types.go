package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from either form used in
// config files:
//   - Bare number:      tool_timeout: 30        (seconds)
//   - Duration string:  tool_timeout: "30s"
type Duration time.Duration

// UnmarshalYAML implements custom unmarshaling for both numeric-seconds
// and duration-string forms.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Tag {
	case "!!int", "!!float":
		var secs float64
		if err := value.Decode(&secs); err != nil {
			return err
		}
		*d = Duration(time.Duration(secs * float64(time.Second)))
		return nil
	case "!!str":
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("duration must be seconds or a duration string, got %s", value.Tag)
	}
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Seconds returns the duration in seconds.
func (d Duration) Seconds() float64 {
	return time.Duration(d).Seconds()
}

// GRPCConfig holds the agent gRPC endpoint. The agent binds it; the
// gateway dials it. Both binaries read the same section, so a single
// config file keeps the two tiers pointed at each other.
type GRPCConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the host:port bind address.
func (c *GRPCConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DialAddr returns the address the gateway should dial. A wildcard bind
// host is not dialable, so it maps to localhost.
func (c *GRPCConfig) DialAddr() string {
	host := c.Host
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "localhost"
	}
	return fmt.Sprintf("%s:%d", host, c.Port)
}

// WebConfig holds the HTTP gateway listener settings.
type WebConfig struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`

	// StreamTimeout bounds a single SSE chat stream end to end.
	StreamTimeout Duration `yaml:"stream_timeout"`

	// HeartbeatInterval is the idle gap after which a heartbeat event
	// is written to keep proxies from closing the SSE connection.
	HeartbeatInterval Duration `yaml:"heartbeat_interval"`
}

// Addr returns the host:port bind address.
func (c *WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AgentConfig holds the reasoning engine settings.
type AgentConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// MaxSteps caps the think-act loop per turn.
	MaxSteps int `yaml:"max_steps"`

	// ToolTimeout is the default per-tool execution timeout.
	ToolTimeout Duration `yaml:"tool_timeout"`

	// MaxWorkingMemory bounds the rolling conversation window kept per
	// session.
	MaxWorkingMemory int `yaml:"max_working_memory"`

	// Mode selects the orchestration strategy: direct, react, or plan.
	Mode string `yaml:"mode"`
}

// SessionConfig controls gateway session and agent-side orchestrator
// lifetimes.
type SessionConfig struct {
	// TTL is the idle time after which a session is evicted.
	TTL Duration `yaml:"ttl"`

	// ReaperInterval is how often the eviction scan runs.
	ReaperInterval Duration `yaml:"reaper_interval"`
}

// FileConfig is the root structure of wayfarer.yaml (or .json).
type FileConfig struct {
	GRPC         *GRPCConfig             `yaml:"grpc"`
	Web          *WebConfig              `yaml:"web"`
	Agent        *AgentConfig            `yaml:"agent"`
	DefaultModel string                  `yaml:"default_model"`
	Models       map[string]*ModelConfig `yaml:"models"`
	Session      *SessionConfig          `yaml:"session"`
}
