package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalYAML(t *testing.T) {
	type holder struct {
		D Duration `yaml:"d"`
	}

	tests := []struct {
		name     string
		yaml     string
		expected time.Duration
		wantErr  bool
	}{
		{"integer seconds", "d: 30", 30 * time.Second, false},
		{"float seconds", "d: 0.5", 500 * time.Millisecond, false},
		{"duration string", `d: "1m30s"`, 90 * time.Second, false},
		{"zero", "d: 0", 0, false},
		{"malformed string", `d: "soon"`, 0, true},
		{"wrong kind", "d: [1, 2]", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h holder
			err := yaml.Unmarshal([]byte(tt.yaml), &h)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, h.D.Std())
		})
	}
}

func TestDurationSeconds(t *testing.T) {
	assert.Equal(t, 86400.0, Duration(24*time.Hour).Seconds())
}

func TestAddrFormatting(t *testing.T) {
	s := &GRPCConfig{Host: "0.0.0.0", Port: 50051}
	assert.Equal(t, "0.0.0.0:50051", s.Addr())

	g := &WebConfig{Host: "127.0.0.1", Port: 8000}
	assert.Equal(t, "127.0.0.1:8000", g.Addr())
}
