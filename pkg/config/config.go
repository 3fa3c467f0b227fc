// Package config loads the policy engine configuration. Files may be JSON5
// (the native format) or YAML; both decode into the same structures.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"

	"github.com/beeper/toolgate/pkg/toolpolicy"
)

// Config is the engine's configuration document.
type Config struct {
	Tools        *toolpolicy.GlobalToolPolicyConfig       `json:"tools,omitempty" yaml:"tools"`
	ToolProfiles map[string]toolpolicy.NamedProfileConfig `json:"toolProfiles,omitempty" yaml:"toolProfiles"`
	Agents       map[string]AgentConfig                   `json:"agents,omitempty" yaml:"agents"`
	Session      *SessionConfig                           `json:"session,omitempty" yaml:"session"`
}

// AgentConfig is the per-agent configuration slice the engine consumes.
type AgentConfig struct {
	Tools *toolpolicy.ToolPolicyConfig `json:"tools,omitempty" yaml:"tools"`
}

// SessionConfig points at the session override store.
type SessionConfig struct {
	// Store is the override store path; `{agentId}` is substituted.
	Store string `json:"store,omitempty" yaml:"store"`
}

// Load reads a config file, tolerating a missing file (empty config).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := json5.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// AgentTools returns the tool policy config for an agent id, or nil.
func (c *Config) AgentTools(agentID string) *toolpolicy.ToolPolicyConfig {
	if c == nil {
		return nil
	}
	agent, ok := c.Agents[agentID]
	if !ok {
		return nil
	}
	return agent.Tools
}

// EffectivePolicyParams assembles the resolution inputs for one session.
func (c *Config) EffectivePolicyParams(agentID, provider, modelID string, group *toolpolicy.ToolPolicyConfig) toolpolicy.EffectivePolicyParams {
	params := toolpolicy.EffectivePolicyParams{
		Group:         group,
		ModelProvider: provider,
		ModelID:       modelID,
	}
	if c != nil {
		params.Global = c.Tools
		params.Agent = c.AgentTools(agentID)
	}
	return params
}

// SessionStorePath resolves the configured session store path for an agent.
func (c *Config) SessionStorePath(agentID string) string {
	raw := ""
	if c != nil && c.Session != nil {
		raw = c.Session.Store
	}
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return strings.ReplaceAll(raw, "{agentId}", strings.TrimSpace(agentID))
}
