package toolpolicy

import "strings"

// EffectiveToolPolicy collects the resolved policies for every config scope
// that feeds the default pipeline.
type EffectiveToolPolicy struct {
	GlobalPolicy         *ToolPolicy
	GlobalProviderPolicy *ToolPolicy
	AgentPolicy          *ToolPolicy
	AgentProviderPolicy  *ToolPolicy
	GroupPolicy          *ToolPolicy
	Profile              string
	ProviderProfile      string
	ProfileAlsoAllow     []string
	ProviderAlsoAllow    []string
}

// EffectivePolicyParams names the config scopes consulted during resolution.
type EffectivePolicyParams struct {
	Global        *GlobalToolPolicyConfig
	Agent         *ToolPolicyConfig
	Group         *ToolPolicyConfig
	ModelProvider string
	ModelID       string
}

// ResolveEffectiveToolPolicy resolves global, agent, and group policies
// plus their provider-scoped overrides. The agent scope shadows the global
// scope for profile and alsoAllow selection.
func ResolveEffectiveToolPolicy(params EffectivePolicyParams) EffectiveToolPolicy {
	globalConfig := globalAsToolPolicyConfig(params.Global)

	profile := ""
	if params.Agent != nil && params.Agent.Profile != "" {
		profile = string(params.Agent.Profile)
	} else if globalConfig != nil {
		profile = string(globalConfig.Profile)
	}

	globalProvider := resolveProviderToolPolicy(globalConfig, params.ModelProvider, params.ModelID)
	agentProvider := resolveProviderToolPolicy(params.Agent, params.ModelProvider, params.ModelID)

	providerProfile := ""
	if agentProvider != nil && agentProvider.Profile != "" {
		providerProfile = string(agentProvider.Profile)
	} else if globalProvider != nil {
		providerProfile = string(globalProvider.Profile)
	}

	return EffectiveToolPolicy{
		GlobalPolicy:         PickToolPolicy(globalConfig),
		GlobalProviderPolicy: PickToolPolicy(globalProvider),
		AgentPolicy:          PickToolPolicy(params.Agent),
		AgentProviderPolicy:  PickToolPolicy(agentProvider),
		GroupPolicy:          PickToolPolicy(params.Group),
		Profile:              profile,
		ProviderProfile:      providerProfile,
		ProfileAlsoAllow:     resolveAlsoAllow(params.Agent, globalConfig),
		ProviderAlsoAllow:    resolveAlsoAllow(agentProvider, globalProvider),
	}
}

func resolveAlsoAllow(agent, global *ToolPolicyConfig) []string {
	if agent != nil && len(agent.AlsoAllow) > 0 {
		return agent.AlsoAllow
	}
	if global != nil {
		return global.AlsoAllow
	}
	return nil
}

func globalAsToolPolicyConfig(global *GlobalToolPolicyConfig) *ToolPolicyConfig {
	if global == nil {
		return nil
	}
	return &ToolPolicyConfig{
		Allow:      global.Allow,
		AlsoAllow:  global.AlsoAllow,
		Deny:       global.Deny,
		Profile:    global.Profile,
		ByProvider: global.ByProvider,
	}
}

func normalizeProviderKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// resolveProviderToolPolicy picks the byProvider entry for the current
// model. Keys are matched case-insensitively; a `provider/model` key takes
// precedence over a bare provider key.
func resolveProviderToolPolicy(base *ToolPolicyConfig, provider, modelID string) *ToolPolicyConfig {
	if base == nil || provider == "" || len(base.ByProvider) == 0 {
		return nil
	}
	lookup := make(map[string]ToolPolicyConfig, len(base.ByProvider))
	for key, value := range base.ByProvider {
		if normalized := normalizeProviderKey(key); normalized != "" {
			lookup[normalized] = value
		}
	}

	normalizedProvider := normalizeProviderKey(provider)
	fullModel := strings.ToLower(strings.TrimSpace(modelID))
	if fullModel != "" && !strings.Contains(fullModel, "/") {
		fullModel = normalizedProvider + "/" + fullModel
	}

	for _, key := range []string{fullModel, normalizedProvider} {
		if key == "" {
			continue
		}
		if match, ok := lookup[key]; ok {
			return &match
		}
	}
	return nil
}

var defaultSubagentDeny = []string{
	"sessions_list",
	"sessions_history",
	"sessions_send",
	"sessions_spawn",
	"session_status",
	"agents_list",
	"list_models",
	"list_tools",
	"gateway",
	"cron",
	"memory_search",
	"memory_get",
}

// ResolveSubagentToolPolicy returns the default policy applied to subagent
// sessions. Config deny entries extend the defaults; deny wins.
func ResolveSubagentToolPolicy(global *GlobalToolPolicyConfig) *ToolPolicy {
	deny := append([]string(nil), defaultSubagentDeny...)
	var allow []string
	if global != nil && global.Subagents != nil && global.Subagents.Tools != nil {
		deny = append(deny, global.Subagents.Tools.Deny...)
		allow = global.Subagents.Tools.Allow
	}
	return &ToolPolicy{Allow: allow, Deny: deny}
}
