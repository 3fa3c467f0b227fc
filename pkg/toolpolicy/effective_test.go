package toolpolicy

import (
	"slices"
	"testing"
)

func TestResolveEffectiveToolPolicyProfilePrecedence(t *testing.T) {
	eff := ResolveEffectiveToolPolicy(EffectivePolicyParams{
		Global: &GlobalToolPolicyConfig{Profile: ProfileMessaging},
		Agent:  &ToolPolicyConfig{Profile: ProfileCoding},
	})
	if eff.Profile != string(ProfileCoding) {
		t.Fatalf("agent profile must shadow global, got %q", eff.Profile)
	}

	eff = ResolveEffectiveToolPolicy(EffectivePolicyParams{
		Global: &GlobalToolPolicyConfig{Profile: ProfileMessaging},
	})
	if eff.Profile != string(ProfileMessaging) {
		t.Fatalf("global profile should apply, got %q", eff.Profile)
	}
}

func TestResolveEffectiveToolPolicyProviderLookup(t *testing.T) {
	global := &GlobalToolPolicyConfig{
		ByProvider: map[string]ToolPolicyConfig{
			"OpenAI":       {Profile: ProfileMinimal},
			"openai/gpt-6": {Deny: []string{"exec"}},
		},
	}
	eff := ResolveEffectiveToolPolicy(EffectivePolicyParams{
		Global:        global,
		ModelProvider: "openai",
		ModelID:       "GPT-6",
	})
	if eff.GlobalProviderPolicy == nil || !slices.Equal(eff.GlobalProviderPolicy.Deny, []string{"exec"}) {
		t.Fatalf("provider/model key must take precedence: %+v", eff.GlobalProviderPolicy)
	}

	eff = ResolveEffectiveToolPolicy(EffectivePolicyParams{
		Global:        global,
		ModelProvider: "openai",
		ModelID:       "gpt-5",
	})
	if eff.ProviderProfile != string(ProfileMinimal) {
		t.Fatalf("bare provider key should match, got %q", eff.ProviderProfile)
	}
}

func TestResolveEffectiveToolPolicyNoProvider(t *testing.T) {
	eff := ResolveEffectiveToolPolicy(EffectivePolicyParams{
		Global: &GlobalToolPolicyConfig{
			ByProvider: map[string]ToolPolicyConfig{"openai": {Deny: []string{"exec"}}},
		},
	})
	if eff.GlobalProviderPolicy != nil {
		t.Fatal("no provider context must yield no provider policy")
	}
}

func TestResolveEffectiveToolPolicyAlsoAllowPrecedence(t *testing.T) {
	eff := ResolveEffectiveToolPolicy(EffectivePolicyParams{
		Global: &GlobalToolPolicyConfig{AlsoAllow: []string{"web_search"}},
		Agent:  &ToolPolicyConfig{AlsoAllow: []string{"message"}},
	})
	if !slices.Equal(eff.ProfileAlsoAllow, []string{"message"}) {
		t.Fatalf("agent alsoAllow must shadow global: %v", eff.ProfileAlsoAllow)
	}
}

func TestResolveSubagentToolPolicyMergesConfigDeny(t *testing.T) {
	policy := ResolveSubagentToolPolicy(&GlobalToolPolicyConfig{
		Subagents: &SubagentToolPolicyConfig{
			Tools: &ToolPolicyConfig{Deny: []string{"message"}, Allow: []string{"read"}},
		},
	})
	if !slices.Contains(policy.Deny, "sessions_spawn") || !slices.Contains(policy.Deny, "message") {
		t.Fatalf("unexpected subagent deny: %v", policy.Deny)
	}
	if !slices.Equal(policy.Allow, []string{"read"}) {
		t.Fatalf("unexpected subagent allow: %v", policy.Allow)
	}
}
