package toolpolicy

import (
	"fmt"
	"strings"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/beeper/toolgate/pkg/toolcatalog"
)

// Warning is a non-fatal configuration diagnostic emitted while the
// pipeline runs. Each distinct condition fires at most once per run.
type Warning struct {
	Label   string
	Message string
}

// WarnSink receives pipeline warnings. Implementations decide whether they
// need to be thread-safe; the pipeline itself calls the sink serially.
type WarnSink func(Warning)

// ZerologWarnSink adapts a zerolog logger into a warn sink. Each sink gets
// a run id so one pipeline invocation's warnings group together.
func ZerologWarnSink(log zerolog.Logger) WarnSink {
	runLog := log.With().Str("policy", "tools").Str("policy_run", xid.New().String()).Logger()
	return func(warning Warning) {
		runLog.Warn().Str("policy_label", warning.Label).Msg(warning.Message)
	}
}

// Remediation sentences appended to unknown-allowlist warnings.
const (
	strippedAllowlistRemediation = "Ignoring allowlist so core tools remain available. Use tools.alsoAllow for additive plugin tool enablement."
	unknownEntriesRemediation    = "These entries won't match any tool unless the plugin is enabled."
)

// Step is one layer of the policy pipeline. Nil policies are skipped; the
// label identifies the config scope in diagnostics.
type Step struct {
	Policy                   *ToolPolicy
	Label                    string
	StripPluginOnlyAllowlist bool
}

// NamedProfileContext enables post-pipeline diagnostics for a user-defined
// profile: degenerate results and headline tool loss.
type NamedProfileContext struct {
	ProfileName   string
	HeadlineTools []string
}

// ChainParams are the inputs to one pipeline run.
type ChainParams[T any] struct {
	Catalog *toolcatalog.Catalog
	Tools   []T
	// ToolName extracts a tool's name.
	ToolName func(T) string
	// ToolMeta yields the plugin id for plugin tools; core tools return
	// ok=false.
	ToolMeta     func(T) (pluginID string, ok bool)
	Steps        []Step
	Warn         WarnSink
	NamedProfile *NamedProfileContext
}

// RunChain applies the policy steps in order, narrowing the working tool
// set at each step. Steps can only remove tools, never add them; a tool
// named in any step's deny list cannot survive; the relative order of
// surviving tools matches the input. Running the chain on its own output
// yields the same output.
func RunChain[T any](params ChainParams[T]) []T {
	warn := params.Warn
	if warn == nil {
		warn = func(Warning) {}
	}

	working := make([]T, 0, len(params.Tools))
	names := make([]string, 0, len(params.Tools))
	coreTools := params.Catalog.CoreToolIDs()
	for _, tool := range params.Tools {
		name := NormalizeToolName(params.ToolName(tool))
		if name == "" {
			continue
		}
		working = append(working, tool)
		names = append(names, name)
		if _, isPlugin := params.ToolMeta(tool); !isPlugin {
			coreTools[name] = struct{}{}
		}
	}
	pluginGroups := BuildPluginToolGroups(params.Tools, params.ToolName, params.ToolMeta)

	for _, step := range params.Steps {
		policy := step.Policy
		if policy == nil {
			continue
		}
		if step.StripPluginOnlyAllowlist {
			adjusted, result := StripPluginOnlyAllowlist(params.Catalog, policy, pluginGroups, coreTools)
			if len(result.UnknownEntries) > 0 {
				remediation := unknownEntriesRemediation
				if result.Stripped {
					remediation = strippedAllowlistRemediation
				}
				warn(Warning{
					Label: step.Label,
					Message: fmt.Sprintf("tools: %s allowlist contains unknown entries (%s). %s",
						step.Label, strings.Join(result.UnknownEntries, ", "), remediation),
				})
			}
			policy = adjusted
		}
		expanded := ExpandPolicyWithPluginGroups(policy, pluginGroups)
		if expanded.IsEmpty() {
			continue
		}
		matcher := NewMatcher(params.Catalog, expanded)
		var filteredTools []T
		var filteredNames []string
		for i, name := range names {
			if matcher(name) {
				filteredTools = append(filteredTools, working[i])
				filteredNames = append(filteredNames, name)
			}
		}
		working = filteredTools
		names = filteredNames
	}

	if ctx := params.NamedProfile; ctx != nil {
		emitNamedProfileDiagnostics(warn, ctx, names)
	}
	return working
}

func emitNamedProfileDiagnostics(warn WarnSink, ctx *NamedProfileContext, surviving []string) {
	label := profileStepLabel("tools.profile", ctx.ProfileName)
	switch {
	case len(surviving) == 0:
		warn(Warning{
			Label:   label,
			Message: fmt.Sprintf("Named profile %q resulted in zero tools after policy filtering.", ctx.ProfileName),
		})
	case len(surviving) == 1 && surviving[0] == "session_status":
		warn(Warning{
			Label:   label,
			Message: fmt.Sprintf("Named profile %q resulted in only session_status after policy filtering.", ctx.ProfileName),
		})
	case len(ctx.HeadlineTools) > 0 && !anySurvives(ctx.HeadlineTools, surviving):
		warn(Warning{
			Label: label,
			Message: fmt.Sprintf("Named profile %q requested headline tools [%s], but none remain after filtering. Effective tools: %s.",
				ctx.ProfileName, strings.Join(ctx.HeadlineTools, ", "), strings.Join(surviving, ", ")),
		})
	}
}

func anySurvives(wanted, surviving []string) bool {
	have := make(map[string]struct{}, len(surviving))
	for _, name := range surviving {
		have[name] = struct{}{}
	}
	for _, name := range NormalizeToolList(wanted) {
		if _, ok := have[name]; ok {
			return true
		}
	}
	return false
}

// DefaultStepsParams configure the default seven-layer pipeline.
type DefaultStepsParams struct {
	Catalog       *toolcatalog.Catalog
	Effective     EffectiveToolPolicy
	NamedProfiles map[string]NamedProfileConfig
	AgentID       string
	// SubagentSession adds the subagent default-deny step when set.
	SubagentSession bool
	Global          *GlobalToolPolicyConfig
}

// DefaultSteps assembles the fixed-order policy layers:
// profile, provider profile, global allow, global provider allow, agent
// allow, agent provider allow, group allow. Every layer runs the allowlist
// safety filter. When the selected profile is user-defined, the returned
// context enables its post-pipeline diagnostics.
func DefaultSteps(params DefaultStepsParams) ([]Step, *NamedProfileContext) {
	eff := params.Effective

	profilePolicy, _ := ResolveProfilePolicy(params.Catalog, eff.Profile, params.NamedProfiles)
	profilePolicy = MergeAlsoAllow(profilePolicy, eff.ProfileAlsoAllow)
	providerProfilePolicy, _ := ResolveProfilePolicy(params.Catalog, eff.ProviderProfile, params.NamedProfiles)
	providerProfilePolicy = MergeAlsoAllow(providerProfilePolicy, eff.ProviderAlsoAllow)

	var profileCtx *NamedProfileContext
	if profile, ok := params.NamedProfiles[eff.Profile]; ok {
		profileCtx = &NamedProfileContext{
			ProfileName:   eff.Profile,
			HeadlineTools: HeadlineTools(profile),
		}
	}

	steps := []Step{
		{Policy: profilePolicy, Label: profileStepLabel("tools.profile", eff.Profile), StripPluginOnlyAllowlist: true},
		{Policy: providerProfilePolicy, Label: profileStepLabel("tools.byProvider.profile", eff.ProviderProfile), StripPluginOnlyAllowlist: true},
		{Policy: eff.GlobalPolicy, Label: "tools.allow", StripPluginOnlyAllowlist: true},
		{Policy: eff.GlobalProviderPolicy, Label: "tools.byProvider.allow", StripPluginOnlyAllowlist: true},
		{Policy: eff.AgentPolicy, Label: agentStepLabel("tools.allow", params.AgentID), StripPluginOnlyAllowlist: true},
		{Policy: eff.AgentProviderPolicy, Label: agentStepLabel("tools.byProvider.allow", params.AgentID), StripPluginOnlyAllowlist: true},
		{Policy: eff.GroupPolicy, Label: "group tools.allow", StripPluginOnlyAllowlist: true},
	}
	if params.SubagentSession {
		steps = append(steps, Step{
			Policy: ResolveSubagentToolPolicy(params.Global),
			Label:  "tools.subagents",
		})
	}
	return steps, profileCtx
}

// SessionOverride is a per-session narrowing applied after the defaults.
type SessionOverride struct {
	Profile string
	Allow   []string
	Deny    []string
}

// SessionOverrideSteps turns a session override into pipeline steps
// appended after the default layers. Because steps only narrow, a session
// override can never widen the configured baseline.
func SessionOverrideSteps(catalog *toolcatalog.Catalog, override *SessionOverride, namedProfiles map[string]NamedProfileConfig) []Step {
	if override == nil {
		return nil
	}
	var steps []Step
	if override.Profile != "" {
		policy, _ := ResolveProfilePolicy(catalog, override.Profile, namedProfiles)
		steps = append(steps, Step{
			Policy:                   policy,
			Label:                    profileStepLabel("session tools.profile", override.Profile),
			StripPluginOnlyAllowlist: true,
		})
	}
	if len(override.Allow) > 0 || len(override.Deny) > 0 {
		steps = append(steps, Step{
			Policy:                   &ToolPolicy{Allow: override.Allow, Deny: override.Deny},
			Label:                    "session tools.allow",
			StripPluginOnlyAllowlist: true,
		})
	}
	return steps
}

func profileStepLabel(prefix, profile string) string {
	if profile == "" {
		return prefix
	}
	return prefix + " (" + profile + ")"
}

func agentStepLabel(suffix, agentID string) string {
	if strings.TrimSpace(agentID) == "" {
		return "agents." + suffix
	}
	return "agents." + agentID + "." + suffix
}
