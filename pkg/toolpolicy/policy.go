// Package toolpolicy implements the layered allow/deny policy engine that
// decides which tools a session may call. Policy evaluation is pure: all
// functions depend only on their inputs and are safe to call concurrently.
package toolpolicy

import (
	"regexp"
	"slices"
	"strings"

	"github.com/beeper/toolgate/pkg/toolcatalog"
)

// ToolProfileID identifies a built-in tool profile.
type ToolProfileID = toolcatalog.ProfileID

const (
	ProfileMinimal   = toolcatalog.ProfileMinimal
	ProfileCoding    = toolcatalog.ProfileCoding
	ProfileMessaging = toolcatalog.ProfileMessaging
	ProfileFull      = toolcatalog.ProfileFull
)

// ToolPolicy is a resolved allow/deny policy. A nil allow means
// "unrestricted allow"; a tool passes when it is allowed and not denied.
type ToolPolicy struct {
	Allow []string `json:"allow,omitempty"`
	Deny  []string `json:"deny,omitempty"`
}

// IsEmpty reports whether the policy has no effect.
func (p *ToolPolicy) IsEmpty() bool {
	return p == nil || (len(p.Allow) == 0 && len(p.Deny) == 0)
}

// ToolPolicyConfig is the allow/deny policy shape as it appears in config
// (global, per-agent, or per-group scope).
type ToolPolicyConfig struct {
	Allow      []string                    `json:"allow,omitempty" yaml:"allow"`
	AlsoAllow  []string                    `json:"alsoAllow,omitempty" yaml:"alsoAllow"`
	Deny       []string                    `json:"deny,omitempty" yaml:"deny"`
	Profile    ToolProfileID               `json:"profile,omitempty" yaml:"profile"`
	ByProvider map[string]ToolPolicyConfig `json:"byProvider,omitempty" yaml:"byProvider"`
}

// GlobalToolPolicyConfig extends ToolPolicyConfig with subagent defaults.
type GlobalToolPolicyConfig struct {
	Allow      []string                    `json:"allow,omitempty" yaml:"allow"`
	AlsoAllow  []string                    `json:"alsoAllow,omitempty" yaml:"alsoAllow"`
	Deny       []string                    `json:"deny,omitempty" yaml:"deny"`
	Profile    ToolProfileID               `json:"profile,omitempty" yaml:"profile"`
	ByProvider map[string]ToolPolicyConfig `json:"byProvider,omitempty" yaml:"byProvider"`
	Subagents  *SubagentToolPolicyConfig   `json:"subagents,omitempty" yaml:"subagents"`
}

// SubagentToolPolicyConfig configures subagent tool defaults.
type SubagentToolPolicyConfig struct {
	Tools *ToolPolicyConfig `json:"tools,omitempty" yaml:"tools"`
}

// NamedProfileConfig is a user-defined profile. The extends chain may point
// at another named profile or a built-in profile.
type NamedProfileConfig struct {
	Extends string   `json:"extends,omitempty" yaml:"extends"`
	Allow   []string `json:"allow,omitempty" yaml:"allow"`
	Deny    []string `json:"deny,omitempty" yaml:"deny"`
}

// Clone creates a deep copy of the config.
func (c *ToolPolicyConfig) Clone() *ToolPolicyConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Allow = slices.Clone(c.Allow)
	out.AlsoAllow = slices.Clone(c.AlsoAllow)
	out.Deny = slices.Clone(c.Deny)
	out.ByProvider = cloneByProvider(c.ByProvider)
	return &out
}

func cloneByProvider(byProvider map[string]ToolPolicyConfig) map[string]ToolPolicyConfig {
	if len(byProvider) == 0 {
		return nil
	}
	out := make(map[string]ToolPolicyConfig, len(byProvider))
	for key, value := range byProvider {
		clone := value
		clone.Allow = slices.Clone(value.Allow)
		clone.AlsoAllow = slices.Clone(value.AlsoAllow)
		clone.Deny = slices.Clone(value.Deny)
		clone.ByProvider = cloneByProvider(value.ByProvider)
		out[key] = clone
	}
	return out
}

var toolNameAliases = map[string]string{
	"bash":        "exec",
	"apply-patch": "apply_patch",
}

// NormalizeToolName trims, lowercases, and resolves aliases. Idempotent.
func NormalizeToolName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return ""
	}
	if alias, ok := toolNameAliases[normalized]; ok {
		return alias
	}
	return normalized
}

// NormalizeToolList normalizes each name in a list, dropping empties.
func NormalizeToolList(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if normalized := NormalizeToolName(entry); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

// ExpandToolGroups rewrites section/openclaw group references into their
// member tool ids. Order is preserved; duplicates are removed; unknown
// entries stay in place so they simply fail to match later.
func ExpandToolGroups(catalog *toolcatalog.Catalog, list []string) []string {
	if len(list) == 0 {
		return nil
	}
	normalized := NormalizeToolList(list)
	expanded := make([]string, 0, len(normalized))
	for _, value := range normalized {
		if members, ok := catalog.GroupExpansion(value); ok {
			expanded = append(expanded, members...)
			continue
		}
		expanded = append(expanded, value)
	}
	return uniqueStrings(expanded)
}

// MergeAlsoAllow appends alsoAllow entries into a policy's allowlist. A nil
// policy or an unrestricted allow stays unrestricted.
func MergeAlsoAllow(policy *ToolPolicy, alsoAllow []string) *ToolPolicy {
	if policy == nil || len(alsoAllow) == 0 || len(policy.Allow) == 0 {
		return policy
	}
	merged := append(slices.Clone(policy.Allow), alsoAllow...)
	return &ToolPolicy{
		Allow: uniqueStrings(merged),
		Deny:  slices.Clone(policy.Deny),
	}
}

// PickToolPolicy merges allow/alsoAllow/deny from a config into a resolved
// policy, or nil when the config has no effect.
func PickToolPolicy(config *ToolPolicyConfig) *ToolPolicy {
	if config == nil {
		return nil
	}
	allow := config.Allow
	if len(config.AlsoAllow) > 0 {
		if len(allow) == 0 {
			allow = uniqueStrings(append([]string{"*"}, config.AlsoAllow...))
		} else {
			allow = uniqueStrings(append(slices.Clone(allow), config.AlsoAllow...))
		}
	}
	if len(allow) == 0 && len(config.Deny) == 0 {
		return nil
	}
	return &ToolPolicy{
		Allow: slices.Clone(allow),
		Deny:  slices.Clone(config.Deny),
	}
}

type patternKind int

const (
	patternExact patternKind = iota
	patternAll
	patternGlob
)

type compiledPattern struct {
	kind  patternKind
	value string
	re    *regexp.Regexp
}

func compilePattern(pattern string) (compiledPattern, bool) {
	normalized := NormalizeToolName(pattern)
	switch {
	case normalized == "":
		return compiledPattern{}, false
	case normalized == "*":
		return compiledPattern{kind: patternAll}, true
	case !strings.Contains(normalized, "*"):
		return compiledPattern{kind: patternExact, value: normalized}, true
	}
	escaped := regexp.QuoteMeta(normalized)
	re := regexp.MustCompile("^" + strings.ReplaceAll(escaped, "\\*", ".*") + "$")
	return compiledPattern{kind: patternGlob, re: re}, true
}

func compilePatterns(catalog *toolcatalog.Catalog, patterns []string) []compiledPattern {
	if len(patterns) == 0 {
		return nil
	}
	expanded := ExpandToolGroups(catalog, patterns)
	compiled := make([]compiledPattern, 0, len(expanded))
	for _, pattern := range expanded {
		if entry, ok := compilePattern(pattern); ok {
			compiled = append(compiled, entry)
		}
	}
	return compiled
}

func matchesAny(name string, patterns []compiledPattern) bool {
	for _, pattern := range patterns {
		switch pattern.kind {
		case patternAll:
			return true
		case patternExact:
			if name == pattern.value {
				return true
			}
		case patternGlob:
			if pattern.re.MatchString(name) {
				return true
			}
		}
	}
	return false
}

// Matcher reports whether a tool name passes a single policy.
type Matcher func(name string) bool

// NewMatcher compiles a policy into a matcher. A tool passes when the
// allowlist is absent or matches it, and the denylist does not. Deny wins.
func NewMatcher(catalog *toolcatalog.Catalog, policy *ToolPolicy) Matcher {
	if policy == nil {
		return func(string) bool { return true }
	}
	deny := compilePatterns(catalog, policy.Deny)
	allow := compilePatterns(catalog, policy.Allow)
	return func(name string) bool {
		normalized := NormalizeToolName(name)
		if matchesAny(normalized, deny) {
			return false
		}
		return len(allow) == 0 || matchesAny(normalized, allow)
	}
}

// IsToolAllowedByPolicies reports whether a tool passes every policy.
func IsToolAllowedByPolicies(catalog *toolcatalog.Catalog, name string, policies []*ToolPolicy) bool {
	for _, policy := range policies {
		if !NewMatcher(catalog, policy)(name) {
			return false
		}
	}
	return true
}

// FilterToolsByPolicy filters names by a single policy, preserving order.
// Idempotent: filtering the output again yields the same list.
func FilterToolsByPolicy(catalog *toolcatalog.Catalog, names []string, policy *ToolPolicy) []string {
	if policy == nil {
		return names
	}
	matcher := NewMatcher(catalog, policy)
	var result []string
	for _, name := range names {
		if matcher(name) {
			result = append(result, name)
		}
	}
	return result
}

var ownerOnlyToolNames = map[string]struct{}{
	"gateway": {},
}

// IsOwnerOnlyToolName reports whether the tool is restricted to owners.
func IsOwnerOnlyToolName(name string) bool {
	_, ok := ownerOnlyToolNames[NormalizeToolName(name)]
	return ok
}

// ApplyOwnerOnlyToolPolicy filters owner-only tools for non-owner senders.
func ApplyOwnerOnlyToolPolicy(names []string, senderIsOwner bool) []string {
	if senderIsOwner || len(names) == 0 {
		return names
	}
	filtered := make([]string, 0, len(names))
	for _, name := range names {
		if !IsOwnerOnlyToolName(name) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

func uniqueStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
