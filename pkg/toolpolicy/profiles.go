package toolpolicy

import (
	"slices"
	"strings"

	"github.com/beeper/toolgate/pkg/toolcatalog"
)

// maxNamedProfileChain bounds extends-chain resolution.
const maxNamedProfileChain = 5

// ResolveBuiltinProfilePolicy returns a fresh copy of the catalog-derived
// policy for a built-in profile, or nil for `full` and unknown names
// (no restriction).
func ResolveBuiltinProfilePolicy(catalog *toolcatalog.Catalog, profile string) *ToolPolicy {
	allow, ok := catalog.BuiltinProfileAllow(toolcatalog.ProfileID(profile))
	if !ok {
		return nil
	}
	return &ToolPolicy{Allow: allow}
}

// NamedProfileTrace records how a named profile resolved.
type NamedProfileTrace struct {
	// ResolvedFrom is the ordered chain of profile names visited.
	ResolvedFrom []string
	// EffectiveAllow and EffectiveDeny are the merged lists after
	// deny-filtering.
	EffectiveAllow []string
	EffectiveDeny  []string
}

// ResolveNamedProfile resolves a user-defined profile, walking its extends
// chain. The walk stops at a built-in parent (merged in), at a repeated
// name (cycles break silently), at a missing parent, or after five hops.
// Allow and deny lists concatenate down the chain and deduplicate; deny
// wins on overlap. Returns nil when the profile is unknown or resolves to
// nothing.
func ResolveNamedProfile(catalog *toolcatalog.Catalog, name string, profiles map[string]NamedProfileConfig) (*ToolPolicy, *NamedProfileTrace) {
	name = strings.TrimSpace(name)
	current, ok := profiles[name]
	if !ok {
		return nil, nil
	}

	chain := []string{name}
	visited := map[string]struct{}{name: {}}
	var allAllow, allDeny []string

	for {
		allAllow = append(allAllow, current.Allow...)
		allDeny = append(allDeny, current.Deny...)

		parent := strings.TrimSpace(current.Extends)
		if parent == "" {
			break
		}
		if _, seen := visited[parent]; seen {
			break
		}
		if len(chain) >= maxNamedProfileChain {
			break
		}
		if toolcatalog.IsBuiltinProfile(parent) {
			if builtin := ResolveBuiltinProfilePolicy(catalog, parent); builtin != nil {
				allAllow = append(allAllow, builtin.Allow...)
				allDeny = append(allDeny, builtin.Deny...)
			}
			chain = append(chain, parent)
			break
		}
		next, ok := profiles[parent]
		if !ok {
			break
		}
		chain = append(chain, parent)
		visited[parent] = struct{}{}
		current = next
	}

	deny := uniqueStrings(NormalizeToolList(allDeny))
	denySet := make(map[string]struct{}, len(deny))
	for _, entry := range deny {
		denySet[entry] = struct{}{}
	}
	var allow []string
	for _, entry := range uniqueStrings(NormalizeToolList(allAllow)) {
		if _, denied := denySet[entry]; !denied {
			allow = append(allow, entry)
		}
	}

	if len(allow) == 0 && len(deny) == 0 {
		return nil, &NamedProfileTrace{ResolvedFrom: chain}
	}
	return &ToolPolicy{Allow: allow, Deny: deny}, &NamedProfileTrace{
		ResolvedFrom:   chain,
		EffectiveAllow: slices.Clone(allow),
		EffectiveDeny:  slices.Clone(deny),
	}
}

// ResolveProfilePolicy resolves a profile reference from any policy layer.
// A user-defined profile shadows a built-in of the same name on direct
// reference; built-in names still terminate extends chains.
func ResolveProfilePolicy(catalog *toolcatalog.Catalog, name string, profiles map[string]NamedProfileConfig) (*ToolPolicy, *NamedProfileTrace) {
	if name = strings.TrimSpace(name); name == "" {
		return nil, nil
	}
	if _, ok := profiles[name]; ok {
		return ResolveNamedProfile(catalog, name, profiles)
	}
	return ResolveBuiltinProfilePolicy(catalog, name), nil
}

// HeadlineTools returns the tools a named profile advertises as its
// signature capabilities: the profile's own allow entries that are plain
// tool ids (group references and patterns are not headlines).
func HeadlineTools(profile NamedProfileConfig) []string {
	var out []string
	for _, entry := range NormalizeToolList(profile.Allow) {
		if strings.HasPrefix(entry, toolcatalog.GroupPrefix) || strings.Contains(entry, "*") {
			continue
		}
		out = append(out, entry)
	}
	return uniqueStrings(out)
}
