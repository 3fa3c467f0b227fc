package toolpolicy

import (
	"slices"

	"github.com/beeper/toolgate/pkg/toolcatalog"
)

// StripResult reports what the allowlist safety filter did to a policy.
type StripResult struct {
	// Stripped is set when the allowlist was dropped entirely because it
	// would have disabled every core tool.
	Stripped bool
	// UnknownEntries are allow entries that name neither a known core tool,
	// a section/openclaw group, nor a known plugin group. Plugin tool names
	// land here too: until their plugin loads they match nothing.
	UnknownEntries []string
}

// StripPluginOnlyAllowlist guards against allowlists that only reference
// plugin tools. A config like `allow: [search_plugin]` written before the
// plugin loads would otherwise silently remove every core tool and leave
// the agent unable to act. When no allow entry keeps a core tool, the
// allowlist is dropped (falling back to "all core tools allowed"). Deny is
// never stripped.
func StripPluginOnlyAllowlist(catalog *toolcatalog.Catalog, policy *ToolPolicy, groups PluginToolGroups, coreTools map[string]struct{}) (*ToolPolicy, StripResult) {
	if policy == nil || len(policy.Allow) == 0 {
		return policy, StripResult{}
	}
	refs := ClassifyEntries(catalog, groups, coreTools, policy.Allow)

	var result StripResult
	hasCoreEntry := false
	nonEmpty := 0
	for _, ref := range refs {
		if ref.Name == "" {
			continue
		}
		nonEmpty++
		if ref.IsCore() {
			hasCoreEntry = true
			continue
		}
		if ref.Kind != EntryPluginGroup {
			result.UnknownEntries = append(result.UnknownEntries, ref.Name)
		}
	}
	result.UnknownEntries = uniqueStrings(result.UnknownEntries)

	if nonEmpty == 0 {
		return policy, StripResult{}
	}
	if !hasCoreEntry {
		result.Stripped = true
		return &ToolPolicy{Deny: slices.Clone(policy.Deny)}, result
	}
	return policy, result
}
