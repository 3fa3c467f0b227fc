package toolpolicy

import (
	"slices"
	"strings"
)

// PluginGroupPrefix starts a per-plugin group reference
// (`group:plugin:<plugin_id>`).
const PluginGroupPrefix = "group:plugin:"

// AllPluginsGroup references every plugin tool currently loaded.
const AllPluginsGroup = "group:plugins"

// PluginToolGroups tracks the plugin tools currently loaded, grouped by
// plugin id.
type PluginToolGroups struct {
	All      []string
	ByPlugin map[string][]string
}

// Lookup resolves a group reference (or bare plugin id) to its members.
func (g PluginToolGroups) Lookup(ref string) ([]string, bool) {
	if ref == AllPluginsGroup {
		if len(g.All) == 0 {
			return nil, false
		}
		return g.All, true
	}
	id := strings.TrimPrefix(ref, PluginGroupPrefix)
	tools, ok := g.ByPlugin[id]
	return tools, ok && len(tools) > 0
}

// IsPluginToolName reports whether name is a loaded plugin tool.
func (g PluginToolGroups) IsPluginToolName(name string) bool {
	return slices.Contains(g.All, name)
}

// BuildPluginToolGroups groups tools by plugin id. A tool contributes iff
// toolMeta yields a plugin id for it.
func BuildPluginToolGroups[T any](tools []T, toolName func(T) string, toolMeta func(T) (string, bool)) PluginToolGroups {
	var all []string
	byPlugin := make(map[string][]string)
	for _, tool := range tools {
		pluginID, ok := toolMeta(tool)
		if !ok {
			continue
		}
		name := NormalizeToolName(toolName(tool))
		if name == "" {
			continue
		}
		all = append(all, name)
		key := strings.ToLower(strings.TrimSpace(pluginID))
		byPlugin[key] = append(byPlugin[key], name)
	}
	return PluginToolGroups{All: all, ByPlugin: byPlugin}
}

// ExpandPluginGroups rewrites plugin group references into their member
// tool names. Unresolvable references stay in place so they simply fail to
// match any tool. Order is preserved; duplicates are removed.
func ExpandPluginGroups(list []string, groups PluginToolGroups) []string {
	if len(list) == 0 {
		return list
	}
	expanded := make([]string, 0, len(list))
	for _, entry := range list {
		normalized := NormalizeToolName(entry)
		if tools, ok := groups.Lookup(normalized); ok {
			expanded = append(expanded, tools...)
			continue
		}
		expanded = append(expanded, normalized)
	}
	return uniqueStrings(expanded)
}

// ExpandPolicyWithPluginGroups expands plugin group references inside a
// policy's allow and deny lists.
func ExpandPolicyWithPluginGroups(policy *ToolPolicy, groups PluginToolGroups) *ToolPolicy {
	if policy == nil {
		return nil
	}
	return &ToolPolicy{
		Allow: ExpandPluginGroups(policy.Allow, groups),
		Deny:  ExpandPluginGroups(policy.Deny, groups),
	}
}
