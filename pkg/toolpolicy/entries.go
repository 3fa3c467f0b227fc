package toolpolicy

import (
	"strings"

	"github.com/beeper/toolgate/pkg/toolcatalog"
)

// EntryKind tags a parsed policy entry. Classifying entries once makes the
// allowlist safety filter a single pass instead of repeated prefix checks.
type EntryKind int

const (
	// EntryTool is a known core tool id.
	EntryTool EntryKind = iota
	// EntryWildcard is `*` or a glob pattern matching at least one core tool.
	EntryWildcard
	// EntrySectionGroup is `group:<section_id>`.
	EntrySectionGroup
	// EntryOpenClawGroup is `group:openclaw`.
	EntryOpenClawGroup
	// EntryPluginGroup is `group:plugin:<id>`, `group:plugins`, or a bare
	// plugin id, each only when it resolves to loaded plugin tools.
	EntryPluginGroup
	// EntryPluginTool is the name of a currently loaded plugin tool.
	EntryPluginTool
	// EntryUnknown matches nothing the engine knows about.
	EntryUnknown
)

// EntryRef is a policy entry with its classification.
type EntryRef struct {
	Raw  string
	Name string // normalized form
	Kind EntryKind
}

// IsCore reports whether the entry keeps at least one core tool allowed.
func (e EntryRef) IsCore() bool {
	switch e.Kind {
	case EntryTool, EntryWildcard, EntrySectionGroup, EntryOpenClawGroup:
		return true
	}
	return false
}

// IsPlugin reports whether the entry resolves only through plugin tools.
func (e EntryRef) IsPlugin() bool {
	return e.Kind == EntryPluginGroup || e.Kind == EntryPluginTool
}

// ClassifyEntry parses a single policy entry against the catalog, the
// loaded plugin groups, and the known core tool names.
func ClassifyEntry(catalog *toolcatalog.Catalog, groups PluginToolGroups, coreTools map[string]struct{}, raw string) EntryRef {
	normalized := NormalizeToolName(raw)
	ref := EntryRef{Raw: raw, Name: normalized}
	switch {
	case normalized == "":
		ref.Kind = EntryUnknown
	case normalized == "*":
		ref.Kind = EntryWildcard
	case normalized == toolcatalog.GroupOpenClaw:
		ref.Kind = EntryOpenClawGroup
	case normalized == AllPluginsGroup || strings.HasPrefix(normalized, PluginGroupPrefix):
		if _, ok := groups.Lookup(normalized); ok {
			ref.Kind = EntryPluginGroup
		} else {
			ref.Kind = EntryUnknown
		}
	default:
		if _, ok := catalog.SectionGroupRef(normalized); ok {
			ref.Kind = EntrySectionGroup
		} else if _, ok := coreTools[normalized]; ok {
			ref.Kind = EntryTool
		} else if _, ok := groups.ByPlugin[normalized]; ok {
			ref.Kind = EntryPluginGroup
		} else if groups.IsPluginToolName(normalized) {
			ref.Kind = EntryPluginTool
		} else if strings.Contains(normalized, "*") && globMatchesAny(normalized, coreTools) {
			ref.Kind = EntryWildcard
		} else {
			ref.Kind = EntryUnknown
		}
	}
	return ref
}

// ClassifyEntries classifies each entry of a list in order.
func ClassifyEntries(catalog *toolcatalog.Catalog, groups PluginToolGroups, coreTools map[string]struct{}, list []string) []EntryRef {
	out := make([]EntryRef, 0, len(list))
	for _, raw := range list {
		out = append(out, ClassifyEntry(catalog, groups, coreTools, raw))
	}
	return out
}

func globMatchesAny(pattern string, names map[string]struct{}) bool {
	compiled, ok := compilePattern(pattern)
	if !ok {
		return false
	}
	for name := range names {
		if matchesAny(name, []compiledPattern{compiled}) {
			return true
		}
	}
	return false
}
