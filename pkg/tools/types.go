// Package tools defines the runtime tool values the policy engine filters.
package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/beeper/toolgate/pkg/toolcatalog"
)

// Tool wraps an MCP tool definition with runtime metadata.
type Tool struct {
	mcp.Tool          // Name, Description, InputSchema
	Type     ToolType // builtin, plugin, mcp
	Section  toolcatalog.SectionID
	PluginID string // set for plugin-contributed tools
}

// ToolType categorizes tools by their origin.
type ToolType string

const (
	// ToolTypeBuiltin are tools from the static catalog.
	ToolTypeBuiltin ToolType = "builtin"
	// ToolTypePlugin are tools contributed at runtime by a named plugin.
	ToolTypePlugin ToolType = "plugin"
	// ToolTypeMCP are tools from MCP servers.
	ToolTypeMCP ToolType = "mcp"
)

// IsPluginTool reports whether the tool was contributed by a plugin.
func IsPluginTool(t *Tool) bool {
	return t != nil && t.Type == ToolTypePlugin
}

// PluginIDForTool returns the plugin id for a plugin tool.
func PluginIDForTool(t *Tool) (string, bool) {
	if !IsPluginTool(t) || t.PluginID == "" {
		return "", false
	}
	return t.PluginID, true
}

// FromCatalog builds a runtime tool from a catalog entry.
func FromCatalog(def toolcatalog.Tool) *Tool {
	return &Tool{
		Tool: mcp.Tool{
			Name:        def.ID,
			Description: def.Description,
			Annotations: &mcp.ToolAnnotations{Title: def.Label},
			InputSchema: genericSchema(),
		},
		Type:    ToolTypeBuiltin,
		Section: def.Section,
	}
}

// NewPluginTool builds a runtime tool for a plugin-contributed capability.
func NewPluginTool(pluginID, name, description string) *Tool {
	return &Tool{
		Tool: mcp.Tool{
			Name:        name,
			Description: description,
			InputSchema: genericSchema(),
		},
		Type:     ToolTypePlugin,
		PluginID: pluginID,
	}
}

func genericSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
	}
}
