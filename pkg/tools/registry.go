package tools

import (
	"sync"

	"github.com/beeper/toolgate/pkg/toolcatalog"
)

// Registry holds the tools currently exposed to a session. Built-in tools
// come from the catalog; plugin and MCP tools are registered as they load.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]*Tool
	order   []string
	aliases map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]*Tool),
		aliases: make(map[string]string),
	}
}

// NewCatalogRegistry creates a registry preloaded with every catalog tool.
func NewCatalogRegistry(catalog *toolcatalog.Catalog) *Registry {
	reg := NewRegistry()
	for _, listing := range catalog.ListSections() {
		for _, def := range listing.Tools {
			reg.Register(FromCatalog(def))
		}
	}
	return reg
}

// Register adds a tool. Re-registering a name replaces the tool but keeps
// its original position.
func (r *Registry) Register(tool *Tool) {
	if tool == nil || tool.Name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = tool
}

// RegisterAlias creates an alias for a tool (e.g. "search" -> "web_search").
func (r *Registry) RegisterAlias(alias, canonical string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = canonical
}

// Get retrieves a tool by name, resolving aliases.
func (r *Registry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	return r.tools[name]
}

// Has checks whether a tool exists by name or alias.
func (r *Registry) Has(name string) bool {
	return r.Get(name) != nil
}

// All returns the registered tools in registration order.
func (r *Registry) All() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
