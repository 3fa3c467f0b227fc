// Package commands bridges chat commands to the policy engine. The chat
// transport stays behind a narrow interface: an event carries the message
// body, session context, sender authorization, and a reply callback.
package commands

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Event is a chat command invocation.
type Event struct {
	Ctx context.Context
	// Body is the raw message body; dispatch trims surrounding whitespace
	// and matches the rest case-sensitively.
	Body       string
	SessionKey string
	// Authorized reports whether the sender may issue commands.
	// Unauthorized events are handled silently.
	Authorized bool
	Log        zerolog.Logger
	// ReplyFn delivers a response to the chat. May be nil.
	ReplyFn func(message string)
}

// Reply sends a formatted response to the chat.
func (ce *Event) Reply(format string, args ...any) {
	if ce.ReplyFn == nil {
		return
	}
	if len(args) == 0 {
		ce.ReplyFn(format)
		return
	}
	ce.ReplyFn(fmt.Sprintf(format, args...))
}

// Definition describes a chat command.
type Definition struct {
	// Command is the full normalized body that triggers the handler.
	Command     string
	Description string
	Aliases     []string
	// Handler runs the command. Returning true tells the dispatcher not to
	// fall through to further handlers.
	Handler func(*Event) bool
}

// Registry collects command definitions for dispatch.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*Definition
	aliases  map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]*Definition),
		aliases:  make(map[string]string),
	}
}

// Register adds a command definition to the registry.
func (r *Registry) Register(def Definition) {
	if def.Command == "" || def.Handler == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := def
	r.handlers[def.Command] = &stored
	for _, alias := range def.Aliases {
		r.aliases[alias] = def.Command
	}
}

// Get retrieves a definition by command or alias.
func (r *Registry) Get(command string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if canonical, ok := r.aliases[command]; ok {
		command = canonical
	}
	return r.handlers[command]
}

// Dispatch routes an event to the matching handler. It reports whether the
// event was consumed; unmatched bodies fall through to other handlers.
func (r *Registry) Dispatch(ce *Event) bool {
	command := strings.TrimSpace(ce.Body)
	def := r.Get(command)
	if def == nil {
		return false
	}
	return def.Handler(ce)
}
