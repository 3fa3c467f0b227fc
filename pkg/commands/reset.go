package commands

import (
	"errors"

	"github.com/beeper/toolgate/pkg/overrides"
)

// ResetCommand is the chat command that clears session tool overrides.
const ResetCommand = "/tools:reset"

const (
	replyOverridesCleared = "Tool overrides cleared. Tools restored to config baseline."
	replyNoOverrides      = "No tool overrides were active."
	replyNoActiveSession  = "Cannot reset tool overrides: no active session."
)

// ResetToolsCommand builds the /tools:reset definition. Unauthorized
// senders get no reply and no mutation; either way the dispatcher is told
// the event was consumed.
func ResetToolsCommand(store overrides.Store) Definition {
	return Definition{
		Command:     ResetCommand,
		Description: "Clear session tool overrides and restore the config baseline",
		Handler: func(ce *Event) bool {
			if !ce.Authorized {
				return true
			}
			if store == nil || ce.SessionKey == "" {
				ce.Reply(replyNoActiveSession)
				return true
			}
			hadOverrides, err := store.Reset(ce.Ctx, ce.SessionKey)
			if err != nil {
				if errors.Is(err, overrides.ErrNoActiveSession) {
					ce.Reply(replyNoActiveSession)
					return true
				}
				ce.Log.Err(err).Str("session_key", ce.SessionKey).Msg("Failed to reset tool overrides")
				ce.Reply("Failed to reset tool overrides: %v", err)
				return true
			}
			if hadOverrides {
				ce.Reply(replyOverridesCleared)
			} else {
				ce.Reply(replyNoOverrides)
			}
			return true
		},
	}
}
