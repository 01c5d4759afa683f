package discord

import (
	"errors"
	"fmt"

	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/usecases"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
)

// syncReply turns a sync result into the message shown to the member.
func syncReply(identifier string, out *usecases.SyncOutput, err error) string {
	if err == nil {
		return fmt.Sprintf("Updated your ELO to **%d** (Tier %d).", out.Rating, out.Tier)
	}

	var syncErr *usecases.SyncError
	if errors.As(err, &syncErr) {
		return fmt.Sprintf(
			"❌ Found ELO **%d** (Tier %d) for %q, but your roles could not be updated. "+
				"Please ask a moderator to check the bot's role permissions.",
			syncErr.Rating, syncErr.Tier, identifier)
	}

	switch {
	case errors.Is(err, domain.ErrEmptyIdentifier):
		return "❌ Username is required."
	case errors.Is(err, domain.ErrIdentifierTooLong):
		return fmt.Sprintf("❌ Username %q is too long.", truncate(identifier, 32))
	case errors.Is(err, domain.ErrIdentifierCharset):
		return fmt.Sprintf("❌ %q is not a valid FACEIT username. "+
			"Usernames may only contain letters, numbers, `-` and `_`.", identifier)
	case errors.Is(err, usecases.ErrValidation):
		return fmt.Sprintf("❌ %q is not a valid FACEIT username.", identifier)
	case errors.Is(err, usecases.ErrNotFound) && errors.Is(err, usecases.ErrTransport):
		return fmt.Sprintf("❌ Failed to fetch ELO for %q. FACEIT is not responding, please try again later.",
			identifier)
	case errors.Is(err, usecases.ErrNotFound):
		return fmt.Sprintf("❌ Failed to fetch ELO for %q. Please check the username and try again.",
			identifier)
	case errors.Is(err, usecases.ErrInvalidData):
		return fmt.Sprintf("❌ Failed to fetch ELO for %q. The player might not have CS2 statistics.",
			identifier)
	default:
		return fmt.Sprintf("❌ Failed to fetch ELO for %q. Please try again later.", identifier)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
