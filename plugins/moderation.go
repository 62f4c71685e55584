package plugins

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexandre-normand/spotscot"
	"github.com/alexandre-normand/spotscot/actions"
	"github.com/alexandre-normand/spotscot/plugin"
	"github.com/alexandre-normand/spotscot/store"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

const (
	// ModerationPluginName holds the name of the moderation plugin
	ModerationPluginName = "moderation"

	vetoKeyword = "veto"

	adminCheckFailedReply = "I couldn't verify your admin status so I can't do that right now."
	vetoDeniedReply       = "Only a workspace admin can veto a spot."
	vetoNoSpotReply       = "There's no spot on record for this message."
	vetoFailedReply       = "Something went wrong removing that spot. It's still on the board."
	resetDeniedReply      = "Only a workspace admin can reset the board."
	resetFailedReply      = "Something went wrong resetting the board. Try again later."
	resetCleanReply       = "Already clean. There were no spots to remove."
	bindDeniedReply       = "Only a workspace admin can pick my channel."
	bindFailedReply       = "I couldn't bind to this channel. Try again later."
)

// Moderation holds the plugin data for the moderation plugin
type Moderation struct {
	spotscot.Plugin

	spots      store.SpotStorer
	registry   spotscot.TenantRegistry
	authorizer spotscot.AdminAuthorizer
	audit      store.ModerationRecorder
}

// NewModeration creates a new instance of the moderation plugin giving
// workspace admins the veto, reset and channel binding controls. Every
// destructive action leaves a trace in the moderation log
func NewModeration(spots store.SpotStorer, registry spotscot.TenantRegistry, authorizer spotscot.AdminAuthorizer, audit store.ModerationRecorder) (moderation *Moderation) {
	moderation = new(Moderation)
	moderation.spots = spots
	moderation.registry = registry
	moderation.authorizer = authorizer
	moderation.audit = audit
	moderation.Plugin = *plugin.New(ModerationPluginName).
		WithHearAction(actions.NewHearAction().
			WithMatcher(matchVeto).
			WithUsage("veto (as a threaded reply to a spot)").
			WithDescription("Remove the spot this thread belongs to (admins only)").
			WithAnswerer(moderation.vetoSpot).
			Build()).
		WithSlashCommand(actions.NewSlashCommand("/reset").
			WithUsage("/reset").
			WithDescription("Remove every spot of the channel (admins only)").
			WithAnswerer(moderation.resetChannel).
			Build()).
		WithSlashCommand(actions.NewSlashCommand("/setchannel").
			WithUsage("/setchannel").
			WithDescription("Bind the bot to the current channel (admins only)").
			Ungated().
			WithAnswerer(moderation.bindChannel).
			Build()).
		Build()

	return moderation
}

// matchVeto triggers on a message whose text is exactly the veto keyword. The
// threading requirement is checked by the answerer since a bare "veto" outside
// a thread is silently ignored rather than answered
func matchVeto(m *spotscot.IncomingMessage) bool {
	return strings.EqualFold(strings.TrimSpace(m.Text), vetoKeyword)
}

func (mo *Moderation) vetoSpot(m *spotscot.IncomingMessage) *spotscot.Answer {
	// A veto only counts as a threaded reply, a thread root can't veto itself
	if m.ThreadTimestamp == "" || m.ThreadTimestamp == m.Timestamp {
		return nil
	}

	threaded := []spotscot.AnswerOption{spotscot.AnswerInExistingThread(m.ThreadTimestamp)}

	admin, err := mo.authorizer.IsAdmin(m.TeamID, m.User)
	if err != nil {
		mo.Logger.Printf("Error checking admin status of [%s] for veto in [%s]: %v", m.User, m.Channel, err)
		return &spotscot.Answer{Text: adminCheckFailedReply, Options: threaded}
	}

	if !admin {
		return &spotscot.Answer{Text: vetoDeniedReply, Options: threaded}
	}

	deleted, err := mo.spots.DeleteSpot(m.TeamID, m.Channel, m.ThreadTimestamp)
	if errors.Cause(err) == store.ErrSpotNotFound {
		return &spotscot.Answer{Text: vetoNoSpotReply, Options: threaded}
	} else if err != nil {
		mo.Logger.Printf("Error deleting vetoed spot [%s] in [%s]: %v", m.ThreadTimestamp, m.Channel, err)
		return &spotscot.Answer{Text: vetoFailedReply, Options: threaded}
	}

	mo.recordModeration(m.TeamID, m.Channel, store.ModerationActionVeto, m.User,
		fmt.Sprintf("removed spot of <@%s> by <@%s>", deleted.TargetID, deleted.SpotterID))

	recap := fmt.Sprintf("Vetoed. The spot of <@%s> by <@%s> on %s has been removed.",
		deleted.TargetID, deleted.SpotterID, deleted.CreatedAt.Format(galleryDateFormat))
	return &spotscot.Answer{Text: recap, Options: threaded}
}

func (mo *Moderation) resetChannel(c *slack.SlashCommand) *spotscot.Answer {
	ephemeral := []spotscot.AnswerOption{spotscot.AnswerEphemeral()}

	admin, err := mo.authorizer.IsAdmin(c.TeamID, c.UserID)
	if err != nil {
		mo.Logger.Printf("Error checking admin status of [%s] for reset in [%s]: %v", c.UserID, c.ChannelID, err)
		return &spotscot.Answer{Text: adminCheckFailedReply, Options: ephemeral}
	}

	if !admin {
		return &spotscot.Answer{Text: resetDeniedReply, Options: ephemeral}
	}

	count, err := mo.spots.DeleteChannelSpots(c.TeamID, c.ChannelID)
	if err != nil {
		mo.Logger.Printf("Error resetting spots in [%s/%s]: %v", c.TeamID, c.ChannelID, err)
		return &spotscot.Answer{Text: resetFailedReply, Options: ephemeral}
	}

	if count == 0 {
		return &spotscot.Answer{Text: resetCleanReply}
	}

	mo.recordModeration(c.TeamID, c.ChannelID, store.ModerationActionReset, c.UserID,
		fmt.Sprintf("removed %d spots", count))

	return &spotscot.Answer{Text: fmt.Sprintf("♻️ Reset complete. Removed %s from this channel.", pluralizeSpots(count))}
}

func (mo *Moderation) bindChannel(c *slack.SlashCommand) *spotscot.Answer {
	ephemeral := []spotscot.AnswerOption{spotscot.AnswerEphemeral()}

	admin, err := mo.authorizer.IsAdmin(c.TeamID, c.UserID)
	if err != nil {
		mo.Logger.Printf("Error checking admin status of [%s] for channel binding: %v", c.UserID, err)
		return &spotscot.Answer{Text: adminCheckFailedReply, Options: ephemeral}
	}

	if !admin {
		return &spotscot.Answer{Text: bindDeniedReply, Options: ephemeral}
	}

	if err := mo.registry.BindChannel(c.TeamID, c.ChannelID); err != nil {
		mo.Logger.Printf("Error binding to channel [%s/%s]: %v", c.TeamID, c.ChannelID, err)
		return &spotscot.Answer{Text: bindFailedReply, Options: ephemeral}
	}

	return &spotscot.Answer{Text: fmt.Sprintf("📍 I'm now watching <#%s>. Let the spotting begin!", c.ChannelID)}
}

// recordModeration appends to the moderation log. Failures are logged but
// never fail the moderation action itself
func (mo *Moderation) recordModeration(teamID string, channelID string, action string, actorID string, detail string) {
	entry := store.ModerationEntry{
		ID:        uuid.New().String(),
		TeamID:    teamID,
		ChannelID: channelID,
		Action:    action,
		ActorID:   actorID,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	if err := mo.audit.AppendEntry(entry); err != nil {
		mo.Logger.Printf("Error appending [%s] entry to the moderation log for [%s/%s]: %v", action, teamID, channelID, err)
	}
}
