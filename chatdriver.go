package spotscot

import (
	"github.com/slack-go/slack"
)

// messageSender is implemented by any value that has the SendMessage method.
// The main purpose is a slight decoupling of the slack.Client in order for the
// engine (and plugins driven in tests) to deliver answers without a live client.
//
// slack.Client implements this interface
type messageSender interface {
	SendMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error)
}

// webhookSender posts a message to a slash command response URL.
//
// slack.PostWebhook implements this signature
type webhookSender func(url string, msg *slack.WebhookMessage) error

// ChannelPoster is implemented by any value able to post a plain text message
// to a channel of a given workspace. It is the delivery seam handed to
// scheduled actions, which run outside the context of any triggering message
type ChannelPoster interface {
	PostToChannel(teamID string, channelID string, text string) (err error)
}

// registryPoster implements ChannelPoster by resolving per-workspace clients
// through a TenantRegistry
type registryPoster struct {
	registry TenantRegistry
}

// NewChannelPoster returns a ChannelPoster delivering through the clients
// resolved by the given registry
func NewChannelPoster(registry TenantRegistry) ChannelPoster {
	return &registryPoster{registry: registry}
}

// PostToChannel posts a text message to the given workspace channel
func (rp *registryPoster) PostToChannel(teamID string, channelID string, text string) (err error) {
	client, err := rp.registry.Client(teamID)
	if err != nil {
		return err
	}

	_, _, _, err = client.SendMessage(channelID, slack.MsgOptionText(text, false), slack.MsgOptionAsUser(true))
	return err
}
