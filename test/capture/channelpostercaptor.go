// Package capture provides test implementations of spotscot delivery
// interfaces that record what was sent to them
package capture

import (
	"fmt"
)

// ChannelPosterCaptor holds messages posted to it keyed by workspace and
// channel id
type ChannelPosterCaptor struct {
	SentMessages map[string][]string
}

// NewChannelPoster returns a new initialized ChannelPosterCaptor instance
func NewChannelPoster() (cpc *ChannelPosterCaptor) {
	cpc = new(ChannelPosterCaptor)
	cpc.SentMessages = make(map[string][]string)

	return cpc
}

// PostToChannel tracks a posted message for post-execution validation
func (cpc *ChannelPosterCaptor) PostToChannel(teamID string, channelID string, text string) (err error) {
	key := fmt.Sprintf("%s.%s", teamID, channelID)
	cpc.SentMessages[key] = append(cpc.SentMessages[key], text)

	return nil
}
