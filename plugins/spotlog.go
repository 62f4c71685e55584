// Package plugins provides spotscot's built-in feature plugins
package plugins

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/alexandre-normand/spotscot"
	"github.com/alexandre-normand/spotscot/store"
	"github.com/google/uuid"
	"github.com/slack-go/slack"
)

const (
	// SpotLogPluginName holds the name of the spot logging plugin
	SpotLogPluginName = "spotLog"

	spotLoggedFormat  = "Spot Logged! <@%s> has captured <@%s> in the wild."
	noPhotoReply      = "No photo, no glory! Attach a picture to log your spot."
	spotNotSavedReply = "Something went wrong saving that spot. It didn't count, sorry."
)

var userMentionRegex = regexp.MustCompile(`<@([A-Z0-9]+)(?:\|[^>]*)?>`)

// SpotLog holds the plugin data for the spot logging plugin
type SpotLog struct {
	spotscot.Plugin

	spots store.SpotStorer
}

// NewSpotLog creates a new instance of the spot logging plugin. It listens
// for messages mentioning a coworker (or announcing a "spotted") and records
// a confirmed spot when a photo is attached
func NewSpotLog(spots store.SpotStorer) (spotLog *SpotLog) {
	spotLog = new(SpotLog)
	spotLog.spots = spots
	spotLog.Plugin = spotscot.Plugin{Name: SpotLogPluginName, HearActions: []spotscot.ActionDefinition{{
		Hidden:      false,
		Match:       matchSpotting,
		Usage:       "@someone + attached photo",
		Description: "Log a spot of the mentioned coworker caught in the wild",
		Answer:      spotLog.logSpot,
	}}}

	return spotLog
}

// matchSpotting triggers on any message carrying a user mention or the
// spotting keyword. The answerer sorts out whether the message qualifies
func matchSpotting(m *spotscot.IncomingMessage) bool {
	return userMentionRegex.MatchString(m.Text) || strings.Contains(strings.ToLower(m.Text), "spotted")
}

func (s *SpotLog) logSpot(m *spotscot.IncomingMessage) *spotscot.Answer {
	target := firstUserMention(m.Text)
	if target == "" {
		return nil
	}

	imageURL := firstImageURL(m.Files)
	if imageURL == "" {
		return &spotscot.Answer{Text: noPhotoReply}
	}

	spot := store.Spot{
		ID:        uuid.New().String(),
		TeamID:    m.TeamID,
		SpotterID: m.User,
		TargetID:  target,
		ImageURL:  imageURL,
		ChannelID: m.Channel,
		MessageID: m.Timestamp,
		Status:    store.StatusConfirmed,
		CreatedAt: time.Now(),
	}

	if err := s.spots.PutSpot(spot); err != nil {
		s.Logger.Printf("Error persisting spot of [%s] by [%s] in [%s]: %v", target, m.User, m.Channel, err)
		return &spotscot.Answer{Text: spotNotSavedReply}
	}

	return &spotscot.Answer{Text: fmt.Sprintf(spotLoggedFormat, m.User, target)}
}

// firstUserMention returns the user id of the first mention in a message text
// or the empty string when there's none
func firstUserMention(text string) (userID string) {
	match := userMentionRegex.FindStringSubmatch(text)
	if match == nil {
		return ""
	}

	return match[1]
}

// firstImageURL returns the url of the first image attachment or the empty
// string when the message carries no image
func firstImageURL(files []slack.File) (url string) {
	for _, f := range files {
		if strings.HasPrefix(f.Mimetype, "image/") {
			if f.URLPrivate != "" {
				return f.URLPrivate
			}

			return f.Permalink
		}
	}

	return ""
}
