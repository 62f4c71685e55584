package plugins

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/alexandre-normand/spotscot"
	"github.com/alexandre-normand/spotscot/actions"
	"github.com/alexandre-normand/spotscot/plugin"
	"github.com/alexandre-normand/spotscot/store"
	"github.com/slack-go/slack"
)

const (
	// GalleryPluginName holds the name of the gallery plugin
	GalleryPluginName = "gallery"

	gallerySize = 10

	galleryUsagePrompt = "Tell me whose pics you want, i.e. `pics @someone`"
	galleryErrorReply  = "I couldn't pull up the gallery right now. Try again later."
	galleryDateFormat  = "Jan 2, 2006"
)

var galleryKeywordRegex = regexp.MustCompile(`(?i)\bpics\b`)

// Gallery holds the plugin data for the gallery plugin
type Gallery struct {
	spotscot.Plugin

	spots store.SpotStorer
}

// NewGallery creates a new instance of the gallery plugin. It answers "pics"
// requests with the newest confirmed spots of the mentioned member
func NewGallery(spots store.SpotStorer) (gallery *Gallery) {
	gallery = new(Gallery)
	gallery.spots = spots
	gallery.Plugin = *plugin.New(GalleryPluginName).
		WithHearAction(actions.NewHearAction().
			WithMatcher(func(m *spotscot.IncomingMessage) bool {
				return galleryKeywordRegex.MatchString(m.Text)
			}).
			WithUsage("pics @someone").
			WithDescription("Show the latest confirmed spots of the mentioned member").
			WithAnswerer(gallery.showGallery).
			Build()).
		Build()

	return gallery
}

func (g *Gallery) showGallery(m *spotscot.IncomingMessage) *spotscot.Answer {
	target := firstUserMention(m.Text)
	if target == "" {
		return &spotscot.Answer{Text: galleryUsagePrompt}
	}

	spots, err := g.spots.ScanSpots(m.TeamID, m.Channel)
	if err != nil {
		g.Logger.Printf("Error scanning spots for gallery of [%s] in [%s]: %v", target, m.Channel, err)
		return &spotscot.Answer{Text: galleryErrorReply}
	}

	captured := make([]store.Spot, 0)
	for _, spot := range spots {
		if spot.Status == store.StatusConfirmed && spot.TargetID == target {
			captured = append(captured, spot)
		}
	}

	if len(captured) == 0 {
		return &spotscot.Answer{Text: fmt.Sprintf("<@%s> is clean. No confirmed spots on record.", target)}
	}

	sort.Slice(captured, func(i int, j int) bool {
		return captured[i].CreatedAt.After(captured[j].CreatedAt)
	})

	if len(captured) > gallerySize {
		captured = captured[:gallerySize]
	}

	return &spotscot.Answer{
		Text:          fmt.Sprintf("📸 The gallery of <@%s>", target),
		ContentBlocks: renderGalleryBlocks(target, captured),
	}
}

// renderGalleryBlocks renders one section per spot separated by dividers,
// newest first
func renderGalleryBlocks(target string, spots []store.Spot) (blocks []slack.Block) {
	blocks = make([]slack.Block, 0, 2*len(spots)+1)
	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("📸 *The gallery of <@%s>*", target), false, false), nil, nil))

	for _, spot := range spots {
		blocks = append(blocks, slack.NewDividerBlock())
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*%s* by <@%s>\n<%s|View the evidence>", spot.CreatedAt.Format(galleryDateFormat), spot.SpotterID, spot.ImageURL),
				false, false), nil, nil))
	}

	return blocks
}
