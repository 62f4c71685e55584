package plugins

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexandre-normand/spotscot"
	"github.com/alexandre-normand/spotscot/schedule"
	"github.com/alexandre-normand/spotscot/store"
	"github.com/slack-go/slack"
	"github.com/spf13/cast"
)

const (
	// LeaderboardsPluginName holds the name of the leaderboards plugin
	LeaderboardsPluginName = "leaderboards"

	defaultBoardSize = 10
	maxBoardSize     = 25

	spotboardHeader   = "🏆 *Top Spotters*"
	caughtboardHeader = "📸 *Most Spotted*"

	emptySpotboardReply   = "No spots on the board yet. Go catch someone in the wild!"
	emptyCaughtboardReply = "Nobody has been caught yet. The wild is quiet."

	boardErrorReply = "I couldn't pull up the board right now. Try again later."
)

// rank markers for the top three positions, everyone below gets a bullet
var rankMarkers = []string{":first_place_medal:", ":second_place_medal:", ":third_place_medal:"}

// Leaderboards holds the plugin data for the leaderboards plugin
type Leaderboards struct {
	spotscot.Plugin

	spots    store.SpotStorer
	registry spotscot.TenantRegistry
	poster   spotscot.ChannelPoster
}

// NewLeaderboards creates a new instance of the leaderboards plugin answering
// the spotboard and caughtboard commands and posting a weekly recap to every
// bound channel
func NewLeaderboards(spots store.SpotStorer, registry spotscot.TenantRegistry, poster spotscot.ChannelPoster) (leaderboards *Leaderboards) {
	leaderboards = new(Leaderboards)
	leaderboards.spots = spots
	leaderboards.registry = registry
	leaderboards.poster = poster
	leaderboards.Plugin = spotscot.Plugin{
		Name: LeaderboardsPluginName,
		SlashCommands: []spotscot.SlashCommandDefinition{
			{
				Command:     "/spotboard",
				Usage:       "/spotboard [count]",
				Description: "Show the top spotters of the channel",
				Answer:      leaderboards.showSpotboard,
			},
			{
				Command:     "/caughtboard",
				Usage:       "/caughtboard [count]",
				Description: "Show the most spotted members of the channel",
				Answer:      leaderboards.showCaughtboard,
			},
		},
		ScheduledActions: []spotscot.ScheduledActionDefinition{
			{
				Schedule:    schedule.Definition{Weekday: time.Monday.String(), AtTime: "09:00"},
				Description: "Post the weekly top spotters recap to every bound channel",
				Action:      leaderboards.postWeeklyRecap,
			},
		},
	}

	return leaderboards
}

func (l *Leaderboards) showSpotboard(c *slack.SlashCommand) *spotscot.Answer {
	return l.showBoard(c, spotboardHeader, emptySpotboardReply, func(s store.Spot) string { return s.SpotterID })
}

func (l *Leaderboards) showCaughtboard(c *slack.SlashCommand) *spotscot.Answer {
	return l.showBoard(c, caughtboardHeader, emptyCaughtboardReply, func(s store.Spot) string { return s.TargetID })
}

func (l *Leaderboards) showBoard(c *slack.SlashCommand, header string, emptyReply string, keyOf func(store.Spot) string) *spotscot.Answer {
	limit := parseBoardSize(c.Text)

	spots, err := l.spots.ScanSpots(c.TeamID, c.ChannelID)
	if err != nil {
		l.Logger.Printf("Error scanning spots for board in [%s/%s]: %v", c.TeamID, c.ChannelID, err)
		return &spotscot.Answer{Text: boardErrorReply, Options: []spotscot.AnswerOption{spotscot.AnswerEphemeral()}}
	}

	ranking := rankByCount(spots, keyOf)
	if len(ranking) == 0 {
		return &spotscot.Answer{Text: emptyReply}
	}

	if len(ranking) > limit {
		ranking = ranking[:limit]
	}

	return &spotscot.Answer{Text: formatBoard(header, ranking)}
}

// parseBoardSize reads the optional count argument of a board command. A
// missing or unparseable argument falls back to the default size and anything
// above the maximum is clamped down to it
func parseBoardSize(commandText string) (size int) {
	size = defaultBoardSize

	fields := strings.Fields(commandText)
	if len(fields) > 0 {
		if parsed := cast.ToInt(fields[0]); parsed > 0 {
			size = parsed
		}
	}

	if size > maxBoardSize {
		size = maxBoardSize
	}

	return size
}

type boardEntry struct {
	userID string
	count  int
}

// rankByCount groups confirmed spots by the given key and sorts the tally
// descending, breaking ties on user id for a stable board
func rankByCount(spots []store.Spot, keyOf func(store.Spot) string) (ranking []boardEntry) {
	counts := make(map[string]int)
	for _, spot := range spots {
		if spot.Status == store.StatusConfirmed {
			counts[keyOf(spot)]++
		}
	}

	ranking = make([]boardEntry, 0, len(counts))
	for userID, count := range counts {
		ranking = append(ranking, boardEntry{userID: userID, count: count})
	}

	sort.Slice(ranking, func(i int, j int) bool {
		if ranking[i].count == ranking[j].count {
			return ranking[i].userID < ranking[j].userID
		}

		return ranking[i].count > ranking[j].count
	})

	return ranking
}

func formatBoard(header string, ranking []boardEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", header)
	for i, entry := range ranking {
		marker := "•"
		if i < len(rankMarkers) {
			marker = rankMarkers[i]
		}

		fmt.Fprintf(&b, "%s <@%s> with %s\n", marker, entry.userID, pluralizeSpots(entry.count))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func pluralizeSpots(count int) string {
	if count == 1 {
		return "1 spot"
	}

	return fmt.Sprintf("%d spots", count)
}

// postWeeklyRecap posts the top spotters board to every bound channel. A
// channel without spots stays quiet
func (l *Leaderboards) postWeeklyRecap() {
	tenants, err := l.registry.ActiveTenants()
	if err != nil {
		l.Logger.Printf("Error listing bound channels for weekly recap: %v", err)
		return
	}

	for _, tenant := range tenants {
		spots, err := l.spots.ScanSpots(tenant.TeamID, tenant.ChannelID)
		if err != nil {
			l.Logger.Printf("Error scanning spots for weekly recap in [%s/%s]: %v", tenant.TeamID, tenant.ChannelID, err)
			continue
		}

		ranking := rankByCount(spots, func(s store.Spot) string { return s.SpotterID })
		if len(ranking) == 0 {
			continue
		}

		if len(ranking) > defaultBoardSize {
			ranking = ranking[:defaultBoardSize]
		}

		recap := fmt.Sprintf("☀️ Happy Monday! Here's where the board stands:\n%s", formatBoard(spotboardHeader, ranking))
		if err := l.poster.PostToChannel(tenant.TeamID, tenant.ChannelID, recap); err != nil {
			l.Logger.Printf("Error posting weekly recap to [%s/%s]: %v", tenant.TeamID, tenant.ChannelID, err)
		}
	}
}
