package plugins_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/alexandre-normand/spotscot"
	"github.com/alexandre-normand/spotscot/plugins"
	"github.com/alexandre-normand/spotscot/store"
	"github.com/alexandre-normand/spotscot/store/inmemorydb"
	"github.com/alexandre-normand/spotscot/test/assertplugin"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpot(id string, channelID string, targetID string, status string, createdAt time.Time) store.Spot {
	return store.Spot{
		ID:        id,
		TeamID:    "T1",
		SpotterID: "U1",
		TargetID:  targetID,
		ImageURL:  fmt.Sprintf("https://files.example.com/%s.jpg", id),
		ChannelID: channelID,
		MessageID: fmt.Sprintf("1600000000.%s", id),
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestGalleryPromptsForMention(t *testing.T) {
	spots := inmemorydb.New()
	defer spots.Close()

	gallery := plugins.NewGallery(spots)
	asserter := assertplugin.New("T1")

	asserter.AnswersMessage(t, &gallery.Plugin, &slack.Msg{User: "U1", Channel: "C1", Text: "pics"}, func(t *testing.T, answer *spotscot.Answer) bool {
		require.NotNil(t, answer)
		return assert.Contains(t, answer.Text, "pics @someone")
	})
}

func TestGalleryOfCleanTarget(t *testing.T) {
	spots := inmemorydb.New()
	defer spots.Close()

	gallery := plugins.NewGallery(spots)
	asserter := assertplugin.New("T1")

	asserter.AnswersMessage(t, &gallery.Plugin, &slack.Msg{User: "U1", Channel: "C1", Text: "pics <@U2>"}, func(t *testing.T, answer *spotscot.Answer) bool {
		require.NotNil(t, answer)
		assert.Equal(t, "<@U2> is clean. No confirmed spots on record.", answer.Text)
		return assert.Empty(t, answer.ContentBlocks)
	})
}

func TestGalleryShowsNewestSpotsFirst(t *testing.T) {
	spots := inmemorydb.New()
	defer spots.Close()

	baseTime := time.Date(2020, time.March, 14, 15, 9, 26, 0, time.UTC)
	require.NoError(t, spots.PutSpot(newTestSpot("old", "C1", "U2", store.StatusConfirmed, baseTime)))
	require.NoError(t, spots.PutSpot(newTestSpot("new", "C1", "U2", store.StatusConfirmed, baseTime.Add(48*time.Hour))))

	gallery := plugins.NewGallery(spots)
	asserter := assertplugin.New("T1")

	asserter.AnswersMessage(t, &gallery.Plugin, &slack.Msg{User: "U1", Channel: "C1", Text: "pics <@U2>"}, func(t *testing.T, answer *spotscot.Answer) bool {
		require.NotNil(t, answer)

		// One header section then a divider and a section per spot
		require.Len(t, answer.ContentBlocks, 5)

		first := answer.ContentBlocks[2].(*slack.SectionBlock)
		return assert.Contains(t, first.Text.Text, "Mar 16, 2020")
	})
}

func TestGalleryCapsAtTenSpots(t *testing.T) {
	spots := inmemorydb.New()
	defer spots.Close()

	baseTime := time.Date(2020, time.March, 14, 15, 9, 26, 0, time.UTC)
	for i := 0; i < 12; i++ {
		require.NoError(t, spots.PutSpot(newTestSpot(fmt.Sprintf("s%02d", i), "C1", "U2", store.StatusConfirmed, baseTime.Add(time.Duration(i)*time.Hour))))
	}

	gallery := plugins.NewGallery(spots)
	asserter := assertplugin.New("T1")

	asserter.AnswersMessage(t, &gallery.Plugin, &slack.Msg{User: "U1", Channel: "C1", Text: "pics <@U2>"}, func(t *testing.T, answer *spotscot.Answer) bool {
		require.NotNil(t, answer)
		return assert.Len(t, answer.ContentBlocks, 21)
	})
}

func TestGalleryIgnoresOtherTargetsAndUnconfirmedSpots(t *testing.T) {
	spots := inmemorydb.New()
	defer spots.Close()

	baseTime := time.Date(2020, time.March, 14, 15, 9, 26, 0, time.UTC)
	require.NoError(t, spots.PutSpot(newTestSpot("confirmed", "C1", "U2", store.StatusConfirmed, baseTime)))
	require.NoError(t, spots.PutSpot(newTestSpot("pending", "C1", "U2", store.StatusPending, baseTime)))
	require.NoError(t, spots.PutSpot(newTestSpot("other", "C1", "U3", store.StatusConfirmed, baseTime)))

	gallery := plugins.NewGallery(spots)
	asserter := assertplugin.New("T1")

	asserter.AnswersMessage(t, &gallery.Plugin, &slack.Msg{User: "U1", Channel: "C1", Text: "pics <@U2>"}, func(t *testing.T, answer *spotscot.Answer) bool {
		require.NotNil(t, answer)
		return assert.Len(t, answer.ContentBlocks, 3)
	})
}
