package plugins_test

import (
	"testing"

	"github.com/alexandre-normand/spotscot"
	"github.com/alexandre-normand/spotscot/plugins"
	"github.com/alexandre-normand/spotscot/store"
	"github.com/alexandre-normand/spotscot/store/inmemorydb"
	"github.com/alexandre-normand/spotscot/store/mocks"
	"github.com/alexandre-normand/spotscot/test/assertplugin"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSpotLoggedWithMentionAndImage(t *testing.T) {
	spots := inmemorydb.New()
	defer spots.Close()

	spotLog := plugins.NewSpotLog(spots)
	asserter := assertplugin.New("T1")

	msg := &slack.Msg{User: "U1", Channel: "C1", Timestamp: "1600000000.000100", Text: "Look who I found <@U2>",
		Files: []slack.File{{ID: "F1", Mimetype: "image/jpeg", URLPrivate: "https://files.example.com/spot.jpg"}}}

	asserter.AnswersMessage(t, &spotLog.Plugin, msg, func(t *testing.T, answer *spotscot.Answer) bool {
		require.NotNil(t, answer)
		return assert.Equal(t, "Spot Logged! <@U1> has captured <@U2> in the wild.", answer.Text)
	})

	persisted, err := spots.ScanSpots("T1", "C1")
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "U1", persisted[0].SpotterID)
	assert.Equal(t, "U2", persisted[0].TargetID)
	assert.Equal(t, store.StatusConfirmed, persisted[0].Status)
	assert.Equal(t, "https://files.example.com/spot.jpg", persisted[0].ImageURL)
	assert.Equal(t, "1600000000.000100", persisted[0].MessageID)
}

func TestSpotWithLabeledMention(t *testing.T) {
	spots := inmemorydb.New()
	defer spots.Close()

	spotLog := plugins.NewSpotLog(spots)
	asserter := assertplugin.New("T1")

	msg := &slack.Msg{User: "U1", Channel: "C1", Timestamp: "1600000000.000200", Text: "spotted <@U2|bob> again",
		Files: []slack.File{{ID: "F1", Mimetype: "image/png", URLPrivate: "https://files.example.com/spot.png"}}}

	asserter.AnswersMessage(t, &spotLog.Plugin, msg, func(t *testing.T, answer *spotscot.Answer) bool {
		require.NotNil(t, answer)
		return assert.Contains(t, answer.Text, "<@U2>")
	})
}

func TestNoPhotoNoGlory(t *testing.T) {
	spots := inmemorydb.New()
	defer spots.Close()

	spotLog := plugins.NewSpotLog(spots)
	asserter := assertplugin.New("T1")

	msg := &slack.Msg{User: "U1", Channel: "C1", Text: "I swear I saw <@U2> at the gym"}

	asserter.AnswersMessage(t, &spotLog.Plugin, msg, func(t *testing.T, answer *spotscot.Answer) bool {
		require.NotNil(t, answer)
		return assert.Contains(t, answer.Text, "No photo, no glory")
	})

	persisted, err := spots.ScanSpots("T1", "C1")
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestNonImageAttachmentDoesNotCount(t *testing.T) {
	spots := inmemorydb.New()
	defer spots.Close()

	spotLog := plugins.NewSpotLog(spots)
	asserter := assertplugin.New("T1")

	msg := &slack.Msg{User: "U1", Channel: "C1", Text: "evidence of <@U2>",
		Files: []slack.File{{ID: "F1", Mimetype: "application/pdf", URLPrivate: "https://files.example.com/report.pdf"}}}

	asserter.AnswersMessage(t, &spotLog.Plugin, msg, func(t *testing.T, answer *spotscot.Answer) bool {
		require.NotNil(t, answer)
		return assert.Contains(t, answer.Text, "No photo, no glory")
	})
}

func TestSpottedKeywordWithoutMentionStaysQuiet(t *testing.T) {
	spots := inmemorydb.New()
	defer spots.Close()

	spotLog := plugins.NewSpotLog(spots)
	asserter := assertplugin.New("T1")

	msg := &slack.Msg{User: "U1", Channel: "C1", Text: "spotted someone but I won't say who"}

	asserter.AnswersMessage(t, &spotLog.Plugin, msg, func(t *testing.T, answer *spotscot.Answer) bool {
		return assert.Nil(t, answer)
	})
}

func TestSpotPersistenceFailure(t *testing.T) {
	spots := new(mocks.SpotStorer)
	spots.On("PutSpot", mock.Anything).Return(errors.New("backend down"))

	spotLog := plugins.NewSpotLog(spots)
	asserter := assertplugin.New("T1")

	msg := &slack.Msg{User: "U1", Channel: "C1", Text: "<@U2> in the wild",
		Files: []slack.File{{ID: "F1", Mimetype: "image/jpeg", URLPrivate: "https://files.example.com/spot.jpg"}}}

	asserter.AnswersMessage(t, &spotLog.Plugin, msg, func(t *testing.T, answer *spotscot.Answer) bool {
		require.NotNil(t, answer)
		return assert.Contains(t, answer.Text, "didn't count")
	})

	spots.AssertExpectations(t)
}
