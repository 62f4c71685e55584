package spotscot

import (
	"testing"

	"github.com/slack-go/slack/slackevents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsAPIMessageConversionCarriesFiles(t *testing.T) {
	ev := &slackevents.MessageEvent{
		Type:            "message",
		SubType:         subtypeFileShare,
		Channel:         "C1",
		User:            "U1",
		Text:            "spotted <@U2>",
		TimeStamp:       "1600000000.000001",
		ThreadTimeStamp: "1600000000.000000",
		Files: []slackevents.File{
			{ID: "F1", Name: "gopher.jpg", Mimetype: "image/jpeg", URLPrivate: "https://files.example.com/gopher.jpg", Permalink: "https://example.slack.com/files/F1"},
		},
	}

	m := newIncomingMessage("T1", ev)

	assert.Equal(t, "T1", m.TeamID)
	assert.Equal(t, "C1", m.Channel)
	assert.Equal(t, "U1", m.User)
	assert.Equal(t, "spotted <@U2>", m.Text)
	assert.Equal(t, "1600000000.000001", m.Timestamp)
	assert.Equal(t, "1600000000.000000", m.ThreadTimestamp)
	require.Len(t, m.Files, 1)
	assert.Equal(t, "image/jpeg", m.Files[0].Mimetype)
	assert.Equal(t, "https://files.example.com/gopher.jpg", m.Files[0].URLPrivate)
	assert.Equal(t, "https://example.slack.com/files/F1", m.Files[0].Permalink)
}

func TestEventsAPIMessageDispatchAnswersInChannel(t *testing.T) {
	s, captor, _ := newTestEngine(t, "C1", newEchoPlugin("echo", matchAll, "heard you"))

	s.dispatchEventsAPIEvent(slackevents.EventsAPIEvent{
		Type:   slackevents.CallbackEvent,
		TeamID: "T1",
		InnerEvent: slackevents.EventsAPIInnerEvent{
			Data: &slackevents.MessageEvent{Type: "message", Channel: "C1", User: "U1", Text: "anything", TimeStamp: "1600000000.000001"},
		},
	})

	require.Len(t, captor.sent, 1)
	assert.Equal(t, "C1", captor.sent[0].channelID)
}

func TestEditedMessagesAreDroppedAtTheDriver(t *testing.T) {
	s, captor, _ := newTestEngine(t, "C1", newEchoPlugin("echo", matchAll, "heard you"))

	s.dispatchEventsAPIEvent(slackevents.EventsAPIEvent{
		Type:   slackevents.CallbackEvent,
		TeamID: "T1",
		InnerEvent: slackevents.EventsAPIInnerEvent{
			Data: &slackevents.MessageEvent{Type: "message", SubType: "message_changed", Channel: "C1", User: "U1", Text: "anything edited"},
		},
	})

	assert.Empty(t, captor.sent)
}
