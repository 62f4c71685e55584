package actions_test

import (
	"testing"
	"time"

	"github.com/alexandre-normand/spotscot"
	"github.com/alexandre-normand/spotscot/actions"
	"github.com/alexandre-normand/spotscot/schedule"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHearActionNeverMatches(t *testing.T) {
	a := actions.NewHearAction().Build()

	assert.False(t, a.Hidden)
	assert.False(t, a.Match(&spotscot.IncomingMessage{}))
	assert.Nil(t, a.Answer(&spotscot.IncomingMessage{}))
}

func TestHearActionWithAllAttributes(t *testing.T) {
	a := actions.NewHearAction().
		Hidden().
		WithMatcher(func(m *spotscot.IncomingMessage) bool {
			return m.Text == "ping"
		}).
		WithUsage("ping").
		WithDescriptionf("Answer with %s", "pong").
		WithAnswerer(func(m *spotscot.IncomingMessage) *spotscot.Answer {
			return &spotscot.Answer{Text: "pong"}
		}).
		Build()

	assert.True(t, a.Hidden)
	assert.Equal(t, "ping", a.Usage)
	assert.Equal(t, "Answer with pong", a.Description)

	m := &spotscot.IncomingMessage{}
	m.Text = "ping"
	require.True(t, a.Match(m))

	answer := a.Answer(m)
	require.NotNil(t, answer)
	assert.Equal(t, "pong", answer.Text)
}

func TestSlashCommandBuilder(t *testing.T) {
	c := actions.NewSlashCommand("/loop").
		WithUsage("/loop [count]").
		WithDescription("Loop around").
		Ungated().
		WithAnswerer(func(cmd *slack.SlashCommand) *spotscot.Answer {
			return &spotscot.Answer{Text: "looping"}
		}).
		Build()

	assert.Equal(t, "/loop", c.Command)
	assert.Equal(t, "/loop [count]", c.Usage)
	assert.Equal(t, "Loop around", c.Description)
	assert.True(t, c.Ungated)

	answer := c.Answer(&slack.SlashCommand{Command: "/loop"})
	require.NotNil(t, answer)
	assert.Equal(t, "looping", answer.Text)
}

func TestDefaultSlashCommandStaysQuiet(t *testing.T) {
	c := actions.NewSlashCommand("/quiet").Build()

	assert.False(t, c.Ungated)
	assert.Nil(t, c.Answer(&slack.SlashCommand{Command: "/quiet"}))
}

func TestScheduledActionBuilder(t *testing.T) {
	ran := false
	sa := actions.NewScheduledAction().
		WithSchedule(schedule.Definition{Weekday: time.Monday.String(), AtTime: "09:00"}).
		WithDescription("Weekly kickoff").
		WithAction(func() {
			ran = true
		}).
		Build()

	assert.Equal(t, "Every Monday at 09:00", sa.Schedule.String())
	assert.Equal(t, "Weekly kickoff", sa.Description)
	assert.False(t, sa.Hidden)

	sa.Action()
	assert.True(t, ran)
}
