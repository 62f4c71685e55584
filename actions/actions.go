/*
Package actions provides a fluent API for creating spotscot plugin actions.
Typical usages will also involve using the plugin fluent API from
github.com/alexandre-normand/spotscot/plugin:

	import (
		"github.com/alexandre-normand/spotscot"
		"github.com/alexandre-normand/spotscot/actions"
		"github.com/alexandre-normand/spotscot/plugin"
	)

	func newPlugin() (p *spotscot.Plugin) {
		p = plugin.New("greeter").
			WithHearAction(actions.NewHearAction().
				WithMatcher(func(m *spotscot.IncomingMessage) bool {
					return strings.HasPrefix(m.Text, "hello")
				}).
				WithUsage("hello").
				WithDescription("Greet back").
				WithAnswerer(func(m *spotscot.IncomingMessage) *spotscot.Answer {
					return &spotscot.Answer{Text: "👋"}
				}).
				Build()).
			Build()
		return p
	}
*/
package actions

import (
	"fmt"

	"github.com/alexandre-normand/spotscot"
	"github.com/alexandre-normand/spotscot/schedule"
	"github.com/slack-go/slack"
)

// HearActionBuilder holds the hear action to build
type HearActionBuilder struct {
	action spotscot.ActionDefinition
}

// SlashCommandBuilder holds the slash command to build
type SlashCommandBuilder struct {
	command spotscot.SlashCommandDefinition
}

// ScheduledActionBuilder holds the scheduled action to build
type ScheduledActionBuilder struct {
	scheduledAction spotscot.ScheduledActionDefinition
}

var (
	// Default to never match so an action without a matcher never answers by
	// accident. Hear actions share an ordered routing where the first match
	// consumes the message
	defaultMatcher = func(m *spotscot.IncomingMessage) bool {
		return false
	}

	defaultAnswerer = func(m *spotscot.IncomingMessage) *spotscot.Answer {
		return nil
	}

	defaultCommandAnswerer = func(c *slack.SlashCommand) *spotscot.Answer {
		return nil
	}
)

// NewHearAction returns a new HearActionBuilder to build a new hear action
func NewHearAction() (hab *HearActionBuilder) {
	hab = new(HearActionBuilder)
	hab.action = spotscot.ActionDefinition{Hidden: false, Match: defaultMatcher, Answer: defaultAnswerer}

	return hab
}

// WithMatcher sets the action's matcher function
func (hab *HearActionBuilder) WithMatcher(matcher spotscot.Matcher) *HearActionBuilder {
	hab.action.Match = matcher
	return hab
}

// WithUsage sets the action usage
func (hab *HearActionBuilder) WithUsage(usage string) *HearActionBuilder {
	hab.action.Usage = usage
	return hab
}

// WithDescription sets the action description
func (hab *HearActionBuilder) WithDescription(description string) *HearActionBuilder {
	hab.action.Description = description
	return hab
}

// WithDescriptionf sets the action description delegating format and arguments to fmt.Sprintf
func (hab *HearActionBuilder) WithDescriptionf(format string, a ...interface{}) *HearActionBuilder {
	hab.action.Description = fmt.Sprintf(format, a...)
	return hab
}

// WithAnswerer sets the action's answerer function
func (hab *HearActionBuilder) WithAnswerer(answerer spotscot.Answerer) *HearActionBuilder {
	hab.action.Answer = answerer
	return hab
}

// Hidden sets the action to hidden
func (hab *HearActionBuilder) Hidden() *HearActionBuilder {
	hab.action.Hidden = true
	return hab
}

// Build returns the ActionDefinition
func (hab *HearActionBuilder) Build() spotscot.ActionDefinition {
	return hab.action
}

// NewSlashCommand returns a new SlashCommandBuilder for the given command
// name (including the leading slash)
func NewSlashCommand(command string) (scb *SlashCommandBuilder) {
	scb = new(SlashCommandBuilder)
	scb.command = spotscot.SlashCommandDefinition{Command: command, Answer: defaultCommandAnswerer}

	return scb
}

// WithUsage sets the command usage
func (scb *SlashCommandBuilder) WithUsage(usage string) *SlashCommandBuilder {
	scb.command.Usage = usage
	return scb
}

// WithDescription sets the command description
func (scb *SlashCommandBuilder) WithDescription(description string) *SlashCommandBuilder {
	scb.command.Description = description
	return scb
}

// WithAnswerer sets the command's answerer function
func (scb *SlashCommandBuilder) WithAnswerer(answerer spotscot.CommandAnswerer) *SlashCommandBuilder {
	scb.command.Answer = answerer
	return scb
}

// Ungated makes the command run without the active channel gate
func (scb *SlashCommandBuilder) Ungated() *SlashCommandBuilder {
	scb.command.Ungated = true
	return scb
}

// Build returns the SlashCommandDefinition
func (scb *SlashCommandBuilder) Build() spotscot.SlashCommandDefinition {
	return scb.command
}

// NewScheduledAction returns a new ScheduledActionBuilder to build a new ScheduledActionDefinition
func NewScheduledAction() (sab *ScheduledActionBuilder) {
	sab = new(ScheduledActionBuilder)
	sab.scheduledAction = spotscot.ScheduledActionDefinition{Hidden: false}
	sab.scheduledAction.Action = func() {}

	return sab
}

// WithSchedule sets the schedule for the scheduled action
func (sab *ScheduledActionBuilder) WithSchedule(schedule schedule.Definition) *ScheduledActionBuilder {
	sab.scheduledAction.Schedule = schedule
	return sab
}

// WithDescription sets the scheduled action description
func (sab *ScheduledActionBuilder) WithDescription(desc string) *ScheduledActionBuilder {
	sab.scheduledAction.Description = desc
	return sab
}

// WithAction sets the action function to run on schedule
func (sab *ScheduledActionBuilder) WithAction(action spotscot.ScheduledAction) *ScheduledActionBuilder {
	sab.scheduledAction.Action = action
	return sab
}

// Hidden sets the scheduled action to hidden
func (sab *ScheduledActionBuilder) Hidden() *ScheduledActionBuilder {
	sab.scheduledAction.Hidden = true
	return sab
}

// Build returns the ScheduledActionDefinition
func (sab *ScheduledActionBuilder) Build() spotscot.ScheduledActionDefinition {
	return sab.scheduledAction
}
