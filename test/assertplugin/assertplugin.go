// Package assertplugin provides testing functions to validate a plugin's
// overall functionality. It drives a plugin's actions the way the engine does,
// including the first match owning an incoming message
package assertplugin

import (
	"log"
	"strings"
	"testing"

	"github.com/alexandre-normand/spotscot"
	"github.com/slack-go/slack"
)

// Asserter represents a plugin driver/asserter holding the workspace id that
// test messages and commands are sent as
type Asserter struct {
	teamID string
	logger *log.Logger
}

// New creates a new asserter driving a plugin with messages from the given
// workspace
func New(teamID string, options ...Option) (a *Asserter) {
	a = new(Asserter)
	a.teamID = teamID

	for _, option := range options {
		option(a)
	}

	return a
}

// Option defines an option for the Asserter
type Option func(*Asserter)

// OptionLog sets a logger for the asserter such that this logger is attached
// to the plugin when driven by the asserter
func OptionLog(logger *log.Logger) func(*Asserter) {
	return func(a *Asserter) {
		a.logger = logger
	}
}

// ResultValidator is a function to do further validation of the answer
// resulting from a plugin processing a message or command. The answer is nil
// when no action matched or the matching action stayed quiet. The return
// value follows the testify convention of true meaning success
type ResultValidator func(t *testing.T, answer *spotscot.Answer) bool

// AnswersMessage drives a plugin's hear actions with an incoming message and
// passes the resulting answer to the validator. Matching follows engine
// semantics so only the first matching hear action runs
func (a *Asserter) AnswersMessage(t *testing.T, p *spotscot.Plugin, m *slack.Msg, validate ResultValidator) (valid bool) {
	p.Logger = spotscot.NewSLogger(getLogger(a), true)

	inMsg := &spotscot.IncomingMessage{TeamID: a.teamID, Msg: *m}

	for _, action := range p.HearActions {
		if action.Match(inMsg) {
			return validate(t, action.Answer(inMsg))
		}
	}

	return validate(t, nil)
}

// AnswersCommand drives one of the plugin's slash commands and passes the
// resulting answer to the validator. The command's TeamID is set to the
// asserter's workspace when left empty
func (a *Asserter) AnswersCommand(t *testing.T, p *spotscot.Plugin, c *slack.SlashCommand, validate ResultValidator) (valid bool) {
	p.Logger = spotscot.NewSLogger(getLogger(a), true)

	if c.TeamID == "" {
		c.TeamID = a.teamID
	}

	for _, command := range p.SlashCommands {
		if command.Command == c.Command {
			return validate(t, command.Answer(c))
		}
	}

	return validate(t, nil)
}

func getLogger(a *Asserter) (logger *log.Logger) {
	if a.logger != nil {
		return a.logger
	}

	var b strings.Builder
	return log.New(&b, "", 0)
}
