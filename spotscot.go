// Package spotscot provides the building blocks of the spotscot slack bot: a bot
// that lets members of a workspace post photographic "spots" of coworkers in a
// bound channel, tallies leaderboards and gives workspace admins moderation
// controls (channel binding, veto, reset).
//
// Features are packaged as plugins combining hear actions (message listeners),
// slash commands and scheduled actions. Hear actions form an ordered list of
// (predicate, handler) pairs: the first matching action owns the message and
// routing stops there, which keeps matching semantics auditable when triggers
// overlap (the gallery keyword takes priority over the mention-based spot
// logger, for instance).
package spotscot

import (
	"context"
	"fmt"
	"github.com/alexandre-normand/spotscot/config"
	"github.com/alexandre-normand/spotscot/schedule"
	"github.com/alexandre-normand/spotscot/store"
	"github.com/marcsantiago/gocron"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/api/global"
	"go.opentelemetry.io/otel/api/metric"
	"log"
	"os"
	"time"
)

// VERSION is the current version of the spotscot bot
const VERSION = "1.0.0"

const notActiveNotice = "I'm not active here. A workspace admin can bind me to a channel with `/setchannel`."

// Spotscot represents the bot engine: its registered plugins, its tenant
// resolution strategy and the configuration driving which deployment mode
// (socket or events over HTTP) it runs in
type Spotscot struct {
	name    string
	config  *viper.Viper
	plugins []*Plugin

	registry      TenantRegistry
	installations store.InstallationStorer

	// Internal ordered state built once all plugins are registered
	hearActionsWithID   []ActionDefinitionWithID
	slashCommandsWithID []SlashCommandDefinitionWithID

	// Seams over slack delivery, replaceable in tests
	senderFor   func(teamID string) (sender messageSender, err error)
	postWebhook webhookSender

	log          *sLogger
	instrumenter *instrumenter
}

// Plugin represents a plugin: its name along with its hear actions, slash
// commands and scheduled actions. The Logger is injected by the engine before
// any action runs
type Plugin struct {
	Name             string
	HearActions      []ActionDefinition
	SlashCommands    []SlashCommandDefinition
	ScheduledActions []ScheduledActionDefinition

	Logger SLogger
}

// IncomingMessage holds an inbound message along with the workspace it came
// from. The embedded slack.Msg carries the channel, user, text, timestamps and
// file attachments
type IncomingMessage struct {
	TeamID string

	slack.Msg
}

// Matcher is the predicate that determines whether or not a hear action should
// be triggered. Note that a match doesn't guarantee that the action answers
// with anything once invoked
type Matcher func(m *IncomingMessage) bool

// Answerer is what gets executed when a hear action is triggered
type Answerer func(m *IncomingMessage) *Answer

// CommandAnswerer is what gets executed when a slash command is invoked
type CommandAnswerer func(c *slack.SlashCommand) *Answer

// ScheduledAction is what gets executed when a ScheduledActionDefinition's
// schedule activates
type ScheduledAction func()

// ActionDefinition represents how a hear action is triggered, published, used
// and described along with the function defining its behavior
type ActionDefinition struct {
	// Indicates whether the action should be omitted from the help message
	Hidden bool

	// Matcher that will determine whether or not the action should be triggered
	Match Matcher

	// Usage example
	Usage string

	// Help description for the action
	Description string

	// Function to execute if the Matcher matches
	Answer Answerer
}

// String returns a friendly description of an ActionDefinition
func (a ActionDefinition) String() string {
	return fmt.Sprintf("`%s` - %s", a.Usage, a.Description)
}

// SlashCommandDefinition represents a slash command: the command it binds to
// (with the leading slash, i.e. "/spotboard") and the function answering it.
// Ungated commands skip the active channel gate; that's reserved for the
// channel binding command since no channel is bound when it runs
type SlashCommandDefinition struct {
	// Command is the slash command name, including the leading slash
	Command string

	// Usage example
	Usage string

	// Help description for the command
	Description string

	// Ungated indicates that the command runs without the active channel gate
	Ungated bool

	// Function to execute when the command is invoked
	Answer CommandAnswerer
}

// String returns a friendly description of a SlashCommandDefinition
func (sc SlashCommandDefinition) String() string {
	return fmt.Sprintf("`%s` - %s", sc.Usage, sc.Description)
}

// ScheduledActionDefinition represents when a scheduled action is triggered as
// well as what it does
type ScheduledActionDefinition struct {
	// Indicates whether the action should be omitted from the help message
	Hidden bool

	// Schedule on which the action activates
	Schedule schedule.Definition

	// Help description for the scheduled action
	Description string

	// Action is the function that is invoked when the schedule activates
	Action ScheduledAction
}

// String returns a friendly description of a ScheduledActionDefinition
func (sa ScheduledActionDefinition) String() string {
	return fmt.Sprintf("`%s` - %s", sa.Schedule, sa.Description)
}

// ActionDefinitionWithID holds an action definition along with its identifier string
type ActionDefinitionWithID struct {
	ActionDefinition
	id string
}

// SlashCommandDefinitionWithID holds a slash command definition along with its identifier string
type SlashCommandDefinitionWithID struct {
	SlashCommandDefinition
	id string
}

// Option defines an option for the Spotscot engine
type Option func(*Spotscot)

// OptionLog sets the logger the engine writes to (and injects into plugins
// that don't have one)
func OptionLog(logger *log.Logger) Option {
	return func(s *Spotscot) {
		s.log = NewSLogger(logger, s.config.GetBool(config.DebugKey))
	}
}

// OptionMeter sets the opentelemetry meter recording the engine metrics
func OptionMeter(meter metric.Meter) Option {
	return func(s *Spotscot) {
		s.instrumenter = newInstrumenter(s.name, meter)
	}
}

// OptionInstallationStorer sets the installation store backing the OAuth
// install flow of the events mode. Socket mode deployments don't need one
func OptionInstallationStorer(installations store.InstallationStorer) Option {
	return func(s *Spotscot) {
		s.installations = installations
	}
}

// New creates a new spotscot engine with a name, a configuration and the
// tenant resolution strategy matching the deployment (static for a single
// workspace, installation-backed for multi-workspace OAuth deployments)
func New(name string, v *viper.Viper, registry TenantRegistry, options ...Option) (bot *Spotscot, err error) {
	bot = new(Spotscot)
	bot.name = name
	bot.config = v
	bot.registry = registry
	bot.plugins = make([]*Plugin, 0)
	bot.log = NewSLogger(log.New(os.Stdout, "spotscot: ", log.Lshortfile|log.LstdFlags), v.GetBool(config.DebugKey))
	bot.senderFor = func(teamID string) (sender messageSender, err error) {
		return registry.Client(teamID)
	}
	bot.postWebhook = slack.PostWebhook

	for _, option := range options {
		option(bot)
	}

	if bot.instrumenter == nil {
		bot.instrumenter = newInstrumenter(name, global.MeterProvider().Meter("spotscot"))
	}

	return bot, nil
}

// RegisterPlugin registers a plugin with the engine. This should be invoked
// prior to calling Run. Registration order defines hear action priority
func (s *Spotscot) RegisterPlugin(p *Plugin) {
	s.plugins = append(s.plugins, p)
}

// Run starts the bot in the configured deployment mode and blocks until the
// driver terminates
func (s *Spotscot) Run() (err error) {
	// Add the help plugin now that we know all feature plugins have been registered
	helpPlugin := newHelpPlugin(s.name, VERSION, s.plugins)
	s.RegisterPlugin(&helpPlugin.Plugin)

	s.attachIdentifiersToPluginActions()
	s.injectServicesToPlugins()

	timeLoc, err := config.GetTimeLocation(s.config)
	if err != nil {
		return err
	}

	go s.startActionScheduler(timeLoc)

	switch mode := s.config.GetString(config.ModeKey); mode {
	case config.ModeSocket:
		return s.runSocketMode()
	case config.ModeEvents:
		return s.runEventsAPI()
	default:
		return fmt.Errorf("unknown deployment mode [%s]", mode)
	}
}

// attachIdentifiersToPluginActions attaches an action identifier to every plugin
// action and sets them in the engine's ordered internal state.
// The identifiers are generated the following way:
//  - pluginName.h[pluginIndexOfTheHearAction] for hear actions
//  - pluginName.s[pluginIndexOfTheSlashCommand] for slash commands
func (s *Spotscot) attachIdentifiersToPluginActions() {
	s.hearActionsWithID = make([]ActionDefinitionWithID, 0)
	s.slashCommandsWithID = make([]SlashCommandDefinitionWithID, 0)

	for _, p := range s.plugins {
		for i, h := range p.HearActions {
			s.hearActionsWithID = append(s.hearActionsWithID, ActionDefinitionWithID{ActionDefinition: h, id: fmt.Sprintf("%s.h[%d]", p.Name, i)})
		}

		for i, sc := range p.SlashCommands {
			s.slashCommandsWithID = append(s.slashCommandsWithID, SlashCommandDefinitionWithID{SlashCommandDefinition: sc, id: fmt.Sprintf("%s.s[%d]", p.Name, i)})
		}
	}
}

// injectServicesToPlugins sets the engine services on plugins that don't
// already have them
func (s *Spotscot) injectServicesToPlugins() {
	for _, p := range s.plugins {
		if p.Logger == nil {
			p.Logger = s.log
		}
	}
}

// startActionScheduler creates jobs for all scheduled actions of all plugins,
// registers them with the scheduler and starts it
func (s *Spotscot) startActionScheduler(timeLoc *time.Location) {
	gocron.ChangeLoc(timeLoc)
	sc := gocron.NewScheduler()

	for _, p := range s.plugins {
		for _, sa := range p.ScheduledActions {
			j, err := schedule.NewJob(sc, sa.Schedule)
			if err != nil {
				s.log.Printf("Error creating scheduled job [%s]: %v", sa, err)
				continue
			}

			s.log.Debugf("Adding job [%v] to scheduler\n", j)
			j.Do(sa.Action)
		}
	}

	_, t := sc.NextRun()
	s.log.Debugf("Starting scheduler with first job scheduled at [%s]\n", t)

	<-sc.Start()
}

// processIncomingMessage handles one inbound message: the channel gate is
// applied first (a message outside the bound channel is silently dropped) and
// the ordered hear actions are then evaluated, the first match owning the
// message
func (s *Spotscot) processIncomingMessage(m *IncomingMessage) {
	ctx := context.Background()
	s.instrumenter.coreMetrics.msgsSeen.Add(ctx, 1)

	if s.isSelfOrBotMessage(m) {
		s.log.Debugf("Ignoring message [%s/%s] from a bot (or ourselves)\n", m.Channel, m.Timestamp)
		return
	}

	if !s.isActiveChannel(m.TeamID, m.Channel) {
		s.instrumenter.coreMetrics.msgsGated.Add(ctx, 1)
		s.log.Debugf("Ignoring message [%s/%s] outside the active channel\n", m.Channel, m.Timestamp)
		return
	}

	d := measure(func() {
		for _, action := range s.hearActionsWithID {
			if action.Match(m) {
				if answer := action.Answer(m); answer != nil {
					if err := s.sendMessageAnswer(m, answer); err != nil {
						s.log.Printf("Unable to send answer of [%s] to message [%s/%s]: %v", action.id, m.Channel, m.Timestamp, err)
					} else {
						s.instrumenter.coreMetrics.msgsAnswered.Add(ctx, 1)
					}
				}

				// First match owns the message, no fallthrough to lower priority actions
				return
			}
		}
	})

	s.instrumenter.coreMetrics.msgProcessingLatencyMillis.Record(ctx, d.Milliseconds())
}

// processSlashCommand handles one slash command invocation. The hosting driver
// has already acknowledged the command by the time this runs; replies go back
// through the command's response URL
func (s *Spotscot) processSlashCommand(c *slack.SlashCommand) {
	ctx := context.Background()
	s.instrumenter.coreMetrics.commandsSeen.Add(ctx, 1)

	def, ok := s.findSlashCommand(c.Command)
	if !ok {
		s.log.Debugf("Ignoring unknown slash command [%s]\n", c.Command)
		return
	}

	if !def.Ungated && !s.isActiveChannel(c.TeamID, c.ChannelID) {
		s.instrumenter.coreMetrics.commandsGated.Add(ctx, 1)

		if err := s.respondToCommand(c, &Answer{Text: notActiveNotice, Options: []AnswerOption{AnswerEphemeral()}}); err != nil {
			s.log.Printf("Unable to send not-active notice for [%s] in [%s]: %v", c.Command, c.ChannelID, err)
		}

		return
	}

	d := measure(func() {
		if answer := def.Answer(c); answer != nil {
			if err := s.respondToCommand(c, answer); err != nil {
				s.log.Printf("Unable to send answer of [%s] invoked in [%s]: %v", def.id, c.ChannelID, err)
			} else {
				s.instrumenter.coreMetrics.commandsAnswered.Add(ctx, 1)
			}
		}
	})

	s.instrumenter.coreMetrics.commandProcessingLatencyMillis.Record(ctx, d.Milliseconds())
}

// findSlashCommand returns the definition registered for a command name
func (s *Spotscot) findSlashCommand(command string) (def SlashCommandDefinitionWithID, ok bool) {
	for _, sc := range s.slashCommandsWithID {
		if sc.Command == command {
			return sc, true
		}
	}

	return SlashCommandDefinitionWithID{}, false
}

// isActiveChannel returns true iff the workspace has a bound channel and it is
// the given one. A resolution error fails closed
func (s *Spotscot) isActiveChannel(teamID string, channelID string) bool {
	activeChannel, err := s.registry.ActiveChannel(teamID)
	if err != nil {
		s.log.Printf("Error resolving active channel for team [%s]: %v", teamID, err)
		return false
	}

	return activeChannel != "" && activeChannel == channelID
}

// isSelfOrBotMessage returns true for messages authored by bots, including our
// own answers echoing back
func (s *Spotscot) isSelfOrBotMessage(m *IncomingMessage) bool {
	if m.BotID != "" || m.SubType == "bot_message" {
		return true
	}

	botUserID, err := s.registry.BotUserID(m.TeamID)
	return err == nil && botUserID != "" && m.User == botUserID
}

// sendMessageAnswer delivers a hear action's answer to the channel the
// triggering message came from, applying the answer's threading options
func (s *Spotscot) sendMessageAnswer(m *IncomingMessage, answer *Answer) (err error) {
	sender, err := s.senderFor(m.TeamID)
	if err != nil {
		return err
	}

	sendOpts := ApplyAnswerOpts(answer.Options...)

	options := []slack.MsgOption{slack.MsgOptionText(answer.Text, false), slack.MsgOptionAsUser(true)}
	if len(answer.ContentBlocks) > 0 {
		options = append(options, slack.MsgOptionBlocks(answer.ContentBlocks...))
	}

	if threadTimestamp, ok := sendOpts[ThreadTimestamp]; ok {
		options = append(options, slack.MsgOptionTS(threadTimestamp))
	} else if threaded, ok := sendOpts[ThreadedReplyOpt]; ok && threaded == "true" {
		options = append(options, slack.MsgOptionTS(m.Timestamp))
	}

	_, _, _, err = sender.SendMessage(m.Channel, options...)
	return err
}

// respondToCommand delivers a slash command answer through the command's
// response URL. Answers are posted in channel unless marked ephemeral
func (s *Spotscot) respondToCommand(c *slack.SlashCommand, answer *Answer) (err error) {
	sendOpts := ApplyAnswerOpts(answer.Options...)

	msg := &slack.WebhookMessage{Text: answer.Text, ResponseType: inChannelResponseType}
	if _, ok := sendOpts[EphemeralOpt]; ok {
		msg.ResponseType = ephemeralResponseType
	}

	if len(answer.ContentBlocks) > 0 {
		msg.Blocks = &slack.Blocks{BlockSet: answer.ContentBlocks}
	}

	return s.postWebhook(c.ResponseURL, msg)
}
