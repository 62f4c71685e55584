package spotscot

import (
	"github.com/alexandre-normand/spotscot/config"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// Inbound message subtypes processed by hear actions. Everything else (edits,
// deletions, joins) is dropped at the driver
const (
	subtypeNone      = ""
	subtypeFileShare = "file_share"
)

// runSocketMode connects to slack over socket mode and pumps events into the
// engine. Each event is acknowledged before being dispatched so slow handlers
// never cause slack to redeliver
func (s *Spotscot) runSocketMode() (err error) {
	client := slack.New(
		s.config.GetString(config.BotTokenKey),
		slack.OptionDebug(s.config.GetBool(config.DebugKey)),
		slack.OptionAppLevelToken(s.config.GetString(config.AppTokenKey)),
	)

	socketClient := socketmode.New(client, socketmode.OptionDebug(s.config.GetBool(config.DebugKey)))

	go func() {
		for evt := range socketClient.Events {
			switch evt.Type {
			case socketmode.EventTypeConnecting:
				s.log.Printf("Connecting to slack over socket mode...")
			case socketmode.EventTypeConnected:
				s.log.Printf("Connected to slack over socket mode")
			case socketmode.EventTypeConnectionError:
				s.log.Printf("Socket mode connection error: %v", evt.Data)
			case socketmode.EventTypeEventsAPI:
				event, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}

				socketClient.Ack(*evt.Request)
				go s.dispatchEventsAPIEvent(event)
			case socketmode.EventTypeSlashCommand:
				cmd, ok := evt.Data.(slack.SlashCommand)
				if !ok {
					continue
				}

				socketClient.Ack(*evt.Request)
				go s.processSlashCommand(&cmd)
			}
		}
	}()

	return socketClient.Run()
}

// dispatchEventsAPIEvent routes one events api callback, shared by both the
// socket mode and http drivers
func (s *Spotscot) dispatchEventsAPIEvent(event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}

	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		if ev.SubType != subtypeNone && ev.SubType != subtypeFileShare {
			return
		}

		s.processIncomingMessage(newIncomingMessage(event.TeamID, ev))
	case *slackevents.TokensRevokedEvent:
		s.forgetWorkspace(event.TeamID, "tokens revoked")
	case *slackevents.AppUninstalledEvent:
		s.forgetWorkspace(event.TeamID, "app uninstalled")
	}
}

// forgetWorkspace drops all tenant state for a workspace that revoked us
func (s *Spotscot) forgetWorkspace(teamID string, reason string) {
	s.log.Printf("Forgetting workspace [%s] (%s)", teamID, reason)

	if err := s.registry.Forget(teamID); err != nil {
		s.log.Printf("Error forgetting workspace [%s]: %v", teamID, err)
	}
}

// newIncomingMessage converts an events api message into the engine's
// representation, carrying over the file attachments spot logging inspects
func newIncomingMessage(teamID string, ev *slackevents.MessageEvent) (m *IncomingMessage) {
	m = &IncomingMessage{TeamID: teamID}
	m.Type = ev.Type
	m.SubType = ev.SubType
	m.Channel = ev.Channel
	m.User = ev.User
	m.BotID = ev.BotID
	m.Text = ev.Text
	m.Timestamp = ev.TimeStamp
	m.ThreadTimestamp = ev.ThreadTimeStamp

	for _, f := range ev.Files {
		m.Files = append(m.Files, slack.File{
			ID:         f.ID,
			Name:       f.Name,
			Mimetype:   f.Mimetype,
			URLPrivate: f.URLPrivate,
			Permalink:  f.Permalink,
		})
	}

	return m
}
