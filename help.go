package spotscot

import (
	"fmt"
	"strings"
)

const (
	helpPluginName = "help"
)

type helpPlugin struct {
	Plugin

	name    string
	version string
}

// newHelpPlugin creates a help plugin over the full set of registered plugins.
// It answers messages saying exactly "help" with the list of visible hear
// actions, slash commands and scheduled actions
func newHelpPlugin(name string, version string, plugins []*Plugin) *helpPlugin {
	helpPlugin := new(helpPlugin)
	helpPlugin.name = name
	helpPlugin.version = version
	helpPlugin.Plugin = Plugin{Name: helpPluginName, HearActions: []ActionDefinition{{
		Hidden:      false,
		Match:       matchHelp,
		Usage:       "help",
		Description: "Reply with usage instructions",
		Answer: func(m *IncomingMessage) *Answer {
			return helpPlugin.showHelp(plugins)
		},
	}}}

	return helpPlugin
}

func matchHelp(m *IncomingMessage) bool {
	return strings.TrimSpace(m.Text) == "help"
}

func (h *helpPlugin) showHelp(plugins []*Plugin) *Answer {
	var b strings.Builder

	fmt.Fprintf(&b, "🤝 You're `%s` (engine `v%s`) and I listen to the team's needs.\n", h.name, h.version)

	hearActions := make([]string, 0)
	slashCommands := make([]string, 0)
	scheduledActions := make([]string, 0)

	for _, p := range plugins {
		for _, action := range p.HearActions {
			if !action.Hidden {
				hearActions = append(hearActions, fmt.Sprintf("\t• %s\n", action))
			}
		}

		for _, command := range p.SlashCommands {
			slashCommands = append(slashCommands, fmt.Sprintf("\t• %s\n", command))
		}

		for _, scheduled := range p.ScheduledActions {
			if !scheduled.Hidden {
				scheduledActions = append(scheduledActions, fmt.Sprintf("\t• %s\n", scheduled))
			}
		}
	}

	if len(hearActions) > 0 {
		fmt.Fprintf(&b, "I currently listen for the following:\n")
		for _, line := range hearActions {
			b.WriteString(line)
		}
	}

	if len(slashCommands) > 0 {
		fmt.Fprintf(&b, "And I answer these commands:\n")
		for _, line := range slashCommands {
			b.WriteString(line)
		}
	}

	if len(scheduledActions) > 0 {
		fmt.Fprintf(&b, "And I do those things periodically:\n")
		for _, line := range scheduledActions {
			b.WriteString(line)
		}
	}

	return &Answer{Text: strings.TrimSuffix(b.String(), "\n"), Options: []AnswerOption{AnswerInThread()}}
}
