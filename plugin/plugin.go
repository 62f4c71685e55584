// Package plugin provides a fluent API for assembling spotscot plugins
package plugin

import (
	"github.com/alexandre-normand/spotscot"
)

// PluginBuilder holds a plugin to build
type PluginBuilder struct {
	plugin *spotscot.Plugin
}

// New creates a new PluginBuilder with a plugin with the given name and empty set of actions
func New(name string) (pb *PluginBuilder) {
	pb = new(PluginBuilder)
	pb.plugin = new(spotscot.Plugin)
	pb.plugin.Name = name
	pb.plugin.HearActions = make([]spotscot.ActionDefinition, 0)
	pb.plugin.SlashCommands = make([]spotscot.SlashCommandDefinition, 0)
	pb.plugin.ScheduledActions = make([]spotscot.ScheduledActionDefinition, 0)

	return pb
}

// WithHearAction adds a hear action to the plugin. Hear action order matters
// to the engine so add the highest priority actions first
func (pb *PluginBuilder) WithHearAction(hearAction spotscot.ActionDefinition) *PluginBuilder {
	pb.plugin.HearActions = append(pb.plugin.HearActions, hearAction)
	return pb
}

// WithSlashCommand adds a slash command to the plugin
func (pb *PluginBuilder) WithSlashCommand(command spotscot.SlashCommandDefinition) *PluginBuilder {
	pb.plugin.SlashCommands = append(pb.plugin.SlashCommands, command)
	return pb
}

// WithScheduledAction adds a scheduled action to the plugin
func (pb *PluginBuilder) WithScheduledAction(scheduledAction spotscot.ScheduledActionDefinition) *PluginBuilder {
	pb.plugin.ScheduledActions = append(pb.plugin.ScheduledActions, scheduledAction)
	return pb
}

// Build returns the created Plugin instance
func (pb *PluginBuilder) Build() (p *spotscot.Plugin) {
	return pb.plugin
}
