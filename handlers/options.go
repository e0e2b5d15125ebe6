package handlers

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// options indexes the options of a command or subcommand by name.
type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func newOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	m := make(options, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

// commandPath splits the data of a command into its subcommand name and the
// subcommand's options. Commands without subcommands return "".
func commandPath(data discordgo.ApplicationCommandInteractionData) (string, options) {
	if len(data.Options) == 1 && data.Options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return data.Options[0].Name, newOptions(data.Options[0].Options)
	}
	return "", newOptions(data.Options)
}

func (o options) String(name string) string {
	if opt, ok := o[name]; ok {
		if v, ok := opt.Value.(string); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ID returns the snowflake of a user, channel or role option.
func (o options) ID(name string) string {
	return o.String(name)
}

func (o options) Int(name string, fallback int64) int64 {
	if opt, ok := o[name]; ok {
		if v, ok := opt.Value.(float64); ok {
			return int64(v)
		}
	}
	return fallback
}

func (o options) Float(name string, fallback float64) float64 {
	if opt, ok := o[name]; ok {
		if v, ok := opt.Value.(float64); ok {
			return v
		}
	}
	return fallback
}

func (o options) Has(name string) bool {
	_, ok := o[name]
	return ok
}

func (o options) Focused() (string, string, bool) {
	for name, opt := range o {
		if opt.Focused {
			v, _ := opt.Value.(string)
			return name, v, true
		}
	}
	return "", "", false
}
