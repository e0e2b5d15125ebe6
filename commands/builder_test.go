package commands

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func names(cmds []*discordgo.ApplicationCommand) []string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Name)
	}
	return out
}

func TestGenerateCommands(t *testing.T) {
	assert.Equal(t, []string{"agent", "absence", "service", "whitelist", "config", "systeme"}, names(GenerateCommands()))
	assert.Equal(t, []string{"ajouter", "retirer", "liste", "avis", "stats"}, names(GenerateRelayCommands()))
}

// Discord rejects the whole bulk overwrite when one command breaks these rules.
func TestCommandShape(t *testing.T) {
	var check func(t *testing.T, path string, opts []*discordgo.ApplicationCommandOption)
	check = func(t *testing.T, path string, opts []*discordgo.ApplicationCommandOption) {
		assert.LessOrEqual(t, len(opts), 25, path)
		seenOptional := false
		seen := map[string]bool{}
		for _, o := range opts {
			p := path + " " + o.Name
			assert.False(t, seen[o.Name], "duplicate option %s", p)
			seen[o.Name] = true
			assert.LessOrEqual(t, len(o.Name), 32, p)
			assert.NotEmpty(t, o.Description, p)
			assert.LessOrEqual(t, len([]rune(o.Description)), 100, p)
			if o.Type == discordgo.ApplicationCommandOptionSubCommand {
				check(t, p, o.Options)
				continue
			}
			if !o.Required {
				seenOptional = true
			} else {
				assert.False(t, seenOptional, "required option after optional one: %s", p)
			}
		}
	}

	for _, c := range append(GenerateCommands(), GenerateRelayCommands()...) {
		assert.NotEmpty(t, c.Description, c.Name)
		assert.LessOrEqual(t, len([]rune(c.Description)), 100, c.Name)
		check(t, c.Name, c.Options)
	}
}
