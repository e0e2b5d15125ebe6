package bot

import (
	"context"
	"fmt"

	"roster-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// Gateway performs platform side effects on behalf of the engines. Every call
// carries the caller's context so shutdown cancels in-flight requests.
type Gateway struct {
	session *discordgo.Session
}

func NewGateway(s *discordgo.Session) *Gateway {
	return &Gateway{session: s}
}

func (g *Gateway) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return g.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (g *Gateway) SendDirectMessage(ctx context.Context, userID, text string) error {
	return utils.SendPrivateMessage(g.session, userID, text, discordgo.WithContext(ctx))
}

func (g *Gateway) BanUser(ctx context.Context, guildID, userID, reason string) error {
	return g.session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx))
}

func (g *Gateway) SendToChannel(ctx context.Context, channelID, content string) error {
	_, err := g.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	return err
}

// ChannelMessageSendEmbed lets the gateway serve as the log channel sender.
func (g *Gateway) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return g.session.ChannelMessageSendEmbed(channelID, embed, options...)
}

// MemberRoles prefers the state cache and falls back to the REST API.
func (g *Gateway) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	if g.session.StateEnabled {
		if m, err := g.session.State.Member(guildID, userID); err == nil {
			return m.Roles, nil
		}
	}
	m, err := g.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member %s: %w", userID, err)
	}
	return m.Roles, nil
}

// VoiceChannels returns user id -> voice channel id for everyone currently
// connected in the guild, as tracked by the state cache.
func (g *Gateway) VoiceChannels(_ context.Context, guildID string) (map[string]string, error) {
	guild, err := g.session.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("guild %s not in state cache: %w", guildID, err)
	}
	g.session.State.RLock()
	defer g.session.State.RUnlock()
	out := make(map[string]string, len(guild.VoiceStates))
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != "" {
			out[vs.UserID] = vs.ChannelID
		}
	}
	return out, nil
}

func (g *Gateway) CreateTextChannel(ctx context.Context, guildID, parentID, name string) (string, error) {
	ch, err := g.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: parentID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to create channel %s: %w", name, err)
	}
	return ch.ID, nil
}
