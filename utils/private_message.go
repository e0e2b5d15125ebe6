package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DirectMessenger is the part of *discordgo.Session used for direct messages.
type DirectMessenger interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// SendPrivateMessage sends a direct message to a user. Users with closed DMs
// make this fail; callers decide whether that matters.
func SendPrivateMessage(s DirectMessenger, userID, message string, options ...discordgo.RequestOption) error {
	channel, err := s.UserChannelCreate(userID, options...)
	if err != nil {
		return fmt.Errorf("creating private channel with user %s: %w", userID, err)
	}
	if _, err := s.ChannelMessageSend(channel.ID, message, options...); err != nil {
		return fmt.Errorf("sending private message to user %s: %w", userID, err)
	}
	return nil
}

// SendPrivateEmbedMessage sends a direct message with an embed to a user.
func SendPrivateEmbedMessage(s DirectMessenger, userID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) error {
	channel, err := s.UserChannelCreate(userID, options...)
	if err != nil {
		return fmt.Errorf("creating private channel with user %s: %w", userID, err)
	}
	if _, err := s.ChannelMessageSendEmbed(channel.ID, embed, options...); err != nil {
		return fmt.Errorf("sending private embed to user %s: %w", userID, err)
	}
	return nil
}
