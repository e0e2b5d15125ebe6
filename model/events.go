package model

import "time"

// Event is an inbound platform event. The set of implementations is closed:
// only types in this package satisfy it.
type Event interface {
	isEvent()
}

// PresenceTransition is a voice presence change of one member.
// Empty channel ids mean "not in a channel".
type PresenceTransition struct {
	GuildID           string
	UserID            string
	PreviousChannelID string
	NewChannelID      string
	Roles             []string
	At                time.Time
}

// MessagePosted is a guild message as seen by the link enforcer.
type MessagePosted struct {
	GuildID        string
	ChannelID      string
	MessageID      string
	AuthorID       string
	AuthorIsBot    bool
	AuthorRoles    []string
	Content        string
	AttachmentURLs []string
	EmbedURLs      []string
	At             time.Time
}

// MemberDeparted is emitted when a member leaves or is removed from a guild.
type MemberDeparted struct {
	GuildID string
	UserID  string
}

func (PresenceTransition) isEvent() {}
func (MessagePosted) isEvent()      {}
func (MemberDeparted) isEvent()     {}
