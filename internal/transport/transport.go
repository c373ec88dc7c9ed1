// Package transport defines the outbound surface the engines call into. The
// Discord adapter implements it; tests use transporttest.Recorder.
package transport

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a message, user or ban does not exist.
var ErrNotFound = errors.New("not found")

// Emote is either a guild custom emote (ID set) or a Unicode emoji (ID empty).
type Emote struct {
	ID       string
	Name     string
	Animated bool
}

// Key is the reaction identifier: "name:id" for custom emotes, the emoji itself otherwise.
func (e Emote) Key() string {
	if e.ID == "" {
		return e.Name
	}
	return e.Name + ":" + e.ID
}

// String is the in-message rendering of the emote.
func (e Emote) String() string {
	if e.ID == "" {
		return e.Name
	}
	if e.Animated {
		return "<a:" + e.Name + ":" + e.ID + ">"
	}
	return "<:" + e.Name + ":" + e.ID + ">"
}

type Role struct {
	ID   string
	Name string
}

type User struct {
	ID          string
	Username    string
	DisplayName string
	Bot         bool
}

// Embed is the subset of a rich message body the engines produce.
type Embed struct {
	Title       string
	Description string
	Footer      string
	ImageURL    string
}

// Message is an outbound message body: plain content, an embed, or both.
type Message struct {
	Content string
	Embed   *Embed
}

// PostedMessage is what the transport reports about an existing message.
type PostedMessage struct {
	ID        string
	ChannelID string
	// OwnReactions are the reactions already placed by the bot itself.
	OwnReactions []string
}

// Transport is every outbound call the engines make.
type Transport interface {
	SendMessage(ctx context.Context, channelID string, msg Message) (string, error)
	SendDirectMessage(ctx context.Context, userID string, content string) error
	EditMessage(ctx context.Context, channelID, messageID string, msg Message) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// MessagesBefore returns up to limit message IDs preceding beforeID, newest first.
	MessagesBefore(ctx context.Context, channelID, beforeID string, limit int) ([]string, error)
	// GetMessage returns ErrNotFound when the message does not exist.
	GetMessage(ctx context.Context, channelID, messageID string) (*PostedMessage, error)
	AddReaction(ctx context.Context, channelID, messageID string, emote Emote) error

	GuildRoles(ctx context.Context, guildID string) ([]Role, error)
	GuildEmotes(ctx context.Context, guildID string) ([]Emote, error)
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error

	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID string, purgeDays int, reason string) error
	Unban(ctx context.Context, guildID, userID string) error
}
