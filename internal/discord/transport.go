package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/server-herald/internal/transport"
)

// maxHistoryPage is the most messages the platform returns per history request.
const maxHistoryPage = 100

// Transport implements transport.Transport on a discordgo session.
type Transport struct {
	s *discordgo.Session
}

func NewTransport(s *discordgo.Session) *Transport {
	return &Transport{s: s}
}

func (t *Transport) SendMessage(ctx context.Context, channelID string, msg transport.Message) (string, error) {
	send := &discordgo.MessageSend{Content: msg.Content}
	if msg.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{toEmbed(msg.Embed)}
	}
	m, err := t.s.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return "", mapError(err)
	}
	return m.ID, nil
}

func (t *Transport) SendDirectMessage(ctx context.Context, userID string, content string) error {
	ch, err := t.s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return mapError(err)
	}
	_, err = t.s.ChannelMessageSend(ch.ID, content, discordgo.WithContext(ctx))
	return mapError(err)
}

func (t *Transport) EditMessage(ctx context.Context, channelID, messageID string, msg transport.Message) error {
	edit := discordgo.NewMessageEdit(channelID, messageID)
	if msg.Content != "" {
		edit.SetContent(msg.Content)
	}
	if msg.Embed != nil {
		edit.SetEmbeds([]*discordgo.MessageEmbed{toEmbed(msg.Embed)})
	}
	_, err := t.s.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return mapError(err)
}

func (t *Transport) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return mapError(t.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)))
}

// MessagesBefore pages through history, newest first.
func (t *Transport) MessagesBefore(ctx context.Context, channelID, beforeID string, limit int) ([]string, error) {
	var ids []string
	for len(ids) < limit {
		n := min(limit-len(ids), maxHistoryPage)
		msgs, err := t.s.ChannelMessages(channelID, n, beforeID, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return ids, mapError(err)
		}
		for _, m := range msgs {
			ids = append(ids, m.ID)
		}
		if len(msgs) < n {
			break
		}
		beforeID = msgs[len(msgs)-1].ID
	}
	return ids, nil
}

func (t *Transport) GetMessage(ctx context.Context, channelID, messageID string) (*transport.PostedMessage, error) {
	m, err := t.s.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return toPosted(m), nil
}

func (t *Transport) AddReaction(ctx context.Context, channelID, messageID string, emote transport.Emote) error {
	return mapError(t.s.MessageReactionAdd(channelID, messageID, emote.Key(), discordgo.WithContext(ctx)))
}

func (t *Transport) GuildRoles(ctx context.Context, guildID string) ([]transport.Role, error) {
	roles, err := t.s.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]transport.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, transport.Role{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (t *Transport) GuildEmotes(ctx context.Context, guildID string) ([]transport.Emote, error) {
	emojis, err := t.s.GuildEmojis(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]transport.Emote, 0, len(emojis))
	for _, e := range emojis {
		out = append(out, toEmote(e))
	}
	return out, nil
}

func (t *Transport) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return mapError(t.s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)))
}

func (t *Transport) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	return mapError(t.s.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)))
}

func (t *Transport) Kick(ctx context.Context, guildID, userID, reason string) error {
	return mapError(t.s.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)))
}

func (t *Transport) Ban(ctx context.Context, guildID, userID string, purgeDays int, reason string) error {
	return mapError(t.s.GuildBanCreateWithReason(guildID, userID, reason, purgeDays, discordgo.WithContext(ctx)))
}

func (t *Transport) Unban(ctx context.Context, guildID, userID string) error {
	return mapError(t.s.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx)))
}

var _ transport.Transport = (*Transport)(nil)

func toEmbed(e *transport.Embed) *discordgo.MessageEmbed {
	me := &discordgo.MessageEmbed{Title: e.Title, Description: e.Description}
	if e.Footer != "" {
		me.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if e.ImageURL != "" {
		me.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
	}
	return me
}

func toEmote(e *discordgo.Emoji) transport.Emote {
	return transport.Emote{ID: e.ID, Name: e.Name, Animated: e.Animated}
}

func toPosted(m *discordgo.Message) *transport.PostedMessage {
	p := &transport.PostedMessage{ID: m.ID, ChannelID: m.ChannelID}
	for _, r := range m.Reactions {
		if r.Me && r.Emoji != nil {
			p.OwnReactions = append(p.OwnReactions, r.Emoji.APIName())
		}
	}
	return p
}

// unknownCodes are the JSON error codes meaning the target does not exist.
var unknownCodes = map[int]bool{
	discordgo.ErrCodeUnknownMessage: true,
	discordgo.ErrCodeUnknownMember:  true,
	discordgo.ErrCodeUnknownUser:    true,
	discordgo.ErrCodeUnknownBan:     true,
	discordgo.ErrCodeUnknownChannel: true,
}

// mapError turns "unknown X" REST failures into transport.ErrNotFound.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var rerr *discordgo.RESTError
	if !errors.As(err, &rerr) {
		return err
	}
	if rerr.Message != nil && unknownCodes[rerr.Message.Code] {
		return fmt.Errorf("%w: %w", transport.ErrNotFound, err)
	}
	if rerr.Response != nil && rerr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", transport.ErrNotFound, err)
	}
	return err
}
