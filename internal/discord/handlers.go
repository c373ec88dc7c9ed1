package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/keshon/server-herald/internal/command"
	"github.com/keshon/server-herald/internal/roles"
	"github.com/keshon/server-herald/internal/transport"
)

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	id := r.User.ID
	b.selfID.Store(&id)
	if eng := b.roles.Load(); eng != nil {
		eng.SetSelfID(id)
	}
	if eng := b.join.Load(); eng != nil {
		eng.SetSelfID(id)
	}
	b.log.Info("Connected", zap.String("user", r.User.Username), zap.Int("guilds", len(r.Guilds)))
}

// onMessageCreate is called when a message is created
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" || m.Author.ID == b.self() {
		return
	}
	if !strings.HasPrefix(m.Content, b.cfg.Trigger) {
		return
	}

	var roleIDs []string
	if m.Member != nil {
		roleIDs = m.Member.Roles
	}
	msg := command.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Author:    toUser(m.Author, m.Member),
		Content:   m.Content,
		Elevated:  IsAdministrator(s, b.cfg, m.GuildID, m.Author.ID, roleIDs),
	}
	if err := b.commands.Handle(b.ctx, msg); err != nil {
		b.log.Error("Message handling failed",
			zap.String("message", m.ID),
			zap.String("channel", m.ChannelID),
			zap.Error(err),
		)
	}
}

// onMessageReactionAdd is called when a reaction is added
func (b *Bot) onMessageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	eng := b.roles.Load()
	if eng == nil || r.MessageReaction == nil {
		return
	}
	if err := eng.OnReactionAdd(b.ctx, toReaction(r.MessageReaction)); err != nil {
		b.log.Error("Role grant failed", zap.String("user", r.UserID), zap.Error(err))
	}
}

// onMessageReactionRemove is called when a reaction is removed
func (b *Bot) onMessageReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	eng := b.roles.Load()
	if eng == nil || r.MessageReaction == nil {
		return
	}
	if err := eng.OnReactionRemove(b.ctx, toReaction(r.MessageReaction)); err != nil {
		b.log.Error("Role revoke failed", zap.String("user", r.UserID), zap.Error(err))
	}
}

// onGuildMemberAdd is called when a user joins a guild
func (b *Bot) onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	eng := b.join.Load()
	if eng == nil || m.Member == nil || m.User == nil {
		return
	}
	if err := eng.OnJoin(b.ctx, m.GuildID, toUser(m.User, m.Member)); err != nil {
		b.log.Error("Join greeting failed", zap.String("user", m.User.ID), zap.Error(err))
	}
}

// onGuildEmojisUpdate drops the cached emote set of the guild
func (b *Bot) onGuildEmojisUpdate(s *discordgo.Session, e *discordgo.GuildEmojisUpdate) {
	b.resolver.Cache.Invalidate(e.GuildID)
	b.log.Debug("Guild emotes changed", zap.String("guild", e.GuildID))
}

// onRateLimit records a 429 the session handled internally
func (b *Bot) onRateLimit(s *discordgo.Session, r *discordgo.RateLimit) {
	if r.TooManyRequests == nil {
		return
	}
	b.limiter.Exhausted(r.Bucket, r.RetryAfter)
}

func toUser(u *discordgo.User, m *discordgo.Member) transport.User {
	name := u.GlobalName
	if m != nil && m.Nick != "" {
		name = m.Nick
	}
	return transport.User{ID: u.ID, Username: u.Username, DisplayName: name, Bot: u.Bot}
}

func toReaction(r *discordgo.MessageReaction) roles.Reaction {
	return roles.Reaction{
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emote:     toEmote(&r.Emoji),
	}
}
