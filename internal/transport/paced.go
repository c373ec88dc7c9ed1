package transport

import "context"

// Waiter blocks until outbound calls may proceed.
type Waiter interface {
	Await(ctx context.Context) error
}

// Paced returns a Transport that waits on w before every call to next.
func Paced(next Transport, w Waiter) Transport {
	return &paced{next: next, w: w}
}

type paced struct {
	next Transport
	w    Waiter
}

func (p *paced) SendMessage(ctx context.Context, channelID string, msg Message) (string, error) {
	if err := p.w.Await(ctx); err != nil {
		return "", err
	}
	return p.next.SendMessage(ctx, channelID, msg)
}

func (p *paced) SendDirectMessage(ctx context.Context, userID string, content string) error {
	if err := p.w.Await(ctx); err != nil {
		return err
	}
	return p.next.SendDirectMessage(ctx, userID, content)
}

func (p *paced) EditMessage(ctx context.Context, channelID, messageID string, msg Message) error {
	if err := p.w.Await(ctx); err != nil {
		return err
	}
	return p.next.EditMessage(ctx, channelID, messageID, msg)
}

func (p *paced) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := p.w.Await(ctx); err != nil {
		return err
	}
	return p.next.DeleteMessage(ctx, channelID, messageID)
}

func (p *paced) MessagesBefore(ctx context.Context, channelID, beforeID string, limit int) ([]string, error) {
	if err := p.w.Await(ctx); err != nil {
		return nil, err
	}
	return p.next.MessagesBefore(ctx, channelID, beforeID, limit)
}

func (p *paced) GetMessage(ctx context.Context, channelID, messageID string) (*PostedMessage, error) {
	if err := p.w.Await(ctx); err != nil {
		return nil, err
	}
	return p.next.GetMessage(ctx, channelID, messageID)
}

func (p *paced) AddReaction(ctx context.Context, channelID, messageID string, emote Emote) error {
	if err := p.w.Await(ctx); err != nil {
		return err
	}
	return p.next.AddReaction(ctx, channelID, messageID, emote)
}

func (p *paced) GuildRoles(ctx context.Context, guildID string) ([]Role, error) {
	if err := p.w.Await(ctx); err != nil {
		return nil, err
	}
	return p.next.GuildRoles(ctx, guildID)
}

func (p *paced) GuildEmotes(ctx context.Context, guildID string) ([]Emote, error) {
	if err := p.w.Await(ctx); err != nil {
		return nil, err
	}
	return p.next.GuildEmotes(ctx, guildID)
}

func (p *paced) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := p.w.Await(ctx); err != nil {
		return err
	}
	return p.next.AddRole(ctx, guildID, userID, roleID)
}

func (p *paced) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := p.w.Await(ctx); err != nil {
		return err
	}
	return p.next.RemoveRole(ctx, guildID, userID, roleID)
}

func (p *paced) Kick(ctx context.Context, guildID, userID, reason string) error {
	if err := p.w.Await(ctx); err != nil {
		return err
	}
	return p.next.Kick(ctx, guildID, userID, reason)
}

func (p *paced) Ban(ctx context.Context, guildID, userID string, purgeDays int, reason string) error {
	if err := p.w.Await(ctx); err != nil {
		return err
	}
	return p.next.Ban(ctx, guildID, userID, purgeDays, reason)
}

func (p *paced) Unban(ctx context.Context, guildID, userID string) error {
	if err := p.w.Await(ctx); err != nil {
		return err
	}
	return p.next.Unban(ctx, guildID, userID)
}
