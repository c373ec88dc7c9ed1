package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/keshon/server-herald/pkg/retrylimit"
)

// errNotReady means guild state has not arrived from the gateway yet.
var errNotReady = errors.New("not in state yet")

// findGuild matches ref against guild IDs first, then names.
func findGuild(guilds []*discordgo.Guild, ref string) *discordgo.Guild {
	for _, g := range guilds {
		if g.ID == ref {
			return g
		}
	}
	for _, g := range guilds {
		if g.Name == ref {
			return g
		}
	}
	return nil
}

// findTextChannel matches ref against text channel IDs first, then names.
func findTextChannel(g *discordgo.Guild, ref string) *discordgo.Channel {
	for _, c := range g.Channels {
		if c.ID == ref && c.Type == discordgo.ChannelTypeGuildText {
			return c
		}
	}
	for _, c := range g.Channels {
		if c.Name == ref && c.Type == discordgo.ChannelTypeGuildText {
			return c
		}
	}
	return nil
}

// resolveChannel waits for a guild and one of its text channels to appear in
// state, retrying per the startup policy.
func (b *Bot) resolveChannel(ctx context.Context, guildRef, channelRef string) (guildID, channelID string, err error) {
	policy := retrylimit.Policy{
		Attempts:  b.cfg.StartupAttempts,
		Delay:     b.cfg.StartupDelay,
		Retryable: func(err error) bool { return errors.Is(err, errNotReady) },
		OnRetry: func(attempt int, err error) {
			b.log.Info("Waiting for guild state", zap.Int("attempt", attempt), zap.Error(err))
		},
	}

	err = retrylimit.Do(ctx, policy, func(context.Context) error {
		b.dg.State.RLock()
		defer b.dg.State.RUnlock()

		g := findGuild(b.dg.State.Guilds, guildRef)
		if g == nil {
			return fmt.Errorf("guild %q: %w", guildRef, errNotReady)
		}
		c := findTextChannel(g, channelRef)
		if c == nil {
			return fmt.Errorf("channel %q in guild %q: %w", channelRef, g.Name, errNotReady)
		}
		guildID, channelID = g.ID, c.ID
		return nil
	})
	return guildID, channelID, err
}
