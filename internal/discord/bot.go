package discord

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/keshon/server-herald/internal/command"
	"github.com/keshon/server-herald/internal/config"
	"github.com/keshon/server-herald/internal/emotes"
	"github.com/keshon/server-herald/internal/join"
	"github.com/keshon/server-herald/internal/ratelimit"
	"github.com/keshon/server-herald/internal/roles"
	"github.com/keshon/server-herald/internal/transport"
)

var (
	errRolesNotRunning = errors.New("role handler is not running")
	errJoinNotRunning  = errors.New("join handler is not running")
)

// Bot is a Discord bot
type Bot struct {
	cfg      *config.Config
	log      *zap.Logger
	dg       *discordgo.Session
	limiter  *ratelimit.Limiter
	tr       transport.Transport
	resolver *emotes.Resolver
	commands *command.Engine

	roles  atomic.Pointer[roles.Engine]
	join   atomic.Pointer[join.Engine]
	selfID atomic.Pointer[string]

	// ctx is the lifetime of Run; event handlers use it for outbound calls.
	ctx context.Context
}

// New builds the session and engines. Nothing connects until Run.
func New(cfg *config.Config, log *zap.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	limiter := ratelimit.New(
		ratelimit.WithMargin(cfg.RateLimitMargin),
		ratelimit.WithLogger(log.Named("ratelimit")),
	)
	dg.Client.Transport = ratelimit.NewRoundTripper(dg.Client.Transport, limiter)
	tr := transport.Paced(NewTransport(dg), limiter)

	cache, err := emotes.NewCache(tr, emotes.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	std, err := emotes.LoadStandard(cfg.Paths().Emotes())
	if err != nil {
		log.Warn("Standard emote table unavailable, only guild emotes will resolve", zap.Error(err))
	}

	b := &Bot{
		cfg:      cfg,
		log:      log.Named("discord"),
		dg:       dg,
		limiter:  limiter,
		tr:       tr,
		resolver: &emotes.Resolver{Cache: cache, Standard: std},
		ctx:      context.Background(),
	}
	b.commands = command.NewEngine(command.Options{
		Trigger:   cfg.Trigger,
		Paths:     cfg.Paths(),
		Transport: tr,
		Logger:    log.Named("commands"),
	})
	if cfg.RoleEnabled {
		b.commands.SetReloader(command.ReloadRoles, b.ReloadRoles)
	}
	if cfg.JoinEnabled {
		b.commands.SetReloader(command.ReloadJoin, b.ReloadJoin)
	}

	b.configureIntents()
	dg.AddHandler(b.onReady)
	if cfg.CommandEnabled {
		dg.AddHandler(b.onMessageCreate)
	}
	dg.AddHandler(b.onMessageReactionAdd)
	dg.AddHandler(b.onMessageReactionRemove)
	dg.AddHandler(b.onGuildMemberAdd)
	dg.AddHandler(b.onGuildEmojisUpdate)
	dg.AddHandler(b.onRateLimit)
	return b, nil
}

// configureIntents configures the Discord intents
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsAll
}

// Run connects, starts the enabled engines and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx

	if b.cfg.CommandEnabled {
		if err := b.commands.Reload(ctx); err != nil {
			b.log.Error("Custom commands not loaded", zap.Error(err))
		}
	}

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	if b.cfg.RoleEnabled {
		b.startRoles(ctx)
	}
	if b.cfg.JoinEnabled {
		b.startJoin(ctx)
	}

	b.log.Info("Discord bot is running")
	<-ctx.Done()
	b.log.Info("Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) startRoles(ctx context.Context) {
	guildID, channelID, err := b.resolveChannel(ctx, b.cfg.RoleGuild, b.cfg.RoleChannel)
	if err != nil {
		b.log.Error("Role handler disabled", zap.Error(err))
		return
	}

	eng := roles.NewEngine(roles.Options{
		GuildID:          guildID,
		ChannelID:        channelID,
		Paths:            b.cfg.Paths(),
		Transport:        b.tr,
		Emotes:           b.resolver,
		Logger:           b.log.Named("roles"),
		ReactionInterval: b.cfg.ReactionInterval,
	})
	b.roles.Store(eng)
	if self := b.self(); self != "" {
		eng.SetSelfID(self)
	}
	if err := eng.Load(ctx); err != nil {
		b.log.Error("Role load failed", zap.Error(err))
	}
}

func (b *Bot) startJoin(ctx context.Context) {
	guildID, channelID, err := b.resolveChannel(ctx, b.cfg.JoinGuild, b.cfg.JoinChannel)
	if err != nil {
		b.log.Error("Join handler disabled", zap.Error(err))
		return
	}

	eng := join.NewEngine(join.Options{
		GuildID:   guildID,
		ChannelID: channelID,
		Paths:     b.cfg.Paths(),
		Transport: b.tr,
		Emotes:    b.resolver,
		Logger:    b.log.Named("join"),
	})
	b.join.Store(eng)
	if self := b.self(); self != "" {
		eng.SetSelfID(self)
	}
	if err := eng.Load(ctx); err != nil {
		b.log.Error("Join load failed", zap.Error(err))
	}
}

func (b *Bot) self() string {
	if p := b.selfID.Load(); p != nil {
		return *p
	}
	return ""
}

// ReloadCommands re-reads the custom commands file.
func (b *Bot) ReloadCommands(ctx context.Context) error {
	return b.commands.Reload(ctx)
}

// ReloadRoles re-runs the role load procedure.
func (b *Bot) ReloadRoles(ctx context.Context) error {
	eng := b.roles.Load()
	if eng == nil {
		return errRolesNotRunning
	}
	return eng.Load(ctx)
}

// ReloadJoin re-reads the join message template.
func (b *Bot) ReloadJoin(ctx context.Context) error {
	eng := b.join.Load()
	if eng == nil {
		return errJoinNotRunning
	}
	return eng.Load(ctx)
}
