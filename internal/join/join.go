// Package join greets users joining the guild with a templated message.
//
// The template is the whole content of the join message file. \0 becomes the
// new member's mention and each \r becomes a random custom emote of the guild,
// drawn independently.
package join

import (
	"context"
	"math/rand"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/keshon/server-herald/internal/emotes"
	"github.com/keshon/server-herald/internal/storage"
	"github.com/keshon/server-herald/internal/transport"
	"github.com/keshon/server-herald/pkg/util"
)

const (
	mentionMarker = `\0`
	emoteMarker   = `\r`
)

type Options struct {
	GuildID   string
	ChannelID string
	Paths     storage.Paths
	Transport transport.Transport
	Emotes    *emotes.Resolver
	Logger    *zap.Logger
	// Intn returns a value in [0,n). Defaults to math/rand.Intn.
	Intn func(n int) int
}

type Engine struct {
	guildID   string
	channelID string
	paths     storage.Paths
	tr        transport.Transport
	emotes    *emotes.Resolver
	log       *zap.Logger
	intn      func(int) int

	template atomic.Pointer[string]
	selfID   atomic.Pointer[string]
}

func NewEngine(opts Options) *Engine {
	e := &Engine{
		guildID:   opts.GuildID,
		channelID: opts.ChannelID,
		paths:     opts.Paths,
		tr:        opts.Transport,
		emotes:    opts.Emotes,
		log:       opts.Logger,
		intn:      opts.Intn,
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.intn == nil {
		e.intn = rand.Intn
	}
	return e
}

// Load reads the template. Until a load succeeds the engine sends nothing; a
// failed reload keeps the previous template.
func (e *Engine) Load(ctx context.Context) error {
	text, err := storage.ReadText(e.paths.JoinMessage())
	if err != nil {
		joinLoads.WithLabelValues("failed").Inc()
		if !e.Enabled() {
			e.log.Warn("Join message unavailable, join greetings disabled", zap.Error(err))
		}
		return err
	}
	e.template.Store(&text)
	joinLoads.WithLabelValues("ok").Inc()
	e.log.Info("Join message loaded", zap.Int("length", len(text)))
	return nil
}

func (e *Engine) Enabled() bool { return e.template.Load() != nil }

func (e *Engine) SetSelfID(id string) { e.selfID.Store(&id) }

// OnJoin greets user if they joined the bound guild, are not a bot and are not
// the bot itself.
func (e *Engine) OnJoin(ctx context.Context, guildID string, user transport.User) error {
	tpl := e.template.Load()
	if tpl == nil || guildID != e.guildID || user.Bot {
		return nil
	}
	if self := e.selfID.Load(); self != nil && *self == user.ID {
		return nil
	}

	text, err := e.Render(ctx, *tpl, user.ID)
	if err != nil {
		return err
	}
	if _, err := e.tr.SendMessage(ctx, e.channelID, transport.Message{Content: text}); err != nil {
		joinGreetings.WithLabelValues("failed").Inc()
		return err
	}
	joinGreetings.WithLabelValues("ok").Inc()
	e.log.Info("Join greeting sent", zap.String("user", user.ID))
	return nil
}

// Render substitutes the template for userID. A guild without custom emotes
// renders every \r as nothing.
func (e *Engine) Render(ctx context.Context, tpl, userID string) (string, error) {
	text := strings.ReplaceAll(tpl, mentionMarker, util.Mention(userID))

	var b strings.Builder
	for {
		i := strings.Index(text, emoteMarker)
		if i < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:i])
		emote, ok, err := e.emotes.Random(ctx, e.guildID, e.intn)
		if err != nil {
			return "", err
		}
		if ok {
			b.WriteString(emote.String())
		}
		text = text[i+len(emoteMarker):]
	}
	return b.String(), nil
}
