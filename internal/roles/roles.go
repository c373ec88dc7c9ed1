// Package roles keeps a single role-assignment message in sync with the role
// bindings file and turns reactions on that message into role grants.
package roles

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/keshon/server-herald/internal/emotes"
	"github.com/keshon/server-herald/internal/storage"
	"github.com/keshon/server-herald/internal/transport"
)

// ErrNoBindings is returned by Load when no line of the bindings file resolves.
var ErrNoBindings = errors.New("no valid role bindings")

type State int32

const (
	Unloaded State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Binding pairs a guild role with the emote that toggles it.
type Binding struct {
	Role  transport.Role
	Emote transport.Emote
}

// snapshot is what a successful load publishes. It is never mutated.
type snapshot struct {
	bindings  []Binding
	messageID string
}

type Options struct {
	GuildID   string
	ChannelID string
	Paths     storage.Paths
	Transport transport.Transport
	Emotes    *emotes.Resolver
	Logger    *zap.Logger
	// ReactionInterval spaces out reactions added to the role message.
	// Zero disables pacing.
	ReactionInterval time.Duration
}

// Engine is safe for concurrent use. Loads are serialized; reaction events
// read the last published snapshot and never block on a load in progress.
type Engine struct {
	guildID   string
	channelID string
	paths     storage.Paths
	store     storage.MessageIDStore
	tr        transport.Transport
	emotes    *emotes.Resolver
	log       *zap.Logger
	pace      *rate.Limiter

	loadMu  sync.Mutex
	state   atomic.Int32
	current atomic.Pointer[snapshot]
	selfID  atomic.Pointer[string]
}

func NewEngine(opts Options) *Engine {
	e := &Engine{
		guildID:   opts.GuildID,
		channelID: opts.ChannelID,
		paths:     opts.Paths,
		store:     storage.MessageIDStore{Path: opts.Paths.RoleMessage()},
		tr:        opts.Transport,
		emotes:    opts.Emotes,
		log:       opts.Logger,
		pace:      rate.NewLimiter(rate.Inf, 1),
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if opts.ReactionInterval > 0 {
		e.pace = rate.NewLimiter(rate.Every(opts.ReactionInterval), 1)
	}
	return e
}

// SetSelfID tells the engine which user is the bot, so its own reactions are
// never routed.
func (e *Engine) SetSelfID(id string) { e.selfID.Store(&id) }

func (e *Engine) self() string {
	if p := e.selfID.Load(); p != nil {
		return *p
	}
	return ""
}

func (e *Engine) State() State { return State(e.state.Load()) }

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
	stateGauge.Set(float64(s))
}

// MessageID is the tracked role message, or "" before the first successful load.
func (e *Engine) MessageID() string {
	if s := e.current.Load(); s != nil {
		return s.messageID
	}
	return ""
}

// Bindings returns the active bindings in file order.
func (e *Engine) Bindings() []Binding {
	if s := e.current.Load(); s != nil {
		return append([]Binding(nil), s.bindings...)
	}
	return nil
}

// Load reads the bindings file, reconciles the role message and publishes the
// new bindings. On failure a previously loaded snapshot stays in service;
// without one the engine ends in Failed.
func (e *Engine) Load(ctx context.Context) error {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	e.setState(Loading)
	snap, err := e.load(ctx)
	if err != nil {
		reloadsTotal.WithLabelValues("failed").Inc()
		if e.current.Load() != nil {
			e.setState(Ready)
		} else {
			e.setState(Failed)
		}
		return err
	}

	e.current.Store(snap)
	e.setState(Ready)
	bindingsGauge.Set(float64(len(snap.bindings)))
	reloadsTotal.WithLabelValues("ok").Inc()
	e.log.Info("Roles loaded",
		zap.Int("bindings", len(snap.bindings)),
		zap.String("message", snap.messageID),
	)
	return nil
}

func (e *Engine) load(ctx context.Context) (*snapshot, error) {
	bindings, err := e.resolveBindings(ctx)
	if err != nil {
		return nil, err
	}

	msg := transport.Message{Embed: Render(bindings)}
	messageID, existing, created, err := e.placeMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	if err := e.addReactions(ctx, messageID, bindings, existing); err != nil {
		return nil, err
	}

	if created {
		id, err := strconv.ParseUint(messageID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("role message id %q: %w", messageID, err)
		}
		if err := e.store.Save(id); err != nil {
			return nil, err
		}
	}
	return &snapshot{bindings: bindings, messageID: messageID}, nil
}

// resolveBindings reads roleName;emoteName lines. Entries whose role or emote
// cannot be found are skipped with a warning.
func (e *Engine) resolveBindings(ctx context.Context) ([]Binding, error) {
	path := e.paths.Roles()
	lines, err := storage.ReadLines(path, true)
	if errors.Is(err, os.ErrNotExist) {
		e.log.Warn("Roles file missing, created empty", zap.String("path", path))
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	// Emote names may have changed since the last load.
	e.emotes.Cache.Invalidate(e.guildID)

	roles, err := e.tr.GuildRoles(ctx, e.guildID)
	if err != nil {
		return nil, fmt.Errorf("list guild roles: %w", err)
	}

	var bindings []Binding
	for _, line := range lines {
		if strings.TrimSpace(line.Text) == "" {
			continue
		}
		fields := strings.Split(line.Text, ";")
		if len(fields) != 2 {
			e.log.Warn("Invalid role binding", zap.Int("line", line.No))
			continue
		}

		role, ok := findRole(roles, fields[0])
		if !ok {
			e.log.Warn("Role could not be found", zap.Int("line", line.No), zap.String("role", fields[0]))
			continue
		}
		emote, ok, err := e.emotes.Resolve(ctx, e.guildID, fields[1])
		if err != nil {
			return nil, fmt.Errorf("resolve emote: %w", err)
		}
		if !ok {
			e.log.Warn("Emote could not be found", zap.Int("line", line.No), zap.String("emote", fields[1]))
			continue
		}
		bindings = append(bindings, Binding{Role: role, Emote: emote})
	}

	if len(bindings) == 0 {
		e.log.Warn("No valid role;emote pairs found", zap.String("path", path))
		return nil, ErrNoBindings
	}
	return bindings, nil
}

func findRole(roles []transport.Role, name string) (transport.Role, bool) {
	for _, r := range roles {
		if r.Name == name {
			return r, true
		}
	}
	return transport.Role{}, false
}

// placeMessage edits the stored role message if it still exists, otherwise
// posts a new one. existing lists the reactions the bot already placed.
func (e *Engine) placeMessage(ctx context.Context, msg transport.Message) (id string, existing []string, created bool, err error) {
	stored, err := e.store.Load()
	if err != nil {
		e.log.Warn("Stored role message id unreadable", zap.Error(err))
		stored = 0
	}

	if stored != 0 {
		id = strconv.FormatUint(stored, 10)
		posted, err := e.tr.GetMessage(ctx, e.channelID, id)
		switch {
		case err == nil:
			if err := e.tr.EditMessage(ctx, e.channelID, id, msg); err != nil {
				return "", nil, false, fmt.Errorf("edit role message: %w", err)
			}
			return id, posted.OwnReactions, false, nil
		case errors.Is(err, transport.ErrNotFound):
			e.log.Warn("Stored role message no longer exists, creating a new one", zap.String("message", id))
		default:
			return "", nil, false, fmt.Errorf("get role message: %w", err)
		}
	}

	id, err = e.tr.SendMessage(ctx, e.channelID, msg)
	if err != nil {
		return "", nil, false, fmt.Errorf("send role message: %w", err)
	}
	messagesCreated.Inc()
	return id, nil, true, nil
}

func (e *Engine) addReactions(ctx context.Context, messageID string, bindings []Binding, existing []string) error {
	placed := make(map[string]bool, len(existing)+len(bindings))
	for _, k := range existing {
		placed[k] = true
	}
	for _, b := range bindings {
		key := b.Emote.Key()
		if placed[key] {
			continue
		}
		if err := e.pace.Wait(ctx); err != nil {
			return err
		}
		if err := e.tr.AddReaction(ctx, e.channelID, messageID, b.Emote); err != nil {
			return fmt.Errorf("add reaction %s: %w", key, err)
		}
		placed[key] = true
	}
	return nil
}
