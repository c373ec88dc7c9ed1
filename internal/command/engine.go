package command

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/keshon/server-herald/internal/storage"
	"github.com/keshon/server-herald/internal/transport"
	"github.com/keshon/server-herald/pkg/cmd"
	"github.com/keshon/server-herald/pkg/util"
)

const (
	notFoundReply = "Command not found. Please use ``%s`` or ``%s help`` to see a list of commands."
	deniedReply   = "Insufficient permissions to execute this command."
)

// Reloader names accepted by SetReloader.
const (
	ReloadRoles = "roles"
	ReloadJoin  = "join"
)

// ReloadFunc re-runs another component's load procedure.
type ReloadFunc func(ctx context.Context) error

type Options struct {
	Trigger   string
	Paths     storage.Paths
	Transport transport.Transport
	Logger    *zap.Logger
	// Intn returns a value in [0,n). Defaults to math/rand.Intn.
	Intn func(n int) int
}

// Engine is safe for concurrent use. Handle reads the active table through an
// atomic pointer; Reload builds a new table and swaps it in whole.
type Engine struct {
	trigger  string
	paths    storage.Paths
	tr       transport.Transport
	log      *zap.Logger
	intn     func(int) int
	builtins []*Command
	table    atomic.Pointer[Table]
	handler  cmd.Handler[*Invocation]

	mu        sync.RWMutex
	reloaders map[string]ReloadFunc
}

// NewEngine returns an engine serving built-ins only. Call Reload to load the
// custom commands file.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		trigger:   opts.Trigger,
		paths:     opts.Paths,
		tr:        opts.Transport,
		log:       opts.Logger,
		intn:      opts.Intn,
		reloaders: make(map[string]ReloadFunc),
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.intn == nil {
		e.intn = rand.Intn
	}
	e.builtins = e.builtinCommands()
	e.table.Store(e.build(nil))
	e.handler = cmd.Apply[*Invocation](e.execute,
		e.withUserErrors,
		e.withAdminGate,
		e.withCommandLog,
	)
	return e
}

// SetReloader binds the routine behind reloadroles (ReloadRoles) or
// reloadjoin (ReloadJoin).
func (e *Engine) SetReloader(name string, fn ReloadFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reloaders[name] = fn
}

func (e *Engine) reloader(name string) ReloadFunc {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reloaders[name]
}

// Table returns the active command table. Callers must not mutate it.
func (e *Engine) Table() *Table { return e.table.Load() }

// Reload reads the custom commands file and atomically replaces the active
// table. A missing file is created empty and leaves only the built-ins.
func (e *Engine) Reload(ctx context.Context) error {
	path := e.paths.Commands()
	lines, err := storage.ReadLines(path, true)
	switch {
	case errors.Is(err, os.ErrNotExist):
		e.log.Warn("Commands file missing, created empty", zap.String("path", path))
	case err != nil:
		reloadsTotal.WithLabelValues("commands", "failed").Inc()
		return err
	}

	customs := ParseCustom(lines, e.trigger, e.log)
	e.table.Store(e.build(customs))

	customCommands.Set(float64(len(customs)))
	reloadsTotal.WithLabelValues("commands", "ok").Inc()
	e.log.Info("Commands loaded",
		zap.Int("builtin", len(e.builtins)),
		zap.Int("custom", len(customs)),
	)
	return nil
}

func (e *Engine) build(customs []*Command) *Table {
	t := newTable()
	for _, c := range e.builtins {
		t.Register(c)
	}
	for _, c := range customs {
		if !t.Register(c) {
			e.log.Warn("Custom command shadowed by an earlier command", zap.String("command", c.Name))
		}
	}
	return t
}

// Handle parses one inbound message. Messages that do not start with the
// trigger are ignored. User-facing errors are answered in the channel and
// reported as nil; any other failure is returned.
func (e *Engine) Handle(ctx context.Context, msg Message) error {
	var tokens []string
	if msg.Content == e.trigger {
		tokens = []string{e.trigger, "help"}
	} else {
		tokens = util.SplitTokens(msg.Content)
		if tokens[0] != e.trigger {
			return nil
		}
	}

	var name string
	if len(tokens) > 1 {
		name = tokens[1]
	}

	c, ok := e.table.Load().Get(name)
	if !ok {
		commandsNotFound.Inc()
		return e.send(ctx, msg.ChannelID, fmt.Sprintf(notFoundReply, e.trigger, e.trigger))
	}
	return e.handler(ctx, &Invocation{Message: msg, Tokens: tokens, Command: c})
}

func (e *Engine) execute(ctx context.Context, inv *Invocation) error {
	c := inv.Command
	if c.Kind == Custom {
		return e.runCustom(ctx, inv)
	}
	if c.Routine == nil {
		return nil
	}
	return c.Routine(ctx, inv)
}

func (e *Engine) send(ctx context.Context, channelID, text string) error {
	_, err := e.tr.SendMessage(ctx, channelID, transport.Message{Content: text})
	return err
}

func (e *Engine) reply(ctx context.Context, inv *Invocation, text string) error {
	return e.send(ctx, inv.ChannelID, text)
}
