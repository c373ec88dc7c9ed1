package command

import (
	"context"

	"go.uber.org/zap"
)

func (e *Engine) reloadCommands(ctx context.Context, inv *Invocation) error {
	if err := e.Reload(ctx); err != nil {
		e.log.Error("Command reload failed", zap.Error(err))
		return e.reply(ctx, inv, "Command reload failed. See console output for details.")
	}
	return e.reply(ctx, inv, "Command reload succeeded.")
}

// reloadComponent builds the routine that reloads the component registered
// under name; label names it in replies.
func (e *Engine) reloadComponent(name, label string) Routine {
	return func(ctx context.Context, inv *Invocation) error {
		fn := e.reloader(name)
		if fn == nil {
			return e.reply(ctx, inv, label+" handler is not enabled.")
		}
		if err := fn(ctx); err != nil {
			reloadsTotal.WithLabelValues(name, "failed").Inc()
			e.log.Error("Reload failed", zap.String("component", name), zap.Error(err))
			return e.reply(ctx, inv, label+" reload failed. See console output for details.")
		}
		reloadsTotal.WithLabelValues(name, "ok").Inc()
		return e.reply(ctx, inv, label+" reload succeeded.")
	}
}
