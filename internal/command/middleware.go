package command

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/keshon/server-herald/pkg/cmd"
)

// withUserErrors answers parameter, syntax and command errors in the channel.
// Other errors pass through untouched.
func (e *Engine) withUserErrors(next cmd.Handler[*Invocation]) cmd.Handler[*Invocation] {
	return func(ctx context.Context, inv *Invocation) error {
		err := next(ctx, inv)
		var uerr *Error
		if !errors.As(err, &uerr) {
			return err
		}
		return e.reply(ctx, inv, uerr.Reply(inv.Command.Syntax))
	}
}

// withAdminGate stops admin-only commands before they run for invokers
// without elevated permission.
func (e *Engine) withAdminGate(next cmd.Handler[*Invocation]) cmd.Handler[*Invocation] {
	return func(ctx context.Context, inv *Invocation) error {
		if inv.Command.AdminOnly && !inv.Elevated {
			commandsDenied.WithLabelValues(inv.Command.Name).Inc()
			e.log.Info("Command denied",
				zap.String("command", inv.Command.Name),
				zap.String("user", inv.Author.ID),
				zap.String("channel", inv.ChannelID),
			)
			return e.reply(ctx, inv, deniedReply)
		}
		return next(ctx, inv)
	}
}

// withCommandLog records every executed command.
func (e *Engine) withCommandLog(next cmd.Handler[*Invocation]) cmd.Handler[*Invocation] {
	return func(ctx context.Context, inv *Invocation) error {
		start := time.Now()
		err := next(ctx, inv)

		outcome := "ok"
		var uerr *Error
		switch {
		case errors.As(err, &uerr):
			outcome = uerr.Kind.String() + "_error"
		case err != nil:
			outcome = "failed"
		}
		commandsTotal.WithLabelValues(inv.Command.Kind.String(), outcome).Inc()

		fields := []zap.Field{
			zap.String("command", inv.Command.Name),
			zap.String("user", inv.Author.ID),
			zap.String("guild", inv.GuildID),
			zap.String("channel", inv.ChannelID),
			zap.String("outcome", outcome),
			zap.Duration("took", time.Since(start)),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		e.log.Info("Command executed", fields...)
		return err
	}
}
