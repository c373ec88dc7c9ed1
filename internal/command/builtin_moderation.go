package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/keshon/server-herald/internal/transport"
	"github.com/keshon/server-herald/pkg/util"
)

const (
	maxDeleteCount = 1000
	maxBanDays     = 7
	moderationNote = "Bot command"
)

func (e *Engine) deleteMessages(ctx context.Context, inv *Invocation) error {
	n := 1
	if len(inv.Tokens) >= 3 {
		v, err := strconv.Atoi(inv.Tokens[2])
		if err != nil || v < 0 || v > maxDeleteCount {
			return commandErr("invalid number of messages")
		}
		n = v
	}

	deleted := 0
	if n > 0 {
		ids, err := e.tr.MessagesBefore(ctx, inv.ChannelID, inv.ID, n)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := e.tr.DeleteMessage(ctx, inv.ChannelID, id); err != nil {
				if errors.Is(err, transport.ErrNotFound) {
					continue
				}
				return err
			}
			deleted++
		}
	}
	return e.reply(ctx, inv, fmt.Sprintf("%d message(s) deleted.", deleted))
}

// target resolves the mention token that follows the command name.
func target(inv *Invocation) (string, error) {
	if len(inv.Tokens) < 3 {
		return "", paramErr("insufficient parameters")
	}
	id := util.MentionID(inv.Tokens[2])
	if id == 0 {
		return "", commandErr("invalid user")
	}
	return strconv.FormatUint(id, 10), nil
}

func (e *Engine) kick(ctx context.Context, inv *Invocation) error {
	userID, err := target(inv)
	if err != nil {
		return err
	}
	if err := e.tr.Kick(ctx, inv.GuildID, userID, moderationNote); err != nil {
		if errors.Is(err, transport.ErrNotFound) {
			return commandErr("invalid user")
		}
		return err
	}
	return e.reply(ctx, inv, "User kicked.")
}

func (e *Engine) ban(ctx context.Context, inv *Invocation) error {
	userID, err := target(inv)
	if err != nil {
		return err
	}

	days := 0
	purge := len(inv.Tokens) >= 4
	if purge {
		days, err = strconv.Atoi(inv.Tokens[3])
		if err != nil || days < 0 || days > maxBanDays {
			return commandErr("invalid number of days")
		}
	}

	if err := e.tr.Ban(ctx, inv.GuildID, userID, days, moderationNote); err != nil {
		if errors.Is(err, transport.ErrNotFound) {
			return commandErr("invalid user")
		}
		return err
	}
	if purge {
		return e.reply(ctx, inv, fmt.Sprintf("User banned, deleted %d days of their message history.", days))
	}
	return e.reply(ctx, inv, "User banned.")
}

func (e *Engine) unban(ctx context.Context, inv *Invocation) error {
	userID, err := target(inv)
	if err != nil {
		return err
	}
	if err := e.tr.Unban(ctx, inv.GuildID, userID); err != nil {
		if errors.Is(err, transport.ErrNotFound) {
			return commandErr("user is not banned")
		}
		return err
	}
	return e.reply(ctx, inv, "User unbanned.")
}
