package command

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// MaxMessageLength is the platform's limit on message content, in characters.
const MaxMessageLength = 2000

func (e *Engine) help(ctx context.Context, inv *Invocation) error {
	entries := []string{"Available commands:\n"}
	for _, c := range e.table.Load().All() {
		var b strings.Builder
		b.WriteString(c.Name)
		b.WriteString("\n\t")
		b.WriteString(c.Description)
		if c.AdminOnly && inv.Elevated {
			b.WriteString(" (admin only)")
		}
		b.WriteString("\n\tSyntax: ")
		b.WriteString(c.Syntax)
		b.WriteString("\n")
		entries = append(entries, b.String())
	}

	for _, part := range chunk(entries, MaxMessageLength) {
		if err := e.tr.SendDirectMessage(ctx, inv.Author.ID, part); err != nil {
			e.log.Warn("Help DM failed", zap.String("user", inv.Author.ID), zap.Error(err))
			return e.reply(ctx, inv, "User is invalid. Could not send DM.")
		}
	}
	return e.reply(ctx, inv, "DM sent.")
}

// chunk packs entries into messages of at most max characters without splitting
// an entry, unless the entry alone is longer than max.
func chunk(entries []string, max int) []string {
	var (
		out []string
		cur strings.Builder
		n   int
	)
	flush := func() {
		if n > 0 {
			out = append(out, cur.String())
			cur.Reset()
			n = 0
		}
	}

	for _, entry := range entries {
		size := utf8.RuneCountInString(entry)
		if n+size > max {
			flush()
		}
		for size > max {
			head, tail := splitRunes(entry, max)
			out = append(out, head)
			entry, size = tail, size-max
		}
		cur.WriteString(entry)
		n += size
	}
	flush()
	return out
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
