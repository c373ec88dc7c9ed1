package command

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/keshon/server-herald/internal/transport"
)

const maxParams = 9

func (e *Engine) runCustom(ctx context.Context, inv *Invocation) error {
	tpl := inv.Command.Template
	if len(inv.Tokens)-2 != tpl.ParamCount {
		return paramErr("incorrect number of parameters")
	}

	embed := &transport.Embed{Description: Substitute(tpl.Text, inv.DisplayName(), inv.Args())}
	if u, ok := e.pickImage(tpl.Images); ok {
		embed.ImageURL = u
	} else if len(tpl.Images) > 0 {
		e.log.Warn("Custom command image omitted", zap.String("command", inv.Command.Name))
	}

	_, err := e.tr.SendMessage(ctx, inv.ChannelID, transport.Message{Embed: embed})
	return err
}

// pickImage draws one URL uniformly from the pool. An invalid pick yields no
// image rather than another draw.
func (e *Engine) pickImage(pool []string) (string, bool) {
	if len(pool) == 0 {
		return "", false
	}
	return NormalizeImageURL(pool[e.intn(len(pool))])
}

// Substitute replaces \0 with name and \1..\n with args in one pass, so
// placeholders appearing inside args are left as typed.
func Substitute(text, name string, args []string) string {
	pairs := []string{`\0`, name}
	for i, a := range args {
		if i >= maxParams {
			break
		}
		pairs = append(pairs, `\`+strconv.Itoa(i+1), a)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// CountParams scans for \1, \2, ... in increasing order and returns the last
// index present before the first gap, capped at 9.
func CountParams(text string) int {
	n := 0
	for i := 1; i <= maxParams; i++ {
		if !strings.Contains(text, `\`+strconv.Itoa(i)) {
			break
		}
		n = i
	}
	return n
}

// CustomSyntax renders the usage string of a custom command.
func CustomSyntax(trigger, name string, params int) string {
	var b strings.Builder
	b.WriteString("``")
	b.WriteString(trigger)
	b.WriteString(" ")
	b.WriteString(name)
	for i := 1; i <= params; i++ {
		b.WriteString(" [name ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("]")
	}
	b.WriteString("``")
	return b.String()
}
