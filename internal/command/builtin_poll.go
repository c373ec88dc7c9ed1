package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/keshon/server-herald/internal/transport"
	"github.com/keshon/server-herald/pkg/util"
)

const (
	pollMaxOptions = 25
	pollFooter     = "React with the corresponding emote to vote."
)

func (e *Engine) poll(ctx context.Context, inv *Invocation) error {
	if len(inv.Tokens) < 4 {
		return paramErr("insufficient parameters")
	}

	quoted, err := util.QuotedStrings(inv.Content)
	if errors.Is(err, util.ErrOpenQuote) {
		return syntaxErr("open quotation")
	}
	switch len(quoted) {
	case 0:
		return syntaxErr("no quotation strings found")
	case 1:
		return syntaxErr("only title quotation string found")
	}

	options := quoted[1:]
	if len(options) > pollMaxOptions {
		options = options[:pollMaxOptions]
	}

	embed := &transport.Embed{Title: quoted[0], Footer: pollFooter}
	var desc strings.Builder
	for i, opt := range options {
		fmt.Fprintf(&desc, "%s **%s**\n", util.OrdinalLetter(i), opt)
	}
	embed.Description = desc.String()

	last := inv.Tokens[len(inv.Tokens)-1]
	if u, ok := NormalizeImageURL(last); ok {
		embed.ImageURL = u
	} else {
		e.log.Debug("Poll image omitted", zap.String("token", last))
	}

	pollID, err := e.tr.SendMessage(ctx, inv.ChannelID, transport.Message{Embed: embed})
	if err != nil {
		return err
	}
	for i := range options {
		letter := transport.Emote{Name: util.OrdinalLetter(i)}
		if err := e.tr.AddReaction(ctx, inv.ChannelID, pollID, letter); err != nil {
			return err
		}
	}
	return e.tr.DeleteMessage(ctx, inv.ChannelID, inv.ID)
}
