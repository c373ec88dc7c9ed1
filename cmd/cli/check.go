package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/keshon/server-herald/internal/command"
	"github.com/keshon/server-herald/internal/emotes"
	"github.com/keshon/server-herald/internal/join"
	"github.com/keshon/server-herald/internal/logging"
	"github.com/keshon/server-herald/internal/storage"
	"github.com/keshon/server-herald/internal/transport"
)

var cmdCheck = &cli.Command{
	Name:  "check",
	Usage: "validate data files",
	Subcommands: []*cli.Command{
		{
			Name:   "commands",
			Usage:  "parse the custom commands file",
			Action: runCheckCommands,
		},
		{
			Name:   "roles",
			Usage:  "parse the role bindings file",
			Action: runCheckRoles,
		},
		{
			Name:      "emotes",
			Usage:     "look names up in the standard emote table",
			ArgsUsage: "[name...]",
			Action:    runCheckEmotes,
		},
		{
			Name:  "join",
			Usage: "render the join message with sample values",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "user", Value: "123456789", Usage: "user ID to mention"},
				&cli.StringFlag{Name: "emote", Value: "🙂", Usage: "emote drawn for each \\r"},
			},
			Action: runCheckJoin,
		},
	},
}

// warnings logs parse problems to stderr in development format.
func warnings() *zap.Logger {
	log, err := logging.New("warn", true)
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func runCheckCommands(cctx *cli.Context) error {
	lines, err := storage.ReadLines(paths(cctx).Commands(), false)
	if err != nil {
		return err
	}
	cmds := command.ParseCustom(lines, cctx.String("trigger"), warnings())

	w := cctx.App.Writer
	for _, c := range cmds {
		admin := ""
		if c.AdminOnly {
			admin = " (admin only)"
		}
		fmt.Fprintf(w, "%s%s\n\tparams: %d, images: %d\n\tSyntax: %s\n",
			c.Name, admin, c.Template.ParamCount, len(c.Template.Images), c.Syntax)
	}
	fmt.Fprintf(w, "%d custom commands\n", len(cmds))
	return nil
}

func runCheckRoles(cctx *cli.Context) error {
	p := paths(cctx)
	lines, err := storage.ReadLines(p.Roles(), false)
	if err != nil {
		return err
	}
	std, err := emotes.LoadStandard(p.Emotes())
	if err != nil {
		warnings().Warn("Standard emote table unavailable", zap.Error(err))
	}

	w := cctx.App.Writer
	n := 0
	for _, line := range lines {
		if strings.TrimSpace(line.Text) == "" {
			continue
		}
		fields := strings.Split(line.Text, ";")
		if len(fields) != 2 {
			fmt.Fprintf(w, "line %d: invalid binding %q\n", line.No, line.Text)
			continue
		}
		where := "guild emote, resolved at load"
		if e, ok := std.Lookup(fields[1]); ok {
			where = "standard " + e.String()
		}
		fmt.Fprintf(w, "%s: %s (%s)\n", fields[0], fields[1], where)
		n++
	}
	fmt.Fprintf(w, "%d bindings\n", n)
	return nil
}

func runCheckEmotes(cctx *cli.Context) error {
	std, err := emotes.LoadStandard(paths(cctx).Emotes())
	if err != nil {
		return err
	}

	w := cctx.App.Writer
	fmt.Fprintf(w, "%d standard emotes\n", std.Len())
	for _, name := range cctx.Args().Slice() {
		if e, ok := std.Lookup(name); ok {
			fmt.Fprintf(w, "%s: %s\n", name, e.String())
		} else {
			fmt.Fprintf(w, "%s: not found\n", name)
		}
	}
	return nil
}

// sampleEmotes serves one fixed emote for every guild.
type sampleEmotes []transport.Emote

func (s sampleEmotes) GuildEmotes(context.Context, string) ([]transport.Emote, error) {
	return s, nil
}

func runCheckJoin(cctx *cli.Context) error {
	p := paths(cctx)
	tpl, err := storage.ReadText(p.JoinMessage())
	if err != nil {
		return err
	}

	cache, err := emotes.NewCache(sampleEmotes{{Name: cctx.String("emote")}}, 1)
	if err != nil {
		return err
	}
	eng := join.NewEngine(join.Options{
		GuildID: "preview",
		Paths:   p,
		Emotes:  &emotes.Resolver{Cache: cache},
	})
	text, err := eng.Render(cctx.Context, tpl, cctx.String("user"))
	if err != nil {
		return err
	}
	fmt.Fprintln(cctx.App.Writer, text)
	return nil
}
