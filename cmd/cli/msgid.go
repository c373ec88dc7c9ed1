package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/keshon/server-herald/internal/storage"
)

var cmdMsgID = &cli.Command{
	Name:  "msgid",
	Usage: "manage the stored role message ID",
	Subcommands: []*cli.Command{
		{
			Name:   "show",
			Usage:  "print the stored ID",
			Action: runMsgIDShow,
		},
		{
			Name:      "set",
			Usage:     "store an ID",
			ArgsUsage: "<id>",
			Action:    runMsgIDSet,
		},
		{
			Name:   "clear",
			Usage:  "forget the stored ID so the next load posts a new message",
			Action: runMsgIDClear,
		},
	},
}

func messageIDStore(cctx *cli.Context) storage.MessageIDStore {
	return storage.MessageIDStore{Path: paths(cctx).RoleMessage()}
}

func runMsgIDShow(cctx *cli.Context) error {
	id, err := messageIDStore(cctx).Load()
	if err != nil {
		return err
	}
	if id == 0 {
		fmt.Fprintln(cctx.App.Writer, "no message id stored")
		return nil
	}
	fmt.Fprintln(cctx.App.Writer, id)
	return nil
}

func runMsgIDSet(cctx *cli.Context) error {
	if cctx.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one message id")
	}
	id, err := strconv.ParseUint(cctx.Args().First(), 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid message id %q", cctx.Args().First())
	}
	return messageIDStore(cctx).Save(id)
}

func runMsgIDClear(cctx *cli.Context) error {
	return messageIDStore(cctx).Clear()
}
