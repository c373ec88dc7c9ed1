package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/keshon/server-herald/internal/storage"
)

var recordFlags = []cli.Flag{
	&cli.StringFlag{Name: "file", Usage: "record file", Required: true},
	&cli.IntFlag{Name: "width", Usage: "payload width in bytes", Value: 8},
}

var cmdRecords = &cli.Command{
	Name:  "records",
	Usage: "inspect a fixed-width record file",
	Subcommands: []*cli.Command{
		{
			Name:   "dump",
			Usage:  "list every slot",
			Flags:  recordFlags,
			Action: runRecordsDump,
		},
		{
			Name:      "add",
			Usage:     "store a hex payload",
			ArgsUsage: "<hex>",
			Flags:     recordFlags,
			Action:    runRecordsAdd,
		},
		{
			Name:      "remove",
			Usage:     "free a slot",
			ArgsUsage: "<index>",
			Flags:     recordFlags,
			Action:    runRecordsRemove,
		},
	},
}

func records(cctx *cli.Context) (*storage.Records, error) {
	width := cctx.Int("width")
	if width < 1 {
		return nil, fmt.Errorf("width must be at least 1")
	}
	return storage.NewRecords(cctx.String("file"), width), nil
}

func runRecordsDump(cctx *cli.Context) error {
	r, err := records(cctx)
	if err != nil {
		return err
	}
	n, err := r.Len()
	if err != nil {
		return err
	}

	w := cctx.App.Writer
	for i := 0; i < n; i++ {
		live, err := r.Live(i)
		if err != nil {
			return err
		}
		payload, err := r.Read(i)
		if err != nil {
			return err
		}
		state := "free"
		if live {
			state = "live"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, state, hex.EncodeToString(payload))
	}
	fmt.Fprintf(w, "%d slots\n", n)
	return nil
}

func runRecordsAdd(cctx *cli.Context) error {
	r, err := records(cctx)
	if err != nil {
		return err
	}
	payload, err := hex.DecodeString(cctx.Args().First())
	if err != nil {
		return fmt.Errorf("payload: %w", err)
	}
	i, err := r.Add(payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(cctx.App.Writer, "stored in slot %d\n", i)
	return nil
}

func runRecordsRemove(cctx *cli.Context) error {
	r, err := records(cctx)
	if err != nil {
		return err
	}
	i, err := strconv.Atoi(cctx.Args().First())
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	return r.Remove(i)
}
