// herald-cli inspects and repairs the bot's data directory offline.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"

	"github.com/keshon/server-herald/internal/storage"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "herald-cli",
		Usage: "inspect the bot's data files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Usage:   "data directory",
				Value:   "data",
				EnvVars: []string{"DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "trigger",
				Usage:   "command trigger word",
				Value:   "!bot",
				EnvVars: []string{"BOT_TRIGGER"},
			},
		},
		Commands: []*cli.Command{
			cmdCheck,
			cmdMsgID,
			cmdRecords,
		},
	}
}

func paths(cctx *cli.Context) storage.Paths {
	return storage.Paths{Dir: cctx.String("data")}
}
