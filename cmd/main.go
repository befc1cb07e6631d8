package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"netsock/cmd/connect"
	"netsock/cmd/listen"
	"netsock/cmd/recv"
	"netsock/cmd/send"
	"netsock/cmd/shared"
	"netsock/cmd/version"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "netsock",
		Usage: "blocking TCP and UDP sockets from the command line",
		Commands: []*cli.Command{
			connect.GetCommand(),
			listen.GetCommand(),
			send.GetCommand(),
			recv.GetCommand(),
			version.GetCommand(),
		},
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shared.SetupSignalHandling(cancel)

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "[!] Error: %s\n", err)
		os.Exit(1)
	}
}
