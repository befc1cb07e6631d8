// Package recv implements the recv command, which prints every UDP datagram
// received together with its sender.
package recv

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"netsock/cmd/shared"
	"netsock/pkg/config"
	"netsock/pkg/entrypoint"
)

// GetCommand returns the CLI command for recv mode.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "recv",
		Usage:       "Print received datagrams",
		Description: "Specify transport like this: udp://:123 (omit the host to bind to all interfaces)",
		ArgsUsage:   shared.GetArgsUsage(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			proto, host, port, err := shared.ParseArgs(cmd)
			if err != nil {
				return err
			}
			if proto != config.ProtoUDP {
				return fmt.Errorf("parsing transport: %s: recv requires udp", cmd.Args().Get(0))
			}

			cfg := shared.NewSharedConfig(cmd, proto, host, port)
			if err := shared.Validate(cfg); err != nil {
				return err
			}

			stop, err := shared.Start(cfg)
			if err != nil {
				return err
			}
			defer stop()

			return entrypoint.Recv(ctx, cfg)
		},
		Flags: shared.GetCommonFlags(),
	}
}
