// Package send implements the send command, which sends each line of stdin
// as one UDP datagram.
package send

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"netsock/cmd/shared"
	"netsock/pkg/config"
	"netsock/pkg/entrypoint"
)

// GetCommand returns the CLI command for send mode.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "send",
		Usage:       "Send stdin line by line as datagrams",
		Description: "Specify transport like this: udp://127.0.0.1:123",
		ArgsUsage:   shared.GetArgsUsage(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			proto, host, port, err := shared.ParseArgs(cmd)
			if err != nil {
				return err
			}
			if proto != config.ProtoUDP {
				return fmt.Errorf("parsing transport: %s: send requires udp", cmd.Args().Get(0))
			}
			if host == "" {
				return fmt.Errorf("parsing transport: %s: specify a host", cmd.Args().Get(0))
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

			return entrypoint.Send(ctx, cfg)
		},
		Flags: shared.GetCommonFlags(),
	}
}
