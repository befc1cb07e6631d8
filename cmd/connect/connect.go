// Package connect implements the connect command, which connects to a
// remote endpoint and pipes stdin and stdout through the connection.
package connect

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"netsock/cmd/shared"
	"netsock/pkg/config"
	"netsock/pkg/entrypoint"
)

// GetCommand returns the CLI command for connect mode.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "connect",
		Usage:       "Connect to a remote host",
		Description: shared.GetBaseDescription(),
		ArgsUsage:   shared.GetArgsUsage(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			proto, host, port, err := shared.ParseArgs(cmd)
			if err != nil {
				return err
			}
			if host == "" {
				return fmt.Errorf("parsing transport: %s: specify a host", cmd.Args().Get(0))
			}

			cfg := shared.NewSharedConfig(cmd, proto, host, port)
			cCfg := &config.Connect{
				Lines: int(cmd.Int(shared.LinesFlag)),
			}

			if err := shared.Validate(cfg, cCfg); err != nil {
				return err
			}

			stop, err := shared.Start(cfg)
			if err != nil {
				return err
			}
			defer stop()

			return entrypoint.Connect(ctx, cfg, cCfg)
		},
		Flags: getFlags(),
	}
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetConnectFlags()...)

	return flags
}
