// Package listen implements the listen command, which accepts connections
// and prints what they send.
package listen

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"netsock/cmd/shared"
	"netsock/pkg/config"
	"netsock/pkg/entrypoint"
)

// GetCommand returns the CLI command for listen mode.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "listen",
		Usage:       "Listen for connections and print received data",
		Description: shared.GetBaseDescription(),
		ArgsUsage:   shared.GetArgsUsage(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			proto, host, port, err := shared.ParseArgs(cmd)
			if err != nil {
				return err
			}

			cfg := shared.NewSharedConfig(cmd, proto, host, port)
			lCfg := &config.Listen{
				MaxConns: int(cmd.Int(shared.MaxConnsFlag)),
				Wait:     time.Duration(cmd.Int(shared.WaitFlag)) * time.Millisecond,
			}

			if err := shared.Validate(cfg, lCfg); err != nil {
				return err
			}

			stop, err := shared.Start(cfg)
			if err != nil {
				return err
			}
			defer stop()

			return entrypoint.Listen(ctx, cfg, lCfg)
		},
		Flags: getFlags(),
	}
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetListenFlags()...)

	return flags
}
