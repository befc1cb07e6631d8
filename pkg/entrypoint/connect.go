package entrypoint

import (
	"context"
	"fmt"

	"netsock/pkg/config"
	"netsock/pkg/format"
	"netsock/pkg/pipeio"
)

// Connect connects to the configured remote endpoint and pipes stdin to the
// connection and the connection to stdout.
func Connect(ctx context.Context, cfg *config.Shared, cCfg *config.Connect) error {
	return connect(ctx, cfg, cCfg, realDial)
}

func connect(ctx context.Context, cfg *config.Shared, cCfg *config.Connect, dial dialFunc) error {
	stack := newStack(cfg)

	conn, err := dial(ctx, stack, cfg)
	if err != nil {
		return fmt.Errorf("connecting: %w", err)
	}

	rwc, err := withTranscript(cfg, conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("opening transcript: %w", err)
	}

	addr := format.Addr(cfg.Host, cfg.Service())
	cfg.Logger.InfoMsg("Connected to %s/%s", addr, cfg.Protocol)

	stdin := config.GetStdinFunc(cfg.Deps)()
	if isInteractive(stdin) {
		cfg.Logger.InfoMsg("Type to send, end input with Ctrl-D")
	}

	stdio := pipeio.NewStdio(pipeio.LimitLines(stdin, cCfg.Lines), config.GetStdoutFunc(cfg.Deps)())
	pipeio.Pipe(ctx, rwc, stdio, func(err error) {
		cfg.Logger.VerboseMsg("Pipe(conn, stdio): %s", err)
	})

	cfg.Logger.VerboseMsg("Connection to %s closed", addr)
	return nil
}
