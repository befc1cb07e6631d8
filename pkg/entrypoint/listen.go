package entrypoint

import (
	"context"
	"fmt"
	"io"

	"netsock/pkg/config"
	"netsock/pkg/transport"
	"netsock/pkg/transport/tcp"
)

// Listen accepts stream connections on the configured local endpoint and
// copies what each connection sends to stdout. UDP listeners print
// datagrams as Recv does.
func Listen(ctx context.Context, cfg *config.Shared, lCfg *config.Listen) error {
	if cfg.Protocol == config.ProtoUDP {
		return Recv(ctx, cfg)
	}

	stack := newStack(cfg)
	stdout := &lockedWriter{w: config.GetStdoutFunc(cfg.Deps)()}

	opts := tcp.Options{MaxConns: lCfg.MaxConns, Wait: lCfg.Wait, Timeout: cfg.Timeout}
	err := tcp.ListenAndServe(ctx, stack, cfg.Endpoint(), opts, func(conn *transport.Conn) error {
		return serveConn(cfg, conn, stdout)
	})
	if err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

func serveConn(cfg *config.Shared, conn *transport.Conn, stdout io.Writer) error {
	rwc, err := withTranscript(cfg, conn)
	if err != nil {
		return fmt.Errorf("opening transcript: %w", err)
	}
	defer rwc.Close()

	n, err := io.Copy(stdout, rwc)
	cfg.Logger.VerboseMsg("Connection (socket: %s) closed after %dB", conn.Handle(), n)
	return err
}
