package entrypoint

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/muesli/cancelreader"

	"netsock/pkg/config"
	"netsock/pkg/format"
	"netsock/pkg/log"
	"netsock/pkg/pipeio"
	"netsock/pkg/transport/udp"
)

// Send sends every line read from stdin as one datagram, without the line
// break, to the configured remote endpoint. Cancelling ctx interrupts a
// pending read from stdin.
func Send(ctx context.Context, cfg *config.Shared) error {
	stack := newStack(cfg)

	sender, err := udp.NewSender(ctx, stack, cfg.Host, cfg.Service(), cfg.Family())
	if err != nil {
		return fmt.Errorf("creating sender: %w", err)
	}
	defer sender.Close()

	stdin := config.GetStdinFunc(cfg.Deps)()
	if isInteractive(stdin) {
		cfg.Logger.InfoMsg("Each line is sent as one datagram, end input with Ctrl-D")
	}

	in := pipeio.NewStdio(stdin, io.Discard)
	defer in.Close()
	stop := context.AfterFunc(ctx, func() { in.Close() })
	defer stop()

	sent := 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), udp.MaxDatagram)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		if _, err := sender.Send(ctx, scanner.Bytes()); err != nil {
			return fmt.Errorf("sending: %w", err)
		}
		sent++
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, cancelreader.ErrCanceled) {
		return fmt.Errorf("reading stdin: %w", err)
	}

	cfg.Logger.VerboseMsg("Sent %d datagrams to %s", sent, format.Addr(cfg.Host, cfg.Service()))
	return nil
}

// Recv prints every datagram received on the configured local endpoint as
// "host:port: payload".
func Recv(ctx context.Context, cfg *config.Shared) error {
	stack := newStack(cfg)
	stdout := config.GetStdoutFunc(cfg.Deps)()

	var transcript io.Writer = io.Discard
	if cfg.Transcript != "" {
		f, err := log.OpenTranscript(cfg.Transcript)
		if err != nil {
			return fmt.Errorf("opening transcript: %w", err)
		}
		defer f.Close()
		transcript = f
	}

	err := udp.Serve(ctx, stack, cfg.Endpoint(), func(payload []byte, host, service string) error {
		if _, err := transcript.Write(payload); err != nil {
			cfg.Logger.ErrorMsg("Writing transcript: %s", err)
		}
		_, err := fmt.Fprintln(stdout, format.Peer(host, service, payload))
		return err
	})
	if err != nil {
		return fmt.Errorf("receiving: %w", err)
	}
	return nil
}
