package plain

import (
	"context"
	"errors"
	"testing"
	"time"

	"netsock/pkg/config"
	"netsock/pkg/entrypoint"
	"netsock/pkg/socket"
	"netsock/test/helpers"
)

// connectUntilUp retries connect until the listener is up.
func connectUntilUp(ctx context.Context, client *helpers.Side, cCfg *config.Connect) error {
	deadline := time.Now().Add(3 * time.Second)
	for {
		err := entrypoint.Connect(ctx, client.Cfg, cCfg)
		if !errors.Is(err, socket.ErrConnect) || time.Now().After(deadline) {
			return err
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// TestEndToEndDataExchange mimics
//   - "netsock listen tcp://127.0.0.1:PORT"
//   - "netsock connect tcp://127.0.0.1:PORT"
//
// and checks that everything typed into connect shows up at listen.
func TestEndToEndDataExchange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	port := helpers.FreePort(t, config.ProtoTCP)
	server := helpers.NewSide(config.ProtoTCP, port)
	defer server.Close()
	client := helpers.NewSide(config.ProtoTCP, port)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- entrypoint.Listen(ctx, server.Cfg, &config.Listen{MaxConns: 1})
	}()

	clientErr := make(chan error, 1)
	go func() {
		clientErr <- connectUntilUp(ctx, client, &config.Connect{})
	}()

	client.Stdio.WriteToStdin([]byte("Hello from connect!\n"))
	if err := server.Stdio.WaitForOutput("Hello from connect!", 3000); err != nil {
		t.Errorf("Data did not arrive at listener: %v", err)
	}

	client.Stdio.WriteToStdin([]byte("Second message\n"))
	if err := server.Stdio.WaitForOutput("Second message", 2000); err != nil {
		t.Errorf("Second message did not arrive at listener: %v", err)
	}

	cancel()
	for name, ch := range map[string]chan error{"listen": serverErr, "connect": clientErr} {
		select {
		case err := <-ch:
			if err != nil {
				t.Errorf("%s returned %v", name, err)
			}
		case <-time.After(3 * time.Second):
			t.Errorf("%s did not return after cancel", name)
		}
	}
}

// TestLineLimit mimics "netsock connect --lines 2" against a listener: only
// the first two lines are sent and connect ends on its own.
func TestLineLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	port := helpers.FreePort(t, config.ProtoTCP)
	server := helpers.NewSide(config.ProtoTCP, port)
	defer server.Close()
	client := helpers.NewSide(config.ProtoTCP, port)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	go entrypoint.Listen(ctx, server.Cfg, &config.Listen{MaxConns: 1})

	clientErr := make(chan error, 1)
	go func() {
		clientErr <- connectUntilUp(ctx, client, &config.Connect{Lines: 2})
	}()

	go client.Stdio.WriteToStdin([]byte("one\ntwo\nthree\n"))

	if err := server.Stdio.WaitForOutput("one\ntwo\n", 3000); err != nil {
		t.Fatal(err)
	}

	// connect half-closes after the second line and the listener closes in
	// turn, which ends connect.
	select {
	case err := <-clientErr:
		if err != nil {
			t.Errorf("connect returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("connect did not return after the line limit")
	}

	if out := server.Stdio.ReadFromStdout(); out != "one\ntwo\n" {
		t.Errorf("listener printed %q, want %q", out, "one\ntwo\n")
	}
}
