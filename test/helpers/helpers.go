// Package helpers provides common utilities for end-to-end tests that run
// two netsock commands against each other over loopback.
package helpers

import (
	"context"
	"io"
	"strconv"
	"testing"

	"netsock/mocks"
	"netsock/pkg/config"
	"netsock/pkg/socket"
)

// Side is one command of an end-to-end test: its configuration and the
// mocked terminal it reads from and prints to.
type Side struct {
	Cfg   *config.Shared
	Stdio *mocks.MockStdio
}

// NewSide returns a side talking to 127.0.0.1:port over proto.
func NewSide(proto config.Protocol, port int) *Side {
	stdio := mocks.NewMockStdio()
	return &Side{
		Cfg: &config.Shared{
			Protocol: proto,
			Host:     "127.0.0.1",
			Port:     port,
			IPv4:     true,
			Deps: &config.Dependencies{
				Stdin:  func() io.Reader { return stdio.GetStdin() },
				Stdout: func() io.Writer { return stdio.GetStdout() },
			},
		},
		Stdio: stdio,
	}
}

// Close closes the side's mocked terminal.
func (s *Side) Close() error {
	return s.Stdio.Close()
}

// FreePort returns a loopback port that was free a moment ago.
func FreePort(t *testing.T, proto config.Protocol) int {
	t.Helper()

	stack := socket.Default()
	h, err := stack.Bind(context.Background(), socket.Endpoint{
		Host:    "127.0.0.1",
		Service: "0",
		Family:  socket.FamilyIPv4,
		Type:    proto.SocketType(),
	})
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	defer stack.Close(h)

	_, service, err := stack.LocalAddr(h)
	if err != nil {
		t.Fatalf("LocalAddr() error = %v", err)
	}
	port, _ := strconv.Atoi(service)
	return port
}
