package connect

import (
	"context"
	"strings"
	"testing"
)

func TestGetCommand(t *testing.T) {
	t.Parallel()

	cmd := GetCommand()
	if cmd.Name != "connect" {
		t.Errorf("command name = %q; want %q", cmd.Name, "connect")
	}
	if cmd.Action == nil {
		t.Fatal("command action should not be nil")
	}
}

func TestAction_ArgumentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no transport", []string{"connect"}, "exactly one argument"},
		{"bad transport", []string{"connect", "tcp:/host:1"}, "parsing transport"},
		{"no host", []string{"connect", "tcp://:8080"}, "specify a host"},
		{"both families", []string{"connect", "-4", "-6", "tcp://localhost:8080"}, "exiting"},
		{"negative lines", []string{"connect", "--lines", "-1", "tcp://localhost:8080"}, "exiting"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := GetCommand().Run(context.Background(), tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run(%v) error = %v, want %q", tt.args, err, tt.want)
			}
		})
	}
}
