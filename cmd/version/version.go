// Package version implements the version command.
package version

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// Version is set at build time with -ldflags "-X netsock/cmd/version.Version=...".
var Version = "unknown"

// GetCommand returns the CLI command printing the program version.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the netsock version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintln(writer(cmd), Version)
			return err
		},
	}
}

// writer returns the output writer configured on the root command.
func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}
