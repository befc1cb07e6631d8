// Package shared provides the CLI flag definitions and helpers used by all
// netsock commands.
package shared

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"netsock/pkg/config"
	"netsock/pkg/log"
	"netsock/pkg/socket"
)

const categoryCommon = "common"

// VerboseFlag is the name of the flag to enable debug logging.
const VerboseFlag = "verbose"

// TimeoutFlag is the name of the flag to specify the send/receive timeout in milliseconds.
const TimeoutFlag = "timeout"

// IPv4Flag is the name of the flag restricting resolution to IPv4.
const IPv4Flag = "ipv4"

// IPv6Flag is the name of the flag restricting resolution to IPv6.
const IPv6Flag = "ipv6"

// NameserverFlag is the name of the flag to specify DNS servers.
const NameserverFlag = "nameserver"

// SearchFlag is the name of the flag to specify DNS search domains.
const SearchFlag = "search"

// LogFileFlag is the name of the flag to write diagnostics to a file.
const LogFileFlag = "log-file"

// LogLevelFlag is the name of the flag to set the minimum log level.
const LogLevelFlag = "log-level"

// TranscriptFlag is the name of the flag to record session data to a file.
const TranscriptFlag = "log"

// GetBaseDescription returns the description of the transport argument.
func GetBaseDescription() string {
	return strings.Join([]string{
		"Specify transport like this: tcp://127.0.0.1:123 (supports tcp|udp)",
		"You can omit the host when listening to bind to all interfaces.",
	}, "\n")
}

// GetArgsUsage returns the arguments usage string for CLI commands.
func GetArgsUsage() string {
	return "transport"
}

// GetCommonFlags returns the flags shared by all commands.
func GetCommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     VerboseFlag,
			Aliases:  []string{"v"},
			Usage:    "Verbose logging",
			Category: categoryCommon,
		},
		&cli.IntFlag{
			Name:     TimeoutFlag,
			Aliases:  []string{"t"},
			Usage:    "Send and receive timeout in milliseconds, 0 to wait forever",
			Category: categoryCommon,
			Value:    0,
		},
		&cli.BoolFlag{
			Name:     IPv4Flag,
			Aliases:  []string{"4"},
			Usage:    "Use IPv4 addresses only",
			Category: categoryCommon,
		},
		&cli.BoolFlag{
			Name:     IPv6Flag,
			Aliases:  []string{"6"},
			Usage:    "Use IPv6 addresses only",
			Category: categoryCommon,
		},
		&cli.StringSliceFlag{
			Name:     NameserverFlag,
			Usage:    "DNS server (host:port) to resolve names with instead of the system resolver, can be repeated",
			Category: categoryCommon,
		},
		&cli.StringSliceFlag{
			Name:     SearchFlag,
			Usage:    "DNS search domain for unqualified names, can be repeated",
			Category: categoryCommon,
		},
		&cli.StringFlag{
			Name:     LogFileFlag,
			Usage:    "Write diagnostics to this file instead of the console",
			Category: categoryCommon,
		},
		&cli.StringFlag{
			Name:     LogLevelFlag,
			Usage:    "Minimum log level: all|trace|debug|info|warn|error|fatal|none",
			Category: categoryCommon,
		},
		&cli.StringFlag{
			Name:     TranscriptFlag,
			Aliases:  []string{"l"},
			Usage:    "Record session data to this file",
			Category: categoryCommon,
		},
	}
}

const categoryConnect = "connect"

// LinesFlag is the name of the flag limiting the lines read from stdin.
const LinesFlag = "lines"

// GetConnectFlags returns the flags specific to connect mode.
func GetConnectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     LinesFlag,
			Aliases:  []string{"n"},
			Usage:    "Send at most this many lines from stdin, 0 for no limit",
			Category: categoryConnect,
			Value:    0,
		},
	}
}

const categoryListen = "listen"

// MaxConnsFlag is the name of the flag limiting concurrent connections.
const MaxConnsFlag = "max-conns"

// WaitFlag is the name of the flag to specify how long, in milliseconds, a
// connection beyond the limit waits for a free slot.
const WaitFlag = "wait"

// GetListenFlags returns the flags specific to listen mode.
func GetListenFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     MaxConnsFlag,
			Aliases:  []string{"m"},
			Usage:    "Maximum number of connections served at the same time",
			Category: categoryListen,
			Value:    1,
		},
		&cli.IntFlag{
			Name:     WaitFlag,
			Aliases:  []string{"w"},
			Usage:    "Milliseconds a connection beyond the limit waits for a free slot, 0 to close it right away",
			Category: categoryListen,
			Value:    0,
		},
	}
}

// ParseArgs parses the single transport argument of a command.
func ParseArgs(cmd *cli.Command) (config.Protocol, string, int, error) {
	args := cmd.Args()
	if args.Len() != 1 {
		return 0, "", 0, fmt.Errorf("must provide exactly one argument, got %d (%s)", args.Len(), strings.Join(args.Slice(), ", "))
	}

	proto, host, port, err := ParseTransport(args.Get(0))
	if err != nil {
		return 0, "", 0, fmt.Errorf("parsing transport: %w", err)
	}
	return proto, host, port, nil
}

// NewSharedConfig reads the common flags into a configuration.
func NewSharedConfig(cmd *cli.Command, proto config.Protocol, host string, port int) *config.Shared {
	return &config.Shared{
		Protocol:      proto,
		Host:          host,
		Port:          port,
		IPv4:          cmd.Bool(IPv4Flag),
		IPv6:          cmd.Bool(IPv6Flag),
		Timeout:       time.Duration(cmd.Int(TimeoutFlag)) * time.Millisecond,
		Nameservers:   cmd.StringSlice(NameserverFlag),
		SearchDomains: cmd.StringSlice(SearchFlag),
		Verbose:       cmd.Bool(VerboseFlag),
		LogFile:       cmd.String(LogFileFlag),
		LogLevel:      cmd.String(LogLevelFlag),
		Transcript:    cmd.String(TranscriptFlag),
	}
}

// Validate checks all configurations and prints every problem found.
func Validate(cfgs ...config.ValidatableConfig) error {
	errors := config.Validate(cfgs...)
	if len(errors) == 0 {
		return nil
	}

	log.ErrorMsg("Argument validation errors:\n")
	for _, err := range errors {
		log.ErrorMsg(" - %s\n", err)
	}
	return fmt.Errorf("exiting")
}

// Start sets up logging and the socket layer for cfg. The returned function
// undoes both.
func Start(cfg *config.Shared) (func(), error) {
	logger, closeLog, err := log.Start(cfg.LogFile, cfg.MinLogLevel())
	if err != nil {
		return nil, fmt.Errorf("starting log: %w", err)
	}
	cfg.Logger = logger

	if err := socket.Startup(); err != nil {
		closeLog()
		return nil, err
	}

	return func() {
		if err := socket.Cleanup(); err != nil {
			logger.VerboseMsg("socket cleanup: %s", err)
		}
		closeLog()
	}, nil
}
