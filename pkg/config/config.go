// Package config holds the command line configuration of netsock and the
// dependencies its entry points use.
package config

import (
	"fmt"
	"strconv"
	"time"

	"netsock/pkg/log"
	"netsock/pkg/socket"
)

// Protocol is the transport protocol selected on the command line.
type Protocol int

// Supported protocols.
const (
	ProtoTCP Protocol = 1
	ProtoUDP Protocol = 2
)

func (p Protocol) String() string {
	switch p {
	case ProtoTCP:
		return "tcp"
	case ProtoUDP:
		return "udp"
	default:
		return ""
	}
}

// SocketType returns the socket type used for the protocol.
func (p Protocol) SocketType() socket.Type {
	if p == ProtoUDP {
		return socket.TypeUDP
	}
	return socket.TypeTCP
}

// Shared is the configuration common to all commands.
type Shared struct {
	Protocol Protocol
	Host     string
	Port     int

	IPv4 bool
	IPv6 bool

	// Timeout bounds receives and sends on connections. Zero disables it.
	Timeout time.Duration

	Nameservers   []string
	SearchDomains []string

	Verbose    bool
	LogFile    string
	LogLevel   string
	Transcript string

	Logger *log.Logger
	Deps   *Dependencies
}

// Family returns the address family selected by --ipv4 and --ipv6.
func (c *Shared) Family() socket.Family {
	switch {
	case c.IPv4 && !c.IPv6:
		return socket.FamilyIPv4
	case c.IPv6 && !c.IPv4:
		return socket.FamilyIPv6
	default:
		return socket.FamilyAny
	}
}

// Service returns the port as a service string.
func (c *Shared) Service() string {
	return strconv.Itoa(c.Port)
}

// Endpoint returns the socket endpoint for host, port and protocol.
func (c *Shared) Endpoint() socket.Endpoint {
	return socket.Endpoint{
		Host:    c.Host,
		Service: c.Service(),
		Family:  c.Family(),
		Type:    c.Protocol.SocketType(),
	}
}

// ResolveConfig returns the resolver settings, or nil for the system
// resolver.
func (c *Shared) ResolveConfig() *socket.ResolveConfig {
	if len(c.Nameservers) == 0 && len(c.SearchDomains) == 0 {
		return nil
	}
	return &socket.ResolveConfig{
		Nameservers:   c.Nameservers,
		SearchDomains: c.SearchDomains,
	}
}

// MinLogLevel returns the level selected by --log-level, falling back to
// debug or info depending on --verbose.
func (c *Shared) MinLogLevel() log.Level {
	if c.LogLevel != "" {
		if l, err := log.ParseLevel(c.LogLevel); err == nil {
			return l
		}
	}
	if c.Verbose {
		return log.LevelDebug
	}
	return log.LevelInfo
}

// Validate checks the shared configuration.
func (c *Shared) Validate() []error {
	var errors []error

	if c.Protocol != ProtoTCP && c.Protocol != ProtoUDP {
		errors = append(errors, fmt.Errorf("unsupported protocol %d", c.Protocol))
	}

	if err := validatePort(c.Port); err != nil {
		errors = append(errors, fmt.Errorf("port: %s", err))
	}

	if c.IPv4 && c.IPv6 {
		errors = append(errors, fmt.Errorf("'--ipv4' and '--ipv6' are mutually exclusive"))
	}

	if c.Timeout < 0 {
		errors = append(errors, fmt.Errorf("'--timeout' must not be negative"))
	}

	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			errors = append(errors, fmt.Errorf("'--log-level': %s", err))
		}
	}

	return errors
}

// Connect is the configuration of the connect command.
type Connect struct {
	// Lines limits how many lines are read from stdin. Zero means no limit.
	Lines int
}

// Validate checks the connect configuration.
func (c *Connect) Validate() []error {
	if c.Lines < 0 {
		return []error{fmt.Errorf("'--lines' must not be negative")}
	}
	return nil
}

// Listen is the configuration of the listen command.
type Listen struct {
	// MaxConns limits concurrently served connections.
	MaxConns int
	// Wait is how long a connection beyond MaxConns waits for a free slot
	// before it is closed. Zero closes it right away.
	Wait time.Duration
}

// Validate checks the listen configuration.
func (c *Listen) Validate() []error {
	var errs []error
	if c.MaxConns < 1 {
		errs = append(errs, fmt.Errorf("'--max-conns' must be at least 1"))
	}
	if c.Wait < 0 {
		errs = append(errs, fmt.Errorf("'--wait' must not be negative"))
	}
	return errs
}
