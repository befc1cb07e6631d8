// Package socket is a small procedural layer over blocking TCP and UDP
// sockets. It hides the differences between the POSIX and Winsock APIs behind
// one set of operations on an opaque Handle:
//
//   - Listen and Connect resolve a host/service pair into candidate
//     endpoints and try them in order until one can be bound or connected.
//   - Accept passes through to the platform accept call.
//   - WriteAll and ReadAll loop over single-shot send/recv until the whole
//     buffer has been transferred.
//   - SendTo and RecvFrom exchange single datagrams and render peer
//     addresses in numeric form.
//   - SetTimeout configures the receive/send timeouts, the only way to bound
//     a blocking call.
//   - Close shuts a socket down and releases it.
//
// All calls block the calling goroutine. A Handle must be used by one owner at
// a time; nothing in this package locks around it.
//
// The platform backend is selected at build time (x/sys/unix or
// x/sys/windows). A Stack binds a backend, a resolver and a logger; the
// package-level functions use Default().
package socket

import (
	"context"
	"fmt"
	"net/netip"

	"netsock/pkg/log"
)

// Backlog is the number of pending connections a listener queues.
const Backlog = 5

// Family selects the address family of resolved candidates.
type Family int

// Family selectors. FamilyAny keeps the platform resolver's ordering.
const (
	FamilyIPv4 Family = 0x04
	FamilyIPv6 Family = 0x08
	FamilyAny         = FamilyIPv4 | FamilyIPv6
)

func (f Family) valid() bool {
	return f == FamilyIPv4 || f == FamilyIPv6 || f == FamilyAny
}

func (f Family) network() string {
	switch f {
	case FamilyIPv4:
		return "ip4"
	case FamilyIPv6:
		return "ip6"
	default:
		return "ip"
	}
}

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	case FamilyAny:
		return "any"
	default:
		return fmt.Sprintf("family(%#x)", int(f))
	}
}

func familyOf(a netip.Addr) Family {
	if a.Is4() {
		return FamilyIPv4
	}
	return FamilyIPv6
}

// Type selects stream (TCP) or datagram (UDP) sockets.
type Type int

// Type selectors.
const (
	TypeTCP Type = 0x01
	TypeUDP Type = 0x02
)

// IP protocol numbers carried by candidates.
const (
	protoTCP = 6
	protoUDP = 17
)

func (t Type) protocol() (proto int, network string, ok bool) {
	switch t {
	case TypeTCP:
		return protoTCP, "tcp", true
	case TypeUDP:
		return protoUDP, "udp", true
	default:
		return 0, "", false
	}
}

func (t Type) String() string {
	switch t {
	case TypeTCP:
		return "tcp"
	case TypeUDP:
		return "udp"
	default:
		return fmt.Sprintf("type(%#x)", int(t))
	}
}

// Flags are OR'ed into the socket type when a socket is created.
type Flags int

// Creation flags.
const (
	FlagNonBlock Flags = 1 << iota
	FlagCloseOnExec

	flagsMask = FlagNonBlock | FlagCloseOnExec
)

// Direction picks the timeout a SetTimeout call applies to.
type Direction int

// Timeout directions.
const (
	Receive Direction = iota
	Send
)

func (d Direction) String() string {
	switch d {
	case Receive:
		return "SO_RCVTIMEO"
	case Send:
		return "SO_SNDTIMEO"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// How selects which half of a connection Shutdown closes.
type How int

// Shutdown modes.
const (
	ShutRead How = iota
	ShutWrite
	ShutBoth
)

// Endpoint describes what to resolve: a host (empty for "any local address"
// on binds, loopback on connects), a service given as a port number or a
// service name, and the family/type selectors and creation flags.
type Endpoint struct {
	Host    string
	Service string
	Family  Family
	Type    Type
	Flags   Flags

	// Passive marks endpoints used for binding.
	Passive bool
}

// Candidate is one resolved endpoint considered for binding or connecting.
type Candidate struct {
	Family   Family
	Type     Type
	Protocol int
	Addr     netip.AddrPort
}

// Stack ties the socket operations to a platform backend, a resolver and a
// logger. A Stack is immutable and safe to share; the handles it returns are
// not.
type Stack struct {
	sys      backend
	resolver *Resolver
	logger   *log.Logger
}

// Option configures a Stack.
type Option func(*Stack)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Stack) {
		s.logger = l
	}
}

// WithResolver sets the resolver used by Listen, Connect and SendTo.
func WithResolver(r *Resolver) Option {
	return func(s *Stack) {
		s.resolver = r
	}
}

// New creates a Stack on the platform backend.
func New(opts ...Option) *Stack {
	return newStack(platform(), opts...)
}

func newStack(sys backend, opts ...Option) *Stack {
	s := &Stack{
		sys:      sys,
		resolver: NewResolver(nil),
		logger:   log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Logger returns the stack's logger.
func (s *Stack) Logger() *log.Logger {
	return s.logger
}

var defaultStack = New()

// Default returns the Stack used by the package-level functions. It logs
// nothing and resolves through the system resolver.
func Default() *Stack {
	return defaultStack
}

// Listen binds a socket on the local endpoint; stream sockets are also put
// into the listening state. See Stack.Listen.
func Listen(ctx context.Context, ep Endpoint) (Handle, error) {
	return defaultStack.Listen(ctx, ep)
}

// Connect connects a socket to the remote endpoint. See Stack.Connect.
func Connect(ctx context.Context, ep Endpoint) (Handle, error) {
	return defaultStack.Connect(ctx, ep)
}

// Accept accepts a connection on a listening socket. See Stack.Accept.
func Accept(listener Handle) (Handle, error) {
	return defaultStack.Accept(listener)
}

// SetTimeout sets a receive or send timeout in milliseconds. See Stack.SetTimeout.
func SetTimeout(h Handle, dir Direction, millis int) error {
	return defaultStack.SetTimeout(h, dir, millis)
}

// WriteAll sends all of buf. See Stack.WriteAll.
func WriteAll(h Handle, buf []byte) (int, error) {
	return defaultStack.WriteAll(h, buf)
}

// ReadAll fills buf. See Stack.ReadAll.
func ReadAll(h Handle, buf []byte) (int, error) {
	return defaultStack.ReadAll(h, buf)
}

// SendTo sends one datagram. See Stack.SendTo.
func SendTo(ctx context.Context, h Handle, buf []byte, host, service string) (int, error) {
	return defaultStack.SendTo(ctx, h, buf, host, service)
}

// RecvFrom receives one datagram. See Stack.RecvFrom.
func RecvFrom(h Handle, buf []byte) (int, string, string, error) {
	return defaultStack.RecvFrom(h, buf)
}

// Close shuts down and releases h. See Stack.Close.
func Close(h Handle) {
	defaultStack.Close(h)
}

// IsTimeout reports whether err comes from an expired socket timeout.
func IsTimeout(err error) bool {
	return defaultStack.IsTimeout(err)
}
