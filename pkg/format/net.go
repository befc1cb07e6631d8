// Package format renders network endpoints for log and terminal output.
package format

import (
	"net"
)

// Addr joins a host and a service (port number or service name) into
// host:service form, bracketing IPv6 literals. An empty host renders as
// ":service", meaning all interfaces.
func Addr(host, service string) string {
	return net.JoinHostPort(host, service)
}

// Peer renders the sender of a datagram for terminal output.
func Peer(host, service string, payload []byte) string {
	return Addr(host, service) + ": " + string(payload)
}
