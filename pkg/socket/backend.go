package socket

import "net/netip"

// backend is the set of native socket primitives one platform provides.
// Implementations are selected at build time; each method maps to a single
// system call and returns the platform error unchanged.
type backend interface {
	startup() error
	cleanup() error

	socket(family Family, typ Type, proto int, flags Flags) (Handle, error)
	connect(h Handle, addr netip.AddrPort) error
	bind(h Handle, addr netip.AddrPort) error
	listen(h Handle, backlog int) error
	accept(h Handle) (Handle, error)
	setReuseAddr(h Handle) error
	setTimeout(h Handle, dir Direction, millis int) error
	getTimeout(h Handle, dir Direction) (int, error)

	send(h Handle, p []byte) (int, error)
	recv(h Handle, p []byte) (int, error)
	sendTo(h Handle, p []byte, addr netip.AddrPort) (int, error)
	recvFrom(h Handle, p []byte) (int, peerAddr, error)
	localAddr(h Handle) (netip.AddrPort, error)

	shutdown(h Handle, how How) error
	close(h Handle) error

	isTimeout(err error) bool
}

// peerAddr is the raw source address of a received datagram. Converting it
// to an AddrPort is the numeric name lookup step of RecvFrom and may fail for
// address families this package does not handle.
type peerAddr interface {
	addrPort() (netip.AddrPort, error)
}
