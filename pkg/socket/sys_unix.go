//go:build unix

package socket

import (
	"errors"
	"net/netip"
	"os"

	"golang.org/x/sys/unix"
)

type unixBackend struct{}

func platform() backend {
	return unixBackend{}
}

func (unixBackend) startup() error { return nil }
func (unixBackend) cleanup() error { return nil }

// ignoringEINTR retries fn while it fails with EINTR.
func ignoringEINTR(fn func() error) error {
	for {
		err := fn()
		if err != unix.EINTR {
			return err
		}
	}
}

func domainOf(f Family) int {
	if f == FamilyIPv6 {
		return unix.AF_INET6
	}
	return unix.AF_INET
}

func sockaddr(ap netip.AddrPort) unix.Sockaddr {
	a := ap.Addr()
	if a.Is4() {
		return &unix.SockaddrInet4{Port: int(ap.Port()), Addr: a.As4()}
	}
	return &unix.SockaddrInet6{Port: int(ap.Port()), Addr: a.As16(), ZoneId: zoneIndex(a.Zone())}
}

func fromSockaddr(sa unix.Sockaddr) (netip.AddrPort, error) {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		return netip.AddrPortFrom(netip.AddrFrom4(sa.Addr), uint16(sa.Port)), nil
	case *unix.SockaddrInet6:
		return addrPortFrom16(sa.Addr, sa.Port, sa.ZoneId), nil
	default:
		return netip.AddrPort{}, os.NewSyscallError("getnameinfo", unix.EAFNOSUPPORT)
	}
}

type unixPeer struct {
	sa unix.Sockaddr
}

func (p unixPeer) addrPort() (netip.AddrPort, error) {
	return fromSockaddr(p.sa)
}

func (unixBackend) socket(family Family, typ Type, proto int, flags Flags) (Handle, error) {
	sotype := unix.SOCK_STREAM
	if typ == TypeUDP {
		sotype = unix.SOCK_DGRAM
	}
	fd, err := sysSocket(domainOf(family), sotype, proto, flags)
	if err != nil {
		return Invalid, os.NewSyscallError("socket", err)
	}
	return Handle(fd), nil
}

func (unixBackend) connect(h Handle, addr netip.AddrPort) error {
	return os.NewSyscallError("connect", unix.Connect(int(h), sockaddr(addr)))
}

func (unixBackend) bind(h Handle, addr netip.AddrPort) error {
	return os.NewSyscallError("bind", unix.Bind(int(h), sockaddr(addr)))
}

func (unixBackend) listen(h Handle, backlog int) error {
	return os.NewSyscallError("listen", unix.Listen(int(h), backlog))
}

func (unixBackend) accept(h Handle) (Handle, error) {
	var nfd int
	err := ignoringEINTR(func() error {
		var err error
		nfd, _, err = unix.Accept(int(h))
		return err
	})
	if err != nil {
		return Invalid, os.NewSyscallError("accept", err)
	}
	return Handle(nfd), nil
}

func (unixBackend) setReuseAddr(h Handle) error {
	return os.NewSyscallError("setsockopt", unix.SetsockoptInt(int(h), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1))
}

func timeoutOpt(dir Direction) int {
	if dir == Send {
		return unix.SO_SNDTIMEO
	}
	return unix.SO_RCVTIMEO
}

func (unixBackend) setTimeout(h Handle, dir Direction, millis int) error {
	tv := unix.NsecToTimeval(int64(millis) * 1e6)
	return os.NewSyscallError("setsockopt", unix.SetsockoptTimeval(int(h), unix.SOL_SOCKET, timeoutOpt(dir), &tv))
}

func (unixBackend) getTimeout(h Handle, dir Direction) (int, error) {
	tv, err := unix.GetsockoptTimeval(int(h), unix.SOL_SOCKET, timeoutOpt(dir))
	if err != nil {
		return 0, os.NewSyscallError("getsockopt", err)
	}
	return int(tv.Nano() / 1e6), nil
}

func (unixBackend) send(h Handle, p []byte) (int, error) {
	var n int
	err := ignoringEINTR(func() error {
		var err error
		n, err = unix.Write(int(h), p)
		return err
	})
	if err != nil {
		return 0, os.NewSyscallError("send", err)
	}
	return n, nil
}

func (unixBackend) recv(h Handle, p []byte) (int, error) {
	var n int
	err := ignoringEINTR(func() error {
		var err error
		n, err = unix.Read(int(h), p)
		return err
	})
	if err != nil {
		return 0, os.NewSyscallError("recv", err)
	}
	return n, nil
}

func (unixBackend) sendTo(h Handle, p []byte, addr netip.AddrPort) (int, error) {
	err := ignoringEINTR(func() error {
		return unix.Sendto(int(h), p, 0, sockaddr(addr))
	})
	if err != nil {
		return 0, os.NewSyscallError("sendto", err)
	}
	return len(p), nil
}

func (unixBackend) recvFrom(h Handle, p []byte) (int, peerAddr, error) {
	var (
		n    int
		from unix.Sockaddr
	)
	err := ignoringEINTR(func() error {
		var err error
		n, from, err = unix.Recvfrom(int(h), p, 0)
		return err
	})
	if err != nil {
		return 0, nil, os.NewSyscallError("recvfrom", err)
	}
	return n, unixPeer{sa: from}, nil
}

func (unixBackend) localAddr(h Handle) (netip.AddrPort, error) {
	sa, err := unix.Getsockname(int(h))
	if err != nil {
		return netip.AddrPort{}, os.NewSyscallError("getsockname", err)
	}
	return fromSockaddr(sa)
}

func (unixBackend) shutdown(h Handle, how How) error {
	mode := unix.SHUT_RDWR
	switch how {
	case ShutRead:
		mode = unix.SHUT_RD
	case ShutWrite:
		mode = unix.SHUT_WR
	}
	return os.NewSyscallError("shutdown", unix.Shutdown(int(h), mode))
}

func (unixBackend) close(h Handle) error {
	return os.NewSyscallError("close", unix.Close(int(h)))
}

func (unixBackend) isTimeout(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.ETIMEDOUT)
}
