//go:build windows

package socket

import (
	"errors"
	"net/netip"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Winsock option and error values not exported by x/sys/windows.
const (
	soSndTimeo = 0x1005
	soRcvTimeo = 0x1006

	wsaeInval       = windows.Errno(10022)
	wsaeWouldBlock  = windows.Errno(10035)
	wsaeAfNoSupport = windows.Errno(10047)
	wsaeTimedOut    = windows.Errno(10060)

	sdReceive = 0
	sdSend    = 1
	sdBoth    = 2
)

var (
	modws2_32  = windows.NewLazySystemDLL("ws2_32.dll")
	procAccept = modws2_32.NewProc("accept")
)

type windowsBackend struct{}

func platform() backend {
	return windowsBackend{}
}

func (windowsBackend) startup() error {
	var data windows.WSAData
	return os.NewSyscallError("WSAStartup", windows.WSAStartup(uint32(0x202), &data))
}

func (windowsBackend) cleanup() error {
	return os.NewSyscallError("WSACleanup", windows.WSACleanup())
}

func sockaddr(ap netip.AddrPort) windows.Sockaddr {
	a := ap.Addr()
	if a.Is4() {
		return &windows.SockaddrInet4{Port: int(ap.Port()), Addr: a.As4()}
	}
	return &windows.SockaddrInet6{Port: int(ap.Port()), Addr: a.As16(), ZoneId: zoneIndex(a.Zone())}
}

func fromSockaddr(sa windows.Sockaddr) (netip.AddrPort, error) {
	switch sa := sa.(type) {
	case *windows.SockaddrInet4:
		return netip.AddrPortFrom(netip.AddrFrom4(sa.Addr), uint16(sa.Port)), nil
	case *windows.SockaddrInet6:
		return addrPortFrom16(sa.Addr, sa.Port, sa.ZoneId), nil
	default:
		return netip.AddrPort{}, os.NewSyscallError("getnameinfo", wsaeAfNoSupport)
	}
}

type windowsPeer struct {
	rsa windows.RawSockaddrAny
}

func (p *windowsPeer) addrPort() (netip.AddrPort, error) {
	sa, err := p.rsa.Sockaddr()
	if err != nil {
		return netip.AddrPort{}, os.NewSyscallError("getnameinfo", err)
	}
	return fromSockaddr(sa)
}

func (windowsBackend) socket(family Family, typ Type, proto int, flags Flags) (Handle, error) {
	if flags&FlagNonBlock != 0 {
		return Invalid, os.NewSyscallError("socket", wsaeInval)
	}
	domain := windows.AF_INET
	if family == FamilyIPv6 {
		domain = windows.AF_INET6
	}
	sotype := windows.SOCK_STREAM
	if typ == TypeUDP {
		sotype = windows.SOCK_DGRAM
	}
	s, err := windows.Socket(domain, sotype, proto)
	if err != nil {
		return Invalid, os.NewSyscallError("socket", err)
	}
	if flags&FlagCloseOnExec != 0 {
		if err := windows.SetHandleInformation(s, windows.HANDLE_FLAG_INHERIT, 0); err != nil {
			windows.Closesocket(s)
			return Invalid, os.NewSyscallError("SetHandleInformation", err)
		}
	}
	return Handle(s), nil
}

func (windowsBackend) connect(h Handle, addr netip.AddrPort) error {
	return os.NewSyscallError("connect", windows.Connect(windows.Handle(h), sockaddr(addr)))
}

func (windowsBackend) bind(h Handle, addr netip.AddrPort) error {
	return os.NewSyscallError("bind", windows.Bind(windows.Handle(h), sockaddr(addr)))
}

func (windowsBackend) listen(h Handle, backlog int) error {
	return os.NewSyscallError("listen", windows.Listen(windows.Handle(h), backlog))
}

func (windowsBackend) accept(h Handle) (Handle, error) {
	r, _, e := procAccept.Call(uintptr(h), 0, 0)
	if Handle(r) == Invalid {
		return Invalid, os.NewSyscallError("accept", e)
	}
	return Handle(r), nil
}

func (windowsBackend) setReuseAddr(h Handle) error {
	return os.NewSyscallError("setsockopt", windows.SetsockoptInt(windows.Handle(h), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1))
}

func timeoutOpt(dir Direction) int {
	if dir == Send {
		return soSndTimeo
	}
	return soRcvTimeo
}

// Winsock takes the timeout as a DWORD in milliseconds.
func (windowsBackend) setTimeout(h Handle, dir Direction, millis int) error {
	return os.NewSyscallError("setsockopt", windows.SetsockoptInt(windows.Handle(h), windows.SOL_SOCKET, timeoutOpt(dir), millis))
}

func (windowsBackend) getTimeout(h Handle, dir Direction) (int, error) {
	var v uint32
	l := int32(unsafe.Sizeof(v))
	err := windows.Getsockopt(windows.Handle(h), windows.SOL_SOCKET, int32(timeoutOpt(dir)), (*byte)(unsafe.Pointer(&v)), &l)
	if err != nil {
		return 0, os.NewSyscallError("getsockopt", err)
	}
	return int(v), nil
}

func wsabuf(p []byte) *windows.WSABuf {
	b := &windows.WSABuf{Len: uint32(len(p))}
	if len(p) > 0 {
		b.Buf = &p[0]
	}
	return b
}

func (windowsBackend) send(h Handle, p []byte) (int, error) {
	var n uint32
	if err := windows.WSASend(windows.Handle(h), wsabuf(p), 1, &n, 0, nil, nil); err != nil {
		return 0, os.NewSyscallError("WSASend", err)
	}
	return int(n), nil
}

func (windowsBackend) recv(h Handle, p []byte) (int, error) {
	var n, flags uint32
	if err := windows.WSARecv(windows.Handle(h), wsabuf(p), 1, &n, &flags, nil, nil); err != nil {
		return 0, os.NewSyscallError("WSARecv", err)
	}
	return int(n), nil
}

func (windowsBackend) sendTo(h Handle, p []byte, addr netip.AddrPort) (int, error) {
	var n uint32
	if err := windows.WSASendto(windows.Handle(h), wsabuf(p), 1, &n, 0, sockaddr(addr), nil, nil); err != nil {
		return 0, os.NewSyscallError("WSASendto", err)
	}
	return int(n), nil
}

func (windowsBackend) recvFrom(h Handle, p []byte) (int, peerAddr, error) {
	var n, flags uint32
	peer := &windowsPeer{}
	l := int32(unsafe.Sizeof(peer.rsa))
	if err := windows.WSARecvFrom(windows.Handle(h), wsabuf(p), 1, &n, &flags, &peer.rsa, &l, nil, nil); err != nil {
		return 0, nil, os.NewSyscallError("WSARecvFrom", err)
	}
	return int(n), peer, nil
}

func (windowsBackend) localAddr(h Handle) (netip.AddrPort, error) {
	sa, err := windows.Getsockname(windows.Handle(h))
	if err != nil {
		return netip.AddrPort{}, os.NewSyscallError("getsockname", err)
	}
	return fromSockaddr(sa)
}

func (windowsBackend) shutdown(h Handle, how How) error {
	mode := sdBoth
	switch how {
	case ShutRead:
		mode = sdReceive
	case ShutWrite:
		mode = sdSend
	}
	return os.NewSyscallError("shutdown", windows.Shutdown(windows.Handle(h), mode))
}

func (windowsBackend) close(h Handle) error {
	return os.NewSyscallError("closesocket", windows.Closesocket(windows.Handle(h)))
}

func (windowsBackend) isTimeout(err error) bool {
	return errors.Is(err, wsaeTimedOut) || errors.Is(err, wsaeWouldBlock)
}
