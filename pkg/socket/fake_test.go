package socket

import (
	"errors"
	"net/netip"
	"sync"
	"testing"
)

var errFakeTimeout = errors.New("fake: resource temporarily unavailable")

type fakeSock struct {
	family   Family
	typ      Type
	local    netip.AddrPort
	timeouts [2]int
}

type fakeDatagram struct {
	payload []byte
	from    netip.AddrPort
	peerErr error
}

type fakePeer struct {
	ap  netip.AddrPort
	err error
}

func (p fakePeer) addrPort() (netip.AddrPort, error) {
	return p.ap, p.err
}

// fakeSys is an in-memory backend. Stream data written by send lands in
// sent; recv serves inbound. chunk caps the bytes moved per call so the
// transfer loops see fragmented I/O.
type fakeSys struct {
	mu    sync.Mutex
	next  int
	socks map[Handle]*fakeSock
	calls []string

	chunk      int
	zeroAfter  int
	inbound    []byte
	sent       []byte
	ioErr      error
	datagrams  []fakeDatagram
	sentTo     []netip.AddrPort
	sendToErrs map[netip.AddrPort]error

	socketErrs  map[Family]error
	connectErrs map[netip.AddrPort]error
	bindErrs    map[netip.AddrPort]error
	listenErr   error
	reuseErr    error
	acceptErr   error
	timeoutErr  error
	localErr    error
	shutdownErr error
	closeErr    error
}

func newFakeSys() *fakeSys {
	return &fakeSys{
		next:      3,
		socks:     map[Handle]*fakeSock{},
		zeroAfter: -1,
	}
}

func (f *fakeSys) record(call string) {
	f.calls = append(f.calls, call)
}

// openHandles returns the number of sockets created and not yet closed.
func (f *fakeSys) openHandles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.socks)
}

func (f *fakeSys) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeSys) startup() error { return nil }
func (f *fakeSys) cleanup() error { return nil }

func (f *fakeSys) socket(family Family, typ Type, _ int, _ Flags) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("socket")
	if err := f.socketErrs[family]; err != nil {
		return Invalid, err
	}
	h := Handle(f.next)
	f.next++
	f.socks[h] = &fakeSock{family: family, typ: typ}
	return h, nil
}

func (f *fakeSys) connect(h Handle, addr netip.AddrPort) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("connect")
	return f.connectErrs[addr]
}

func (f *fakeSys) bind(h Handle, addr netip.AddrPort) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("bind")
	if err := f.bindErrs[addr]; err != nil {
		return err
	}
	f.socks[h].local = addr
	return nil
}

func (f *fakeSys) listen(Handle, int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("listen")
	return f.listenErr
}

func (f *fakeSys) accept(h Handle) (Handle, error) {
	f.mu.Lock()
	f.record("accept")
	err := f.acceptErr
	f.mu.Unlock()
	if err != nil {
		return Invalid, err
	}
	return f.socket(FamilyIPv4, TypeTCP, protoTCP, 0)
}

func (f *fakeSys) setReuseAddr(Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("setReuseAddr")
	return f.reuseErr
}

func (f *fakeSys) setTimeout(h Handle, dir Direction, millis int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("setTimeout")
	if f.timeoutErr != nil {
		return f.timeoutErr
	}
	f.socks[h].timeouts[dir] = millis
	return nil
}

func (f *fakeSys) getTimeout(h Handle, dir Direction) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.socks[h].timeouts[dir], nil
}

func (f *fakeSys) step(p []byte, moved int) int {
	n := len(p)
	if f.chunk > 0 && n > f.chunk {
		n = f.chunk
	}
	if f.zeroAfter >= 0 && moved+n > f.zeroAfter {
		n = f.zeroAfter - moved
	}
	return n
}

func (f *fakeSys) send(_ Handle, p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("send")
	if f.ioErr != nil {
		return 0, f.ioErr
	}
	n := f.step(p, len(f.sent))
	f.sent = append(f.sent, p[:n]...)
	return n, nil
}

func (f *fakeSys) recv(_ Handle, p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("recv")
	if f.ioErr != nil {
		return 0, f.ioErr
	}
	n := f.step(p, 0)
	n = copy(p[:n], f.inbound)
	f.inbound = f.inbound[n:]
	return n, nil
}

func (f *fakeSys) sendTo(_ Handle, p []byte, addr netip.AddrPort) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("sendTo")
	if err := f.sendToErrs[addr]; err != nil {
		return 0, err
	}
	f.sentTo = append(f.sentTo, addr)
	return len(p), nil
}

func (f *fakeSys) recvFrom(_ Handle, p []byte) (int, peerAddr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("recvFrom")
	if f.ioErr != nil {
		return 0, nil, f.ioErr
	}
	if len(f.datagrams) == 0 {
		return 0, nil, errFakeTimeout
	}
	d := f.datagrams[0]
	f.datagrams = f.datagrams[1:]
	return copy(p, d.payload), fakePeer{ap: d.from, err: d.peerErr}, nil
}

func (f *fakeSys) localAddr(h Handle) (netip.AddrPort, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.localErr != nil {
		return netip.AddrPort{}, f.localErr
	}
	return f.socks[h].local, nil
}

func (f *fakeSys) shutdown(Handle, How) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("shutdown")
	return f.shutdownErr
}

func (f *fakeSys) close(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("close")
	delete(f.socks, h)
	return f.closeErr
}

func (f *fakeSys) isTimeout(err error) bool {
	return errors.Is(err, errFakeTimeout)
}

// newFakeStack returns a stack on a fresh fake backend with the given
// options applied after it.
func newFakeStack(opts ...Option) (*Stack, *fakeSys) {
	sys := newFakeSys()
	return newStack(sys, opts...), sys
}

// openFake creates a fake socket bound to local.
func openFake(t testing.TB, sys *fakeSys, local string) Handle {
	t.Helper()
	ap := netip.MustParseAddrPort(local)
	h, _ := sys.socket(familyOf(ap.Addr()), TypeUDP, protoUDP, 0)
	sys.socks[h].local = ap
	return h
}
