package socket

import (
	"context"
	"strconv"
)

// SendTo sends buf as one datagram to (host, service). The destination is
// resolved within the address family the socket is bound to, so the local
// name is queried first; the datagram goes to the first candidate the
// platform accepts.
//
// An unbound socket has no family yet. Bind it first or use a socket from
// Listen.
func (s *Stack) SendTo(ctx context.Context, h Handle, buf []byte, host, service string) (int, error) {
	local, err := s.sys.localAddr(h)
	if err != nil {
		return 0, newError(ErrSend, "getsockname", err)
	}

	cands, err := s.resolver.Resolve(ctx, Endpoint{
		Host:    host,
		Service: service,
		Family:  familyOf(local.Addr()),
		Type:    TypeUDP,
	})
	if err != nil {
		return 0, err
	}

	var lastErr error
	for _, c := range cands {
		n, err := s.sys.sendTo(h, buf, c.Addr)
		if err == nil {
			s.logger.TraceMsg("sendto %s %s: %dB", h, c.Addr, n)
			return n, nil
		}
		s.logger.VerboseMsg("sendto %s %s: %s", h, c.Addr, err)
		lastErr = err
	}

	return 0, newError(ErrSend, "sendto", lastErr)
}

// RecvFrom receives one datagram into buf and returns its size and the
// sender's numeric host and port. Names are never looked up in reverse.
// A datagram larger than buf is truncated.
func (s *Stack) RecvFrom(h Handle, buf []byte) (n int, host, service string, err error) {
	n, peer, err := s.sys.recvFrom(h, buf)
	if err != nil {
		return 0, "", "", newError(ErrReceive, "recvfrom", err)
	}

	ap, err := peer.addrPort()
	if err != nil {
		return 0, "", "", newError(ErrResolution, "getnameinfo", err)
	}

	host, service = ap.Addr().String(), strconv.Itoa(int(ap.Port()))
	s.logger.TraceMsg("recvfrom %s %s: %dB", h, ap, n)
	return n, host, service, nil
}

// LocalAddr returns the numeric host and port h is bound to.
func (s *Stack) LocalAddr(h Handle) (host, service string, err error) {
	ap, err := s.sys.localAddr(h)
	if err != nil {
		return "", "", newError(ErrInvalidArgument, "getsockname", err)
	}
	return ap.Addr().String(), strconv.Itoa(int(ap.Port())), nil
}
