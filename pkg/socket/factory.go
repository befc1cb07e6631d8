package socket

import (
	"context"
	"errors"

	"netsock/pkg/format"
)

type openMode int

const (
	modeConnect openMode = iota
	modeBind
	modeListen
)

func (m openMode) kind() error {
	if m == modeConnect {
		return ErrConnect
	}
	return ErrBind
}

var errNoCandidates = errors.New("no candidates")

// open walks cands in order and returns the first socket that completes the
// transition for mode. Partial sockets are closed before moving on; only the
// last platform error is reported.
func (s *Stack) open(cands []Candidate, mode openMode, flags Flags) (Handle, error) {
	var (
		lastOp  = "socket"
		lastErr = errNoCandidates
	)

	for _, c := range cands {
		h, err := s.sys.socket(c.Family, c.Type, c.Protocol, flags)
		if err != nil {
			lastOp, lastErr = "socket", err
			continue
		}

		op, err := s.transition(h, c, mode)
		if err == nil {
			return h, nil
		}
		if cerr := s.sys.close(h); cerr != nil {
			s.logger.VerboseMsg("close %s: %s", h, cerr)
		}
		if errors.Is(err, ErrOption) {
			return Invalid, err
		}
		s.logger.VerboseMsg("%s %s: %s", op, c.Addr, err)
		lastOp, lastErr = op, err
	}

	return Invalid, newError(mode.kind(), lastOp, lastErr)
}

func (s *Stack) transition(h Handle, c Candidate, mode openMode) (string, error) {
	switch mode {
	case modeConnect:
		return "connect", s.sys.connect(h, c.Addr)
	case modeListen:
		if c.Type == TypeTCP {
			if err := s.sys.setReuseAddr(h); err != nil {
				return "setsockopt", newError(ErrOption, "setsockopt SO_REUSEADDR", err)
			}
		}
	}

	if err := s.sys.bind(h, c.Addr); err != nil {
		return "bind", err
	}
	if mode == modeListen && c.Type == TypeTCP {
		if err := s.sys.listen(h, Backlog); err != nil {
			return "listen", err
		}
	}
	return "", nil
}

// Listen resolves ep as a local endpoint and returns the first candidate
// socket that could be bound. Stream sockets get SO_REUSEADDR and are put
// into the listening state with Backlog pending connections; datagram sockets
// are only bound.
func (s *Stack) Listen(ctx context.Context, ep Endpoint) (Handle, error) {
	ep.Passive = true
	cands, err := s.resolver.Resolve(ctx, ep)
	if err != nil {
		return Invalid, err
	}

	h, err := s.open(cands, modeListen, ep.Flags)
	if err != nil {
		return Invalid, err
	}

	s.logger.VerboseMsg("Listening on %s (socket: %s)", s.describe(h, ep), h)
	return h, nil
}

// Bind resolves ep as a local endpoint and binds a socket without listening.
// It is how a datagram sender picks its local family and port.
func (s *Stack) Bind(ctx context.Context, ep Endpoint) (Handle, error) {
	ep.Passive = true
	cands, err := s.resolver.Resolve(ctx, ep)
	if err != nil {
		return Invalid, err
	}
	return s.open(cands, modeBind, ep.Flags)
}

// Connect resolves ep and returns a socket connected to the first candidate
// that accepts the connection. Datagram sockets are connected in the UDP
// sense: they get a default peer.
func (s *Stack) Connect(ctx context.Context, ep Endpoint) (Handle, error) {
	ep.Passive = false
	cands, err := s.resolver.Resolve(ctx, ep)
	if err != nil {
		return Invalid, err
	}

	h, err := s.open(cands, modeConnect, ep.Flags)
	if err != nil {
		return Invalid, err
	}

	s.logger.VerboseMsg("Connected to %s (socket: %s)", format.Addr(ep.Host, ep.Service), h)
	return h, nil
}

// Accept waits for a connection on a listening socket. The peer address is
// not captured. If a receive timeout is set on the listener, Accept fails
// with an error for which IsTimeout reports true once it expires.
func (s *Stack) Accept(listener Handle) (Handle, error) {
	h, err := s.sys.accept(listener)
	if err != nil {
		return Invalid, newError(ErrAccept, "accept", err)
	}
	s.logger.TraceMsg("accept %s: %s", listener, h)
	return h, nil
}

func (s *Stack) describe(h Handle, ep Endpoint) string {
	if ap, err := s.sys.localAddr(h); err == nil {
		return ap.String()
	}
	return format.Addr(ep.Host, ep.Service)
}
