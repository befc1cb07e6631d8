package socket

// WriteAll sends buf over a connected socket, calling the platform send
// primitive on the unsent remainder until everything is out.
//
// It returns len(buf) and nil on success. If a send reports zero bytes the
// peer has shut the connection down: WriteAll stops and returns the count sent
// so far with ErrPeerClosed. A platform error aborts with an ErrTransfer and a
// zero count; nothing is retried.
func (s *Stack) WriteAll(h Handle, buf []byte) (int, error) {
	return s.transfer(h, buf, "send", s.sys.send)
}

// ReadAll fills buf from a connected socket, calling the platform receive
// primitive on the unread remainder until buf is full. The result contract
// is the one of WriteAll.
func (s *Stack) ReadAll(h Handle, buf []byte) (int, error) {
	return s.transfer(h, buf, "recv", s.sys.recv)
}

func (s *Stack) transfer(h Handle, buf []byte, op string, once func(Handle, []byte) (int, error)) (int, error) {
	off := 0
	for off < len(buf) {
		n, err := once(h, buf[off:])
		if err != nil {
			s.logger.ErrorMsg("%s %s: %s", op, h, err)
			return 0, newError(ErrTransfer, op, err)
		}
		if n == 0 {
			s.logger.VerboseMsg("%s %s: peer closed after %dB of %dB", op, h, off, len(buf))
			return off, ErrPeerClosed
		}
		off += n
	}

	s.logger.TraceMsg("%s %s: %dB", op, h, off)
	return off, nil
}

// Recv performs a single receive on a connected socket and returns what one
// call delivered: one datagram, or whatever stream data is available. Zero
// with a nil error means the stream peer has shut down.
func (s *Stack) Recv(h Handle, buf []byte) (int, error) {
	n, err := s.sys.recv(h, buf)
	if err != nil {
		return 0, newError(ErrReceive, "recv", err)
	}
	s.logger.TraceMsg("recv %s: %dB", h, n)
	return n, nil
}
