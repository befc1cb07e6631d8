package socket

// SetTimeout bounds blocking calls on h in direction dir to millis
// milliseconds. Zero disables the timeout. A negative value is rejected with
// ErrInvalidArgument and leaves the socket untouched.
func (s *Stack) SetTimeout(h Handle, dir Direction, millis int) error {
	if millis < 0 {
		return invalidArgument("setsockopt", "negative timeout %dms", millis)
	}
	if dir != Receive && dir != Send {
		return invalidArgument("setsockopt", "unknown direction %v", dir)
	}

	if err := s.sys.setTimeout(h, dir, millis); err != nil {
		return newError(ErrOption, "setsockopt "+dir.String(), err)
	}
	s.logger.TraceMsg("setsockopt %s %s: %dms", h, dir, millis)
	return nil
}

// Timeout returns the timeout in milliseconds currently set on h.
func (s *Stack) Timeout(h Handle, dir Direction) (int, error) {
	if dir != Receive && dir != Send {
		return 0, invalidArgument("getsockopt", "unknown direction %v", dir)
	}

	ms, err := s.sys.getTimeout(h, dir)
	if err != nil {
		return 0, newError(ErrOption, "getsockopt "+dir.String(), err)
	}
	return ms, nil
}

// IsTimeout reports whether err was caused by an expired socket timeout.
func (s *Stack) IsTimeout(err error) bool {
	return err != nil && s.sys.isTimeout(err)
}
