package socket

import "strconv"

// Valid reports whether h refers to an open socket.
func (h Handle) Valid() bool {
	return h != Invalid
}

func (h Handle) String() string {
	if !h.Valid() {
		return "invalid"
	}
	return strconv.FormatUint(uint64(h), 10)
}
