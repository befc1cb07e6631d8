//go:build unix

package socket

// Handle is an open socket: a file descriptor on POSIX systems.
type Handle int

// Invalid is the handle value never used for I/O.
const Invalid Handle = -1
