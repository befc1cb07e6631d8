//go:build windows

package socket

import "golang.org/x/sys/windows"

// Handle is an open socket: a SOCKET on Windows.
type Handle windows.Handle

// Invalid is the handle value never used for I/O (INVALID_SOCKET).
const Invalid = Handle(windows.InvalidHandle)
