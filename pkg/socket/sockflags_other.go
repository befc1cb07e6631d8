//go:build unix && !linux

package socket

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// sysSocket emulates SOCK_NONBLOCK and SOCK_CLOEXEC on systems that do not
// accept them in the socket type. ForkLock keeps a concurrent fork from
// inheriting the descriptor before close-on-exec is set.
func sysSocket(domain, sotype, proto int, flags Flags) (int, error) {
	syscall.ForkLock.RLock()
	fd, err := unix.Socket(domain, sotype, proto)
	if err == nil && flags&FlagCloseOnExec != 0 {
		unix.CloseOnExec(fd)
	}
	syscall.ForkLock.RUnlock()
	if err != nil {
		return -1, err
	}
	if flags&FlagNonBlock != 0 {
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fd)
			return -1, err
		}
	}
	return fd, nil
}
