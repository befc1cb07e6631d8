//go:build linux

package socket

import "golang.org/x/sys/unix"

func sysSocket(domain, sotype, proto int, flags Flags) (int, error) {
	if flags&FlagNonBlock != 0 {
		sotype |= unix.SOCK_NONBLOCK
	}
	if flags&FlagCloseOnExec != 0 {
		sotype |= unix.SOCK_CLOEXEC
	}
	return unix.Socket(domain, sotype, proto)
}
