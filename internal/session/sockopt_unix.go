//go:build unix

package session

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// setBroadcast permits sends to the limited broadcast address.
func setBroadcast(network, address string, conn syscall.RawConn) error {
	var serr error
	err := conn.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	return serr
}
