//go:build !unix

package session

import "syscall"

func setBroadcast(network, address string, conn syscall.RawConn) error {
	return nil
}
