//go:build !unix

package client

import "syscall"

func reusePort(network, address string, conn syscall.RawConn) error {
	return nil
}
