package transport

import (
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// socketBufferBytes is the send/receive buffer size requested on every
// connection socket. Frame compression means individual writes can be large
// (a whole compressed shard set); a generous buffer keeps the kernel from
// forcing extra wakeups on the writer goroutine under steady-state traffic.
const socketBufferBytes = 4 << 20

// tuneConn applies the raw-socket tuning spec.md §4.D calls for: larger
// SO_RCVBUF/SO_SNDBUF on every connection, and TCP_NODELAY specifically for
// TCP connections (Unix sockets have no Nagle algorithm to disable).
func tuneConn(conn net.Conn) error {
	sc, ok := conn.(syscallConner)
	if !ok {
		return nil
	}
	rawConn, err := sc.SyscallConn()
	if err != nil {
		return err
	}
	var ctrlErr error
	err = rawConn.Control(func(fd uintptr) {
		if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, socketBufferBytes); e != nil {
			ctrlErr = e
			return
		}
		if e := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, socketBufferBytes); e != nil {
			ctrlErr = e
			return
		}
		if _, isTCP := conn.(*net.TCPConn); isTCP {
			if e := unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); e != nil {
				ctrlErr = e
				return
			}
		}
	})
	if err != nil {
		return err
	}
	return ctrlErr
}

type syscallConner interface {
	SyscallConn() (syscall.RawConn, error)
}

// listenUnix binds a Unix domain socket, removing any stale socket file left
// behind by a prior crashed server (mirroring the teacher's "best effort
// cleanup before bind" pattern in internal/build/mount.go) and restricting
// the socket to the current user via umask 0077.
func listenUnix(path string) (net.Listener, error) {
	_ = os.Remove(path)
	old := unix.Umask(0077)
	defer unix.Umask(old)
	return net.Listen("unix", path)
}

// shutdownBothHalves issues SHUT_RDWR on the underlying file descriptor so a
// peer blocked in a read unblocks immediately on teardown (spec.md §4.D),
// rather than waiting for this process to exit and the kernel to reclaim
// the descriptor.
func shutdownBothHalves(conn net.Conn) {
	sc, ok := conn.(syscallConner)
	if !ok {
		return
	}
	rawConn, err := sc.SyscallConn()
	if err != nil {
		return
	}
	_ = rawConn.Control(func(fd uintptr) {
		_ = unix.Shutdown(int(fd), unix.SHUT_RDWR)
	})
}
