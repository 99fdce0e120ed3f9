// Package transport opens the local channel an mpv IPC server listens on:
// a unix domain socket, or a named pipe on windows.
package transport

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrNamedPipeUnsupported is returned for a pipe path on a platform
// without named pipes.
var ErrNamedPipeUnsupported = errors.New("named pipes are only supported on windows")

// IsNamedPipe reports whether path uses the windows pipe namespace,
// e.g. \\.\pipe\mpvsocket or //./pipe/mpvsocket.
func IsNamedPipe(path string) bool {
	p := strings.ReplaceAll(path, "/", `\`)
	if !strings.HasPrefix(p, `\\`) {
		return false
	}
	// \\<host>\pipe\<name>
	parts := strings.SplitN(p[2:], `\`, 3)
	return len(parts) == 3 && strings.EqualFold(parts[1], "pipe") && parts[0] != "" && parts[2] != ""
}

// Dial connects to the IPC server at path, choosing the backend by the
// path syntax.
func Dial(ctx context.Context, path string) (net.Conn, error) {
	if path == "" {
		return nil, errors.New("mpv ipc socket path is empty")
	}
	if IsNamedPipe(path) {
		return dialPipe(ctx, path)
	}
	return dialUnix(ctx, path)
}

func dialUnix(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}
