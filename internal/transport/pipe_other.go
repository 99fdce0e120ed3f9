//go:build !windows

package transport

import (
	"context"
	"net"
)

func dialPipe(_ context.Context, _ string) (net.Conn, error) {
	return nil, ErrNamedPipeUnsupported
}
