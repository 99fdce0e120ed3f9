package transport

import (
	"context"
	"net"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNamedPipe(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{`\\.\pipe\mpvsocket`, true},
		{`//./pipe/mpvsocket`, true},
		{`\\server\PIPE\mpv`, true},
		{`\\.\pipe\`, false},
		{`\\.\notpipe\mpv`, false},
		{`/tmp/mpvsocket`, false},
		{`C:\tmp\mpvsocket`, false},
		{`mpvsocket`, false},
		{``, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNamedPipe(tt.path))
		})
	}
}

func TestDialUnix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix sockets in temp dirs are not portable to windows")
	}

	path := filepath.Join(t.TempDir(), "mpv.sock")
	l, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer l.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := l.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, err := Dial(ctx, path)
	require.NoError(t, err)
	defer conn.Close()

	server := <-accepted
	defer server.Close()

	_, err = conn.Write([]byte("{}\n"))
	require.NoError(t, err)
	buf := make([]byte, 3)
	_, err = server.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(buf))
}

func TestDialMissingSocket(t *testing.T) {
	_, err := Dial(context.Background(), filepath.Join(t.TempDir(), "missing.sock"))
	assert.Error(t, err)
}

func TestDialEmptyPath(t *testing.T) {
	_, err := Dial(context.Background(), "")
	assert.Error(t, err)
}

func TestDialPipeOutsideWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("named pipes are available")
	}
	_, err := Dial(context.Background(), `\\.\pipe\mpvsocket`)
	assert.ErrorIs(t, err, ErrNamedPipeUnsupported)
}
