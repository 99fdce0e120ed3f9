package mpvipc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValue(t *testing.T) {
	s, err := decodeValue[string](json.RawMessage(`"movie.mp4"`))
	require.NoError(t, err)
	assert.Equal(t, "movie.mp4", s)

	f, err := decodeValue[float64](json.RawMessage(`12.3`))
	require.NoError(t, err)
	assert.Equal(t, 12.3, f)

	i, err := decodeValue[int64](json.RawMessage(`65539`))
	require.NoError(t, err)
	assert.Equal(t, int64(65539), i)

	b, err := decodeValue[bool](json.RawMessage(`true`))
	require.NoError(t, err)
	assert.True(t, b)

	m, err := decodeValue[map[string]any](json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, m)
}

func TestDecodeValueMismatch(t *testing.T) {
	tests := []struct {
		name   string
		decode func() error
	}{
		{"string as float", func() error { _, err := decodeValue[float64](json.RawMessage(`"abc"`)); return err }},
		{"fraction as int", func() error { _, err := decodeValue[int64](json.RawMessage(`12.5`)); return err }},
		{"negative as unsigned", func() error { _, err := decodeValue[uint64](json.RawMessage(`-1`)); return err }},
		{"number as bool", func() error { _, err := decodeValue[bool](json.RawMessage(`1`)); return err }},
		{"object as array", func() error { _, err := decodeValue[[]any](json.RawMessage(`{}`)); return err }},
		{"null as float", func() error { _, err := decodeValue[float64](json.RawMessage(`null`)); return err }},
		{"missing as string", func() error { _, err := decodeValue[string](nil); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)

			var derr *DecodeError
			require.ErrorAs(t, err, &derr)
			assert.NotEmpty(t, derr.Type)
			assert.NotEmpty(t, derr.Data)
		})
	}
}

func TestDecodeValueNullIntoNilable(t *testing.T) {
	v, err := decodeValue[any](json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, v)

	p, err := decodeValue[*float64](json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, p)

	raw, err := decodeValue[json.RawMessage](json.RawMessage(`{"x":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1}`, string(raw))
}

func TestPropertyNames(t *testing.T) {
	tests := []struct {
		p    Property
		want string
	}{
		{FilenameNoExt, "filename/no-ext"},
		{PlaybackTime, "playback-time"},
		{AVSync, "avsync"},
		{DemuxerCacheState, "demuxer-cache-state"},
		{PlaylistPos1, "playlist-pos-1"},
		{DisplayHiDPIScale, "display-hidpi-scale"},
		{MPVVersion, "mpv-version"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.p.String())
	}
}
