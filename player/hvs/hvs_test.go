package hvs

import (
	"io"
	"testing"

	"github.com/holostream/holoplay/player/frame"
	"github.com/stretchr/testify/require"
)

func TestReadWrite(t *testing.T) {
	blob := Synthesize(16, 8, 30, 3, 0.001)
	require.True(t, Probe(blob))

	r := NewReader(blob)
	require.NoError(t, r.Init())
	header := r.Header()
	require.Equal(t, 16, header.Width)
	require.Equal(t, 8, header.Height)
	require.Equal(t, 30, header.FPS)
	require.Equal(t, 3, header.FrameCount)
	require.InDelta(t, 0.001, header.DepthScale, 1e-9)

	// Decode into the same buffer repeatedly; steady state must not grow it
	buf := frame.Buffer{}
	for i := 0; i < 3; i++ {
		require.NoError(t, r.DecodeNextFrame(&buf))
		require.Equal(t, int64(i)*1000000, buf.PTS)
		require.Equal(t, 16, buf.Width())
		require.Equal(t, byte(i), buf.Y.Row(0)[0])
		require.Equal(t, uint16(1000+i), buf.DepthAt(0, 0))
	}
	require.ErrorIs(t, r.DecodeNextFrame(&buf), io.EOF)
	// EOF is sticky until we seek
	require.ErrorIs(t, r.DecodeNextFrame(&buf), io.EOF)

	require.NoError(t, r.SeekToStart())
	require.NoError(t, r.DecodeNextFrame(&buf))
	require.Equal(t, int64(0), buf.PTS)
}

func TestProbeRejectsGarbage(t *testing.T) {
	require.False(t, Probe(nil))
	require.False(t, Probe([]byte("avi ")))

	_, err := decodeHeader([]byte("junkjunkjunk"))
	require.ErrorIs(t, err, ErrTruncated)

	r := NewReader([]byte("not a video at all, but long enough to hold a header"))
	require.Error(t, r.Init())
}

func TestTruncatedStream(t *testing.T) {
	blob := Synthesize(16, 8, 30, 2, 0.001)
	// Chop the second frame in half
	r := NewReader(blob[:len(blob)-100])
	require.NoError(t, r.Init())
	buf := frame.Buffer{}
	require.NoError(t, r.DecodeNextFrame(&buf))
	err := r.DecodeNextFrame(&buf)
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)
}

func TestUninitializedReader(t *testing.T) {
	r := NewReader(Synthesize(4, 4, 10, 1, 1))
	buf := frame.Buffer{}
	require.Error(t, r.DecodeNextFrame(&buf))
	require.Error(t, r.SeekToStart())
}
