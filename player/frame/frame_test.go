package frame

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlaneResizeReusesStorage(t *testing.T) {
	p := Plane{}
	p.Resize(64, 48, 64)
	require.Equal(t, 64*48, len(p.Data))

	// Shrinking must not allocate; the backing array stays put
	base := &p.Data[0]
	p.Resize(32, 24, 32)
	require.Equal(t, 32*24, len(p.Data))
	require.Same(t, base, &p.Data[0])

	// Growing back within original capacity must also reuse it
	p.Resize(64, 48, 64)
	require.Same(t, base, &p.Data[0])

	// Strides larger than width are preserved
	p.Resize(60, 48, 64)
	require.Equal(t, 64, p.Stride)
	require.Equal(t, 60, len(p.Row(0)))
}

func TestPoolIsStable(t *testing.T) {
	pool := NewPool(8)
	require.Equal(t, 8, pool.Size())
	// The same index must always yield the same buffer: ring slots alias
	// pool entries by index for the lifetime of the pipeline.
	for i := 0; i < pool.Size(); i++ {
		require.Same(t, pool.Get(i), pool.Get(i))
	}
	require.NotSame(t, pool.Get(0), pool.Get(1))
}

func TestDepthHelpers(t *testing.T) {
	b := Buffer{}
	b.Depth.Resize(4, 2, 8)
	binary.LittleEndian.PutUint16(b.Depth.Data[0:], 1000)
	binary.LittleEndian.PutUint16(b.Depth.Data[8+2*3:], 4000)

	require.Equal(t, uint16(1000), b.DepthAt(0, 0))
	require.Equal(t, uint16(4000), b.DepthAt(3, 1))
	require.InDelta(t, 1.0, b.DepthMeters(0, 0, 0.001), 1e-6)

	near, far := b.DepthRange(0.001)
	require.InDelta(t, 1.0, near, 1e-6)
	require.InDelta(t, 4.0, far, 1e-6)

	// All-zero plane has no range
	var empty Buffer
	empty.Depth.Resize(2, 2, 4)
	near, far = empty.DepthRange(0.001)
	require.Equal(t, float32(0), near)
	require.Equal(t, float32(0), far)
}

func TestToCImageRGB(t *testing.T) {
	b := Buffer{}
	b.Y.Resize(2, 2, 2)
	b.U.Resize(1, 1, 1)
	b.V.Resize(1, 1, 1)
	// Mid gray: Y=128, U=V=128
	for i := range b.Y.Data {
		b.Y.Data[i] = 128
	}
	b.U.Data[0] = 128
	b.V.Data[0] = 128

	img := b.ToCImageRGB()
	require.Equal(t, 2, img.Width)
	require.Equal(t, 2, img.Height)
	for c := 0; c < 3; c++ {
		require.Equal(t, byte(128), img.Pixels[c])
	}
}

func TestToCImageRGBOddDimensions(t *testing.T) {
	// 5x5 frame: the chroma planes are 2x2 (truncated halving), so the last
	// luma row and column have no chroma sample of their own and must reuse
	// the nearest one instead of reading past the plane.
	b := Buffer{}
	b.Y.Resize(5, 5, 5)
	b.U.Resize(2, 2, 2)
	b.V.Resize(2, 2, 2)
	for i := range b.Y.Data {
		b.Y.Data[i] = 128
	}
	for i := range b.U.Data {
		b.U.Data[i] = 128
		b.V.Data[i] = 128
	}

	img := b.ToCImageRGB()
	require.Equal(t, 5, img.Width)
	require.Equal(t, 5, img.Height)
	// Bottom-right pixel: mid gray in, mid gray out
	off := 4*img.Stride + 4*3
	for c := 0; c < 3; c++ {
		require.Equal(t, byte(128), img.Pixels[off+c])
	}
}
