package frame

import (
	"encoding/binary"

	"github.com/chewxy/math32"
)

// Depth samples are stored as little-endian uint16, scaled by the manifest's
// depth_scale_factor to get meters.

// DepthAt returns the raw 16-bit depth sample at (x, y).
func (b *Buffer) DepthAt(x, y int) uint16 {
	row := b.Depth.Data[y*b.Depth.Stride:]
	return binary.LittleEndian.Uint16(row[x*2:])
}

// DepthMeters converts the sample at (x, y) to meters using the stream's
// depth scale factor.
func (b *Buffer) DepthMeters(x, y int, scale float32) float32 {
	return float32(b.DepthAt(x, y)) * scale
}

// DepthRange scans the depth plane and returns the nearest and farthest
// non-zero samples in meters. A zero sample means "no depth at this pixel"
// and is ignored. Returns (0, 0) if the plane is empty or all-zero.
func (b *Buffer) DepthRange(scale float32) (near, far float32) {
	near = math32.Inf(1)
	far = math32.Inf(-1)
	found := false
	for y := 0; y < b.Depth.Height; y++ {
		row := b.Depth.Data[y*b.Depth.Stride:]
		for x := 0; x < b.Depth.Width; x++ {
			raw := binary.LittleEndian.Uint16(row[x*2:])
			if raw == 0 {
				continue
			}
			d := float32(raw) * scale
			near = math32.Min(near, d)
			far = math32.Max(far, d)
			found = true
		}
	}
	if !found {
		return 0, 0
	}
	return near, far
}
