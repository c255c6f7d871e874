package frame

import (
	"github.com/bmharper/cimg/v2"
)

// Transcode the color planes (YUV 420) to an RGB cimg.Image.
// This is a debug/snapshot path, not part of the real-time pipeline;
// the renderer uploads the raw planes to the GPU directly.
func (b *Buffer) ToCImageRGB() *cimg.Image {
	dst := cimg.NewImage(b.Width(), b.Height(), cimg.PixelFormatRGB)
	b.CopyToCImageRGB(dst)
	return dst
}

// Transcode into an existing RGB image of the same size.
func (b *Buffer) CopyToCImageRGB(dst *cimg.Image) {
	if dst.Width != b.Width() || dst.Height != b.Height() || dst.Format != cimg.PixelFormatRGB {
		panic("Destination image must be the same size as the frame, and PixelFormatRGB")
	}
	yuv420ToRGB(b.Width(), b.Height(), b.Y.Data, b.U.Data, b.V.Data, b.Y.Stride, b.U.Stride, b.V.Stride, dst.Stride, dst.Pixels)
}

// chromaRow returns the half-resolution plane's row for full-res row j,
// clamped to the last row. Odd frame heights have one more luma row than
// 2x the chroma rows, so the final luma row reuses the final chroma row.
func chromaRow(plane []byte, stride, j int) []byte {
	row := (j / 2) * stride
	if row+stride > len(plane) {
		row = len(plane) - stride
	}
	return plane[row : row+stride]
}

// Plain BT.601 full-range YUV 420 planar to RGB 24.
func yuv420ToRGB(width, height int, y, u, v []byte, yStride, uStride, vStride, dstStride int, dst []byte) {
	for j := 0; j < height; j++ {
		yRow := y[j*yStride:]
		uRow := chromaRow(u, uStride, j)
		vRow := chromaRow(v, vStride, j)
		out := dst[j*dstStride:]
		for i := 0; i < width; i++ {
			// Clamp the chroma column too, for odd frame widths
			ui := i / 2
			if ui >= len(uRow) {
				ui = len(uRow) - 1
			}
			vi := i / 2
			if vi >= len(vRow) {
				vi = len(vRow) - 1
			}
			yy := int32(yRow[i])
			cb := int32(uRow[ui]) - 128
			cr := int32(vRow[vi]) - 128
			r := yy + (91881*cr)>>16
			g := yy - (22554*cb+46802*cr)>>16
			bb := yy + (116130*cb)>>16
			out[i*3+0] = clampByte(r)
			out[i*3+1] = clampByte(g)
			out[i*3+2] = clampByte(bb)
		}
	}
}

func clampByte(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
