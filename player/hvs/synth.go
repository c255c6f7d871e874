package hvs

import (
	"encoding/binary"

	"github.com/holostream/holoplay/player/frame"
)

// SynthesizeFrame fills buf with a deterministic test pattern for frame
// 'index': a luma gradient that shifts each frame, flat chroma, opaque
// alpha, and a depth ramp. The pattern is cheap to verify in tests.
func SynthesizeFrame(buf *frame.Buffer, width, height, index int) {
	buf.Y.Resize(width, height, width)
	buf.U.Resize(width/2, height/2, width/2)
	buf.V.Resize(width/2, height/2, width/2)
	buf.Alpha.Resize(width, height, width)
	buf.Depth.Resize(width, height, width*2)
	buf.PTS = int64(index) * 1000000

	for y := 0; y < height; y++ {
		row := buf.Y.Row(y)
		for x := 0; x < width; x++ {
			row[x] = byte(x + y + index)
		}
	}
	for i := range buf.U.Data {
		buf.U.Data[i] = 128
	}
	for i := range buf.V.Data {
		buf.V.Data[i] = 128
	}
	for i := range buf.Alpha.Data {
		buf.Alpha.Data[i] = 255
	}
	for y := 0; y < height; y++ {
		row := buf.Depth.Data[y*buf.Depth.Stride:]
		for x := 0; x < width; x++ {
			binary.LittleEndian.PutUint16(row[x*2:], uint16(1000+x+y+index))
		}
	}
}

// Synthesize builds a complete hvs blob of frameCount synthetic frames.
func Synthesize(width, height, fps, frameCount int, depthScale float32) []byte {
	w := Writer{
		Width:      width,
		Height:     height,
		FPS:        fps,
		DepthScale: depthScale,
	}
	buf := frame.Buffer{}
	for i := 0; i < frameCount; i++ {
		SynthesizeFrame(&buf, width, height, i)
		if err := w.WriteFrame(&buf); err != nil {
			panic(err)
		}
	}
	return w.Encode()
}
