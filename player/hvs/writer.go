package hvs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/holostream/holoplay/player/frame"
)

// Writer builds an hvs blob in memory. Used by tests and by the fixture
// generator; the playback client itself only reads.
type Writer struct {
	Width      int
	Height     int
	FPS        int
	DepthScale float32

	frameCount int
	body       bytes.Buffer
}

func (w *Writer) WriteFrame(buf *frame.Buffer) error {
	if buf.Width() != w.Width || buf.Height() != w.Height {
		return fmt.Errorf("Frame size %vx%v does not match stream size %vx%v", buf.Width(), buf.Height(), w.Width, w.Height)
	}
	var scratch [16]byte
	binary.LittleEndian.PutUint64(scratch[:8], uint64(buf.PTS))
	w.body.Write(scratch[:8])
	planes := buf.Planes()
	for i := 0; i < NumPlanes; i++ {
		p := planes[i]
		binary.LittleEndian.PutUint32(scratch[0:4], uint32(p.Width))
		binary.LittleEndian.PutUint32(scratch[4:8], uint32(p.Height))
		binary.LittleEndian.PutUint32(scratch[8:12], uint32(p.Stride))
		binary.LittleEndian.PutUint32(scratch[12:16], uint32(p.Height*p.Stride))
		w.body.Write(scratch[:16])
		w.body.Write(p.Data[:p.Height*p.Stride])
	}
	w.frameCount++
	return nil
}

// Encode returns the complete blob (header + all frames written so far).
func (w *Writer) Encode() []byte {
	out := make([]byte, HeaderSize+w.body.Len())
	encodeHeader(out, Header{
		Width:      w.Width,
		Height:     w.Height,
		FPS:        w.FPS,
		FrameCount: w.frameCount,
		DepthScale: w.DepthScale,
	})
	copy(out[HeaderSize:], w.body.Bytes())
	return out
}
