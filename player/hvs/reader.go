package hvs

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/holostream/holoplay/player/frame"
)

// Reader decodes an hvs blob held entirely in memory, one frame per call.
// It implements the pipeline's decoder contract: DecodeNextFrame returns
// io.EOF at the end of the stream, and SeekToStart rewinds for looping.
type Reader struct {
	blob       []byte
	header     Header
	pos        int
	framesRead int
	inited     bool
}

func NewReader(blob []byte) *Reader {
	return &Reader{blob: blob}
}

func (r *Reader) Init() error {
	header, err := decodeHeader(r.blob)
	if err != nil {
		return fmt.Errorf("Failed to parse hvs header: %w", err)
	}
	r.header = header
	r.pos = HeaderSize
	r.framesRead = 0
	r.inited = true
	return nil
}

func (r *Reader) Header() Header {
	return r.header
}

// DecodeNextFrame parses the next frame into buf, resizing buf's planes in
// place. Returns io.EOF once all frames have been read.
func (r *Reader) DecodeNextFrame(buf *frame.Buffer) error {
	if !r.inited {
		return fmt.Errorf("hvs reader is not initialized")
	}
	if r.framesRead >= r.header.FrameCount {
		return io.EOF
	}

	pos := r.pos
	pts, n, err := r.readPTS(pos)
	if err != nil {
		return err
	}
	pos += n

	planes := buf.Planes()
	for i := 0; i < NumPlanes; i++ {
		n, err := r.readPlane(pos, planes[i])
		if err != nil {
			return fmt.Errorf("Frame %v plane %v: %w", r.framesRead, i, err)
		}
		pos += n
	}

	buf.PTS = pts
	r.pos = pos
	r.framesRead++
	return nil
}

func (r *Reader) SeekToStart() error {
	if !r.inited {
		return fmt.Errorf("hvs reader is not initialized")
	}
	r.pos = HeaderSize
	r.framesRead = 0
	return nil
}

func (r *Reader) Close() {
	r.blob = nil
	r.inited = false
}

func (r *Reader) readPTS(pos int) (pts int64, n int, err error) {
	if pos+8 > len(r.blob) {
		return 0, 0, ErrTruncated
	}
	return int64(binary.LittleEndian.Uint64(r.blob[pos:])), 8, nil
}

// Parse one plane at pos into dst, reusing dst's storage. Returns the number
// of bytes consumed.
func (r *Reader) readPlane(pos int, dst *frame.Plane) (int, error) {
	if pos+planeHeaderSize > len(r.blob) {
		return 0, ErrTruncated
	}
	width := int(binary.LittleEndian.Uint32(r.blob[pos:]))
	height := int(binary.LittleEndian.Uint32(r.blob[pos+4:]))
	stride := int(binary.LittleEndian.Uint32(r.blob[pos+8:]))
	size := int(binary.LittleEndian.Uint32(r.blob[pos+12:]))
	if size != height*stride {
		return 0, fmt.Errorf("Plane payload size %v does not match %v rows of stride %v", size, height, stride)
	}
	pos += planeHeaderSize
	if pos+size > len(r.blob) {
		return 0, ErrTruncated
	}
	dst.Fill(r.blob[pos:pos+size], width, height, stride)
	return planeHeaderSize + size, nil
}
