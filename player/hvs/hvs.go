// Package hvs implements the "holostream video segments" container: a raw
// planar video format carrying YUV 420 color, an alpha plane and a 16-bit
// depth plane per frame. It exists for locally generated assets and test
// fixtures; compressed containers are handled by other decoders behind the
// same interface.
package hvs

import (
	"encoding/binary"
	"errors"
	"math"
)

const Magic = "hvs1" // must be 4 bytes long

const (
	Version    = 1
	HeaderSize = 28
	// Each frame starts with an 8 byte pts; each plane has a 16 byte header
	planeHeaderSize = 16
	// Y, U, V, alpha, depth
	NumPlanes = 5
)

var (
	ErrBadMagic   = errors.New("not an hvs stream")
	ErrBadVersion = errors.New("unsupported hvs version")
	ErrTruncated  = errors.New("truncated hvs stream")
)

// Header is the fixed-size stream header at the start of the blob.
type Header struct {
	Width      int
	Height     int
	FPS        int
	FrameCount int
	DepthScale float32 // raw uint16 depth sample * DepthScale = meters
}

// Probe reports whether blob starts with the hvs magic.
func Probe(blob []byte) bool {
	return len(blob) >= 4 && string(blob[:4]) == Magic
}

func encodeHeader(dst []byte, h Header) {
	copy(dst[0:4], Magic)
	binary.LittleEndian.PutUint16(dst[4:6], Version)
	binary.LittleEndian.PutUint16(dst[6:8], 0)
	binary.LittleEndian.PutUint32(dst[8:12], uint32(h.Width))
	binary.LittleEndian.PutUint32(dst[12:16], uint32(h.Height))
	binary.LittleEndian.PutUint32(dst[16:20], uint32(h.FPS))
	binary.LittleEndian.PutUint32(dst[20:24], uint32(h.FrameCount))
	binary.LittleEndian.PutUint32(dst[24:28], math.Float32bits(h.DepthScale))
}

func decodeHeader(src []byte) (Header, error) {
	if len(src) < HeaderSize {
		return Header{}, ErrTruncated
	}
	if string(src[:4]) != Magic {
		return Header{}, ErrBadMagic
	}
	if binary.LittleEndian.Uint16(src[4:6]) != Version {
		return Header{}, ErrBadVersion
	}
	return Header{
		Width:      int(binary.LittleEndian.Uint32(src[8:12])),
		Height:     int(binary.LittleEndian.Uint32(src[12:16])),
		FPS:        int(binary.LittleEndian.Uint32(src[16:20])),
		FrameCount: int(binary.LittleEndian.Uint32(src[20:24])),
		DepthScale: math.Float32frombits(binary.LittleEndian.Uint32(src[24:28])),
	}, nil
}
