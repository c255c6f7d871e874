// Package decode defines the contract between the playback pipeline and a
// video container/codec implementation. The pipeline treats a Decoder as a
// black box: it asks for one frame at a time, and seeks back to the start
// when looping.
package decode

import (
	"errors"
	"fmt"

	"github.com/holostream/holoplay/player/frame"
	"github.com/holostream/holoplay/player/hvs"
)

var ErrUnknownContainer = errors.New("unrecognized video container")

// Decoder produces one fully decoded frame per call.
//
// DecodeNextFrame fills buf in place (planes + PTS) and returns nil, or
// returns io.EOF at the natural end of the stream. Any other error is
// unrecoverable for this decoder instance.
type Decoder interface {
	// One-time initialization. Must be called before the first DecodeNextFrame.
	Init() error
	DecodeNextFrame(buf *frame.Buffer) error
	// Seek back to the first frame of the stream (used when looping).
	SeekToStart() error
	Close()
}

// Open probes blob and returns a decoder for its container format.
// The blob is the entire video asset, already downloaded.
func Open(blob []byte) (Decoder, error) {
	if hvs.Probe(blob) {
		return hvs.NewReader(blob), nil
	}
	return nil, fmt.Errorf("%w (%v bytes)", ErrUnknownContainer, len(blob))
}
