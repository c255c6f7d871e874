// Package stats tracks what playback actually achieved, as opposed to what
// the schedule asked for. The render loop reports every presented frame and
// every skipped tick; the monitor and CLI read the aggregates.
package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmharper/ringbuffer"
)

// Number of recent present-intervals we keep for the measured FPS estimate
const intervalWindow = 64

type Playback struct {
	framesPresented atomic.Int64
	ticksSkipped    atomic.Int64
	decodeStalls    atomic.Int64

	lock        sync.Mutex // guards intervals and lastPresent
	intervals   ringbuffer.WeightedRingT[time.Duration]
	lastPresent time.Time
}

func NewPlayback() *Playback {
	return &Playback{
		intervals: ringbuffer.NewWeightedRingT[time.Duration](intervalWindow),
	}
}

// FramePresented records that the render loop claimed a frame at 'now'.
func (s *Playback) FramePresented(now time.Time) {
	s.framesPresented.Add(1)
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.lastPresent.IsZero() {
		interval := now.Sub(s.lastPresent)
		s.intervals.Add(1, &interval)
	}
	s.lastPresent = now
}

// TickSkipped records a due tick for which no frame was ready.
func (s *Playback) TickSkipped() {
	s.ticksSkipped.Add(1)
}

// DecodeStalled records that the producer hit a condition it cannot recover
// from (asset unreachable, bad bitstream, failed seek). A nonzero count
// distinguishes a frozen pipeline from one that is merely idle.
func (s *Playback) DecodeStalled() {
	s.decodeStalls.Add(1)
}

func (s *Playback) FramesPresented() int64 {
	return s.framesPresented.Load()
}

func (s *Playback) TicksSkipped() int64 {
	return s.ticksSkipped.Load()
}

func (s *Playback) DecodeStalls() int64 {
	return s.decodeStalls.Load()
}

// MeasuredFPS estimates the achieved presentation rate from recent
// present-intervals. Returns 0 until at least two frames have been presented.
func (s *Playback) MeasuredFPS() float64 {
	s.lock.Lock()
	n := s.intervals.Len()
	intervals := make([]time.Duration, 0, n)
	for i := 0; i < n; i++ {
		_, d, _ := s.intervals.Peek(i)
		intervals = append(intervals, *d)
	}
	s.lock.Unlock()
	return EstimateFPS(intervals)
}

type Summary struct {
	FramesPresented int64   `json:"framesPresented"`
	TicksSkipped    int64   `json:"ticksSkipped"`
	DecodeStalls    int64   `json:"decodeStalls"`
	MeasuredFPS     float64 `json:"measuredFPS"`
}

func (s *Playback) Snapshot() Summary {
	return Summary{
		FramesPresented: s.FramesPresented(),
		TicksSkipped:    s.TicksSkipped(),
		DecodeStalls:    s.DecodeStalls(),
		MeasuredFPS:     s.MeasuredFPS(),
	}
}
