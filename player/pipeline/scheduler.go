package pipeline

import (
	"time"

	"github.com/holostream/holoplay/player/frame"
)

// SwapNextFrame is the consumer side: call it once per render tick with the
// current monotonic time in seconds. It never blocks and never allocates.
//
// If the presentation schedule says a frame is due and the oldest ring slot
// is ready, it claims that slot and returns its buffer with true. The buffer
// stays valid (the producer won't touch it) until the ring wraps back to the
// same slot, i.e. until at least ringSize-1 further frames have been
// produced. Finish uploading it before then.
//
// Returns (nil, false) when no frame is due yet, or when one was due but the
// producer hasn't caught up. In the latter case the schedule has already
// advanced: the tick is dropped, not retried. Sustained under-supply thus
// skips frames rather than building a backlog, which is what a real-time
// render path wants.
func (p *Pipeline) SwapNextFrame(nowSeconds float64) (*frame.Buffer, bool) {
	fps := p.fps.Load()
	if fps < 1 {
		fps = 1
	}
	period := 1.0 / float64(fps)

	p.timingLock.Lock()
	if nowSeconds < p.nextReadTime {
		p.timingLock.Unlock()
		return nil, false
	}
	// Due. Schedule the next tick; if we fell behind by more than one
	// period, snap to now+period instead of replaying the backlog.
	p.nextReadTime += period
	if p.nextReadTime <= nowSeconds {
		p.nextReadTime = nowSeconds + period
	}
	p.timingLock.Unlock()

	r := p.readIdx.Load()
	s := &p.slots[r]
	if !s.ready.Load() {
		// Producer hasn't filled this slot yet. The schedule has already
		// advanced, so this tick is gone for good.
		if p.playback != nil {
			p.playback.TickSkipped()
		}
		return nil, false
	}

	buf := s.buffer
	// Claim: flag first, then the index. Once ready=false the producer may
	// reuse the slot, but only after writeIdx wraps around to it.
	s.ready.Store(false)
	p.readIdx.Store((r + 1) % int32(len(p.slots)))
	p.notifyWriter()
	if p.playback != nil {
		p.playback.FramePresented(time.Now())
	}
	return buf, true
}

// SetFPS changes the target presentation rate and resets the schedule to
// "due now", so a rate change never causes a catch-up burst or a long stall.
func (p *Pipeline) SetFPS(fps int) {
	p.fps.Store(int32(fps))
	p.timingLock.Lock()
	p.nextReadTime = p.clock()
	p.timingLock.Unlock()
}
