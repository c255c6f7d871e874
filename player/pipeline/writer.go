package pipeline

import (
	"errors"
	"io"
	"time"
)

func stopRequested(stopC chan struct{}) bool {
	select {
	case <-stopC:
		return true
	default:
		return false
	}
}

// noteStall reports an unrecoverable producer condition to the playback
// stats, so the monitor can tell a frozen pipeline from an idle one.
func (p *Pipeline) noteStall() {
	if p.playback != nil {
		p.playback.DecodeStalled()
	}
}

// writerLoop is the producer: it opens the decoder (which typically
// downloads the asset first), then decodes frames into ring slots until
// stopped, the stream ends without looping, or the decoder fails.
//
// Errors never leave this goroutine. On any fatal condition we clear
// 'running' and return; the consumer simply stops seeing new ready frames
// and playback freezes on the last presented frame.
//
// The loop exits on its own stopC, never by re-reading the shared running
// flag: that way a Start issued right after a self-stop can never revive
// an old goroutine that hasn't returned yet.
func (p *Pipeline) writerLoop(stopC chan struct{}) {
	defer p.wg.Done()
	defer p.log.Infof("Decode goroutine exiting")
	p.log.Infof("Decode goroutine started")

	dec, err := p.open()
	if err != nil {
		p.log.Errorf("Failed to open video stream: %v", err)
		p.noteStall()
		p.running.Store(false)
		return
	}
	defer dec.Close()

	n := int32(len(p.slots))
	// Decode at most half the ring per pass, so one pass can't monopolize
	// the loop and delay the stop check for too long.
	targetFill := len(p.slots) / 2
	if targetFill < 1 {
		targetFill = 1
	}

	for !stopRequested(stopC) {
		if p.FreeSlots() == 0 {
			// Ring is full. Wait (bounded) for the consumer to free a slot.
			// The timeout keeps stop observable even if the render loop has
			// stopped calling SwapNextFrame entirely.
			select {
			case <-stopC:
			case <-p.wake:
			case <-time.After(writerWaitInterval):
			}
			continue
		}

		for i := 0; i < targetFill; i++ {
			if stopRequested(stopC) || p.FreeSlots() == 0 {
				break
			}
			w := p.writeIdx.Load()
			s := &p.slots[w]
			if s.ready.Load() {
				// FreeSlots > 0 means this slot must have been consumed.
				// If the flag disagrees, don't overwrite a frame the consumer
				// may be reading; back off and re-evaluate.
				p.log.Warnf("Ring slot %v unexpectedly ready, backing off", w)
				p.noteStall()
				time.Sleep(time.Millisecond)
				break
			}

			err := dec.DecodeNextFrame(s.buffer)
			if errors.Is(err, io.EOF) {
				if !p.looping.Load() {
					p.log.Infof("End of stream, playback complete")
					p.running.Store(false)
					return
				}
				if err := dec.SeekToStart(); err != nil {
					p.log.Errorf("Seek to start failed: %v", err)
					p.noteStall()
					p.running.Store(false)
					return
				}
				// Same slot gets the first frame of the next pass
				continue
			} else if err != nil {
				p.log.Errorf("Decode failed: %v", err)
				p.noteStall()
				p.running.Store(false)
				return
			}

			// Publish: contents first, then the index. A consumer that
			// observes ready=true is guaranteed to see the decoded planes.
			s.ready.Store(true)
			p.writeIdx.Store((w + 1) % n)
		}
	}
}
