// Package pipeline is the heart of the player: a single-producer
// single-consumer ring of pre-allocated frame buffers, filled by a
// background decode goroutine and drained by the render loop at a paced
// presentation rate.
//
// Exactly two goroutines touch the ring: the producer (started by Start)
// advances writeIdx, and the consumer (SwapNextFrame, called from the render
// loop) advances readIdx. Each slot's ready flag is the only hand-off gate
// between them: ready=false means the producer owns the slot's buffer,
// ready=true means the consumer does. There is no lock on this path.
package pipeline

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/holostream/holoplay/player/decode"
	"github.com/holostream/holoplay/player/frame"
	"github.com/holostream/holoplay/player/stats"
)

// DefaultRingSize is the number of frame slots when Config doesn't say.
const DefaultRingSize = 8

// How long the producer sleeps when the ring is full, before re-checking
// free slots and the stop signal.
const writerWaitInterval = 10 * time.Millisecond

// OpenDecoderFunc is called once, on the decode goroutine, when the producer
// starts. It performs whatever slow work is needed (downloading the asset,
// probing the container) and returns an initialized decoder.
type OpenDecoderFunc func() (decode.Decoder, error)

type Config struct {
	RingSize int  // Number of ring slots. 0 means DefaultRingSize.
	FPS      int  // Target presentation rate. Values below 1 are treated as 1.
	Looping  bool // Seek back to the start at end of stream

	// Optional. When set, the consumer reports presented frames and skipped
	// ticks here. Off the slot hand-off path, so it adds no synchronization
	// between producer and consumer.
	Playback *stats.Playback
}

type slot struct {
	buffer *frame.Buffer // aliases the pool entry with the same index, forever
	ready  atomic.Bool
}

type Pipeline struct {
	log  logs.Log
	open OpenDecoderFunc

	pool     *frame.Pool
	slots    []slot
	writeIdx atomic.Int32 // advanced only by the producer
	readIdx  atomic.Int32 // advanced only by the consumer

	fps     atomic.Int32
	looping atomic.Bool
	running atomic.Bool

	// Wakes the producer when the consumer frees a slot. Buffered, so the
	// consumer's notify never blocks.
	wake chan struct{}

	// Serializes Start/Stop/Reset. Never taken on the tick path.
	ctrlLock sync.Mutex
	stopC    chan struct{}
	wg       sync.WaitGroup

	// Playback schedule. Guarded by timingLock, which is shared only between
	// the consumer tick and rate changes.
	timingLock   sync.Mutex
	nextReadTime float64

	playback *stats.Playback // optional, may be nil

	clock func() float64 // monotonic seconds; replaceable in tests
}

func NewPipeline(log logs.Log, open OpenDecoderFunc, cfg Config) *Pipeline {
	ringSize := cfg.RingSize
	if ringSize == 0 {
		ringSize = DefaultRingSize
	}
	if ringSize < 2 {
		// One slot is always kept empty, so a 1-slot ring can never hold a frame
		ringSize = 2
	}
	p := &Pipeline{
		log:   log,
		open:  open,
		pool:  frame.NewPool(ringSize),
		slots: make([]slot, ringSize),
		wake:  make(chan struct{}, 1),
		clock: monotonicSeconds,
	}
	for i := range p.slots {
		p.slots[i].buffer = p.pool.Get(i)
	}
	p.playback = cfg.Playback
	p.fps.Store(int32(cfg.FPS))
	p.looping.Store(cfg.Looping)
	return p
}

// Start spawns the decode goroutine. Idempotent: calling Start while already
// running is a no-op.
func (p *Pipeline) Start() {
	p.ctrlLock.Lock()
	defer p.ctrlLock.Unlock()
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	p.stopC = make(chan struct{})
	p.wg.Add(1)
	go p.writerLoop(p.stopC)
}

// Stop signals the decode goroutine and waits for it to exit. Safe to call
// if the pipeline was never started, already stopped, or stopped itself at
// end of stream. The producer observes the signal within one wait interval
// plus at most one in-flight decode.
func (p *Pipeline) Stop() {
	p.ctrlLock.Lock()
	defer p.ctrlLock.Unlock()
	if p.running.CompareAndSwap(true, false) {
		close(p.stopC)
	}
	p.wg.Wait()
}

// Running reports whether the producer is (still) active. It becomes false
// on Stop, at a non-looping end of stream, or after a fatal decode error.
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// Reset rewinds the ring to its initial state: indices at zero, no slot
// ready, schedule due immediately. Only legal while the producer is stopped;
// the manifest-reload path uses this before restarting.
func (p *Pipeline) Reset() error {
	p.ctrlLock.Lock()
	defer p.ctrlLock.Unlock()
	if p.running.Load() {
		return fmt.Errorf("Cannot reset the pipeline while the decoder is running")
	}
	p.wg.Wait()
	for i := range p.slots {
		p.slots[i].ready.Store(false)
	}
	p.writeIdx.Store(0)
	p.readIdx.Store(0)
	p.timingLock.Lock()
	p.nextReadTime = p.clock()
	p.timingLock.Unlock()
	return nil
}

// SetLooping changes the end-of-stream behavior. The producer consults the
// flag only when the decoder reports end of stream.
func (p *Pipeline) SetLooping(loop bool) {
	p.looping.Store(loop)
}

func (p *Pipeline) Looping() bool {
	return p.looping.Load()
}

func (p *Pipeline) FPS() int {
	return int(p.fps.Load())
}

// RingSize returns the fixed slot count.
func (p *Pipeline) RingSize() int {
	return len(p.slots)
}

// Now returns the pipeline's monotonic clock, in seconds. Pass this (or any
// monotonic seconds value from the same epoch) to SwapNextFrame.
func (p *Pipeline) Now() float64 {
	return p.clock()
}

var processStart = time.Now()

func monotonicSeconds() float64 {
	return time.Since(processStart).Seconds()
}
