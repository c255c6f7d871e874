// Package player is the top of the playback stack. A VideoPlayer owns the
// manifest, the asset download, the decoder and the pipeline, and exposes
// the small surface the render loop needs: Start, Stop, SwapNextFrame.
package player

import (
	"context"
	"fmt"

	"github.com/cyclopcam/logs"
	"github.com/holostream/holoplay/player/decode"
	"github.com/holostream/holoplay/player/fetch"
	"github.com/holostream/holoplay/player/frame"
	"github.com/holostream/holoplay/player/manifest"
	"github.com/holostream/holoplay/player/pipeline"
	"github.com/holostream/holoplay/player/stats"
)

type Config struct {
	// Base URL of the asset server. The player fetches
	// <BaseURL>/manifest/frames.json and the video file it names.
	BaseURL string

	// Ring slots. 0 means the pipeline default.
	RingSize int

	// Presentation rate override. 0 means play at the manifest's fps.
	FPS int

	// Looping override. nil means follow the manifest (which defaults to
	// looping on).
	Looping *bool
}

type VideoPlayer struct {
	Log      logs.Log
	cfg      Config
	man      *manifest.Manifest
	pipe     *pipeline.Pipeline
	playback *stats.Playback
}

// NewVideoPlayer fetches the manifest from cfg.BaseURL and builds the
// playback pipeline. The video asset itself is not downloaded here; that
// happens on the decode goroutine when Start is called.
func NewVideoPlayer(ctx context.Context, log logs.Log, cfg Config) (*VideoPlayer, error) {
	man, err := manifest.Fetch(ctx, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	p := &VideoPlayer{
		Log:      log,
		cfg:      cfg,
		man:      man,
		playback: stats.NewPlayback(),
	}
	p.pipe = pipeline.NewPipeline(log, p.openDecoder, p.pipelineConfig(man))
	log.Infof("Player ready: %vx%v @ %v fps, file %v, looping %v",
		man.Width, man.Height, p.pipe.FPS(), man.File, p.pipe.Looping())
	return p, nil
}

func (p *VideoPlayer) pipelineConfig(man *manifest.Manifest) pipeline.Config {
	fps := man.FPS
	if p.cfg.FPS > 0 {
		fps = p.cfg.FPS
	}
	looping := man.LoopingOrDefault()
	if p.cfg.Looping != nil {
		looping = *p.cfg.Looping
	}
	return pipeline.Config{
		RingSize: p.cfg.RingSize,
		FPS:      fps,
		Looping:  looping,
		Playback: p.playback,
	}
}

// openDecoder runs on the decode goroutine, once per Start. It downloads
// the asset named by the manifest and opens a decoder for it.
func (p *VideoPlayer) openDecoder() (decode.Decoder, error) {
	url := p.man.VideoURL(p.cfg.BaseURL)
	blob, err := fetch.Binary(context.Background(), p.Log, url)
	if err != nil {
		return nil, err
	}
	dec, err := decode.Open(blob)
	if err != nil {
		return nil, fmt.Errorf("Failed to open %v: %w", url, err)
	}
	if err := dec.Init(); err != nil {
		dec.Close()
		return nil, fmt.Errorf("Failed to initialize decoder for %v: %w", url, err)
	}
	return dec, nil
}

// Start begins decoding in the background. Idempotent.
func (p *VideoPlayer) Start() {
	p.pipe.Start()
}

// Stop halts the decode goroutine and waits for it to exit. Idempotent, and
// safe to call on a player that was never started.
func (p *VideoPlayer) Stop() {
	p.pipe.Stop()
}

func (p *VideoPlayer) Running() bool {
	return p.pipe.Running()
}

// SwapNextFrame is the render loop's entry point. See pipeline.SwapNextFrame.
func (p *VideoPlayer) SwapNextFrame(nowSeconds float64) (*frame.Buffer, bool) {
	return p.pipe.SwapNextFrame(nowSeconds)
}

// Now returns the player's monotonic clock in seconds, for callers that
// don't have their own frame timing source.
func (p *VideoPlayer) Now() float64 {
	return p.pipe.Now()
}

func (p *VideoPlayer) SetFPS(fps int) {
	p.pipe.SetFPS(fps)
}

func (p *VideoPlayer) FPS() int {
	return p.pipe.FPS()
}

func (p *VideoPlayer) SetLooping(loop bool) {
	p.pipe.SetLooping(loop)
}

func (p *VideoPlayer) Looping() bool {
	return p.pipe.Looping()
}

// Manifest returns the manifest the player was built from (after Restart,
// the most recently fetched one).
func (p *VideoPlayer) Manifest() manifest.Manifest {
	return *p.man
}

// Playback returns the live playback counters, for the monitor endpoint.
func (p *VideoPlayer) Playback() *stats.Playback {
	return p.playback
}

func (p *VideoPlayer) Stats() stats.Summary {
	return p.playback.Snapshot()
}

// Restart re-fetches the manifest and rewinds the ring, so the next Start
// plays the server's current content from the beginning. Only legal while
// stopped.
func (p *VideoPlayer) Restart(ctx context.Context) error {
	if p.pipe.Running() {
		return fmt.Errorf("Cannot restart while playing")
	}
	man, err := manifest.Fetch(ctx, p.cfg.BaseURL)
	if err != nil {
		return err
	}
	if err := p.pipe.Reset(); err != nil {
		return err
	}
	p.man = man
	cfg := p.pipelineConfig(man)
	p.pipe.SetFPS(cfg.FPS)
	p.pipe.SetLooping(cfg.Looping)
	p.Log.Infof("Player restarted: file %v @ %v fps", man.File, cfg.FPS)
	return nil
}
