package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akamensky/argparse"
	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/logs"
	"github.com/holostream/holoplay/player"
	"github.com/holostream/holoplay/player/monitor"
)

// The headless render loop ticks at roughly a VR display rate.
const tickInterval = 11 * time.Millisecond

func main() {
	parser := argparse.NewParser("holoplay", "Headless volumetric stream player")
	url := parser.String("u", "url", &argparse.Options{Help: "Base URL of the asset server", Required: true})
	fps := parser.Int("f", "fps", &argparse.Options{Help: "Override the manifest's presentation rate", Default: 0})
	loop := parser.Flag("l", "loop", &argparse.Options{Help: "Force looping on, regardless of the manifest", Default: false})
	duration := parser.Int("d", "duration", &argparse.Options{Help: "Stop after this many seconds (0 = run until interrupted)", Default: 0})
	monitorAddr := parser.String("m", "monitor", &argparse.Options{Help: "Serve playback stats on this address (eg :8089)", Default: ""})
	snapshot := parser.String("s", "snapshot", &argparse.Options{Help: "Write the first presented frame to this JPEG file", Default: ""})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg := player.Config{
		BaseURL: *url,
		FPS:     *fps,
	}
	if *loop {
		looping := true
		cfg.Looping = &looping
	}

	p, err := player.NewVideoPlayer(context.Background(), logger, cfg)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	if *monitorAddr != "" {
		mon := monitor.NewMonitor(logger, p.Playback())
		go func() {
			if err := mon.ListenAndServe(*monitorAddr); err != nil {
				logger.Errorf("Monitor server: %v", err)
			}
		}()
	}

	stopC := make(chan os.Signal, 2)
	signal.Notify(stopC, os.Interrupt, syscall.SIGTERM)

	var deadline <-chan time.Time
	if *duration > 0 {
		deadline = time.After(time.Duration(*duration) * time.Second)
	}

	p.Start()
	defer p.Stop()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	wroteSnapshot := false
	for {
		select {
		case <-ticker.C:
			frame, ok := p.SwapNextFrame(p.Now())
			if !ok {
				continue
			}
			if *snapshot != "" && !wroteSnapshot {
				wroteSnapshot = true
				if err := writeSnapshot(frame.ToCImageRGB(), *snapshot); err != nil {
					logger.Errorf("Failed to write snapshot %v: %v", *snapshot, err)
				} else {
					logger.Infof("Wrote snapshot %v (PTS %v us)", *snapshot, frame.PTS)
				}
			}
		case <-stopC:
			logger.Infof("Interrupted")
			printSummary(logger, p)
			return
		case <-deadline:
			printSummary(logger, p)
			return
		}
	}
}

func writeSnapshot(img *cimg.Image, path string) error {
	return img.WriteJPEG(path, cimg.MakeCompressParams(cimg.Sampling420, 90, 0), 0644)
}

func printSummary(logger logs.Log, p *player.VideoPlayer) {
	s := p.Stats()
	logger.Infof("Presented %v frames, skipped %v ticks, measured %.1f fps",
		s.FramesPresented, s.TicksSkipped, s.MeasuredFPS)
}
