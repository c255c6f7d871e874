package stats

import (
	"math"
	"slices"
	"time"
)

// Given a set of consecutive present intervals, estimate the average frames
// per second. We use the median interval so that a single long stall (asset
// buffering, app losing focus) doesn't drag the estimate down.
// Values below 1 FPS are real for slideshow-rate volumetric streams, so we
// don't round those to zero.
func EstimateFPS(intervals []time.Duration) float64 {
	if len(intervals) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(intervals))
	copy(sorted, intervals)
	slices.Sort(sorted)
	mid := sorted[len(sorted)/2]
	if mid == 0 {
		return 0
	}
	fps := float64(time.Second) / float64(mid)
	if fps >= 0.9 {
		// Round to 1 decimal: render-loop jitter makes finer precision noise
		return math.Round(fps*10) / 10
	}
	secondsPerFrame := 1.0 / fps
	return 1 / math.Round(secondsPerFrame)
}
