// Package manifest loads the stream manifest that the asset server exposes
// at <base>/manifest/frames.json. The manifest tells the player which video
// file to fetch and how to play it back.
package manifest

import (
	"context"
	"fmt"
	"strings"

	"github.com/holostream/holoplay/pkg/requests"
)

const manifestPath = "/manifest/frames.json"

type Manifest struct {
	File             string  `json:"file"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	FPS              int     `json:"fps"`
	DepthScaleFactor float32 `json:"depth_scale_factor"`
	// Optional; streams loop by default
	Looping *bool `json:"looping,omitempty"`
}

// Fetch downloads and parses the manifest from baseURL.
func Fetch(ctx context.Context, baseURL string) (*Manifest, error) {
	m, err := requests.GetJSON[Manifest](ctx, strings.TrimSuffix(baseURL, "/")+manifestPath)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch manifest: %w", err)
	}
	if m.File == "" {
		return nil, fmt.Errorf("Manifest has no video file")
	}
	if m.FPS < 1 {
		m.FPS = 1
	}
	return m, nil
}

// VideoURL is the absolute URL of the video asset named by the manifest.
func (m *Manifest) VideoURL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + "/frames/" + m.File
}

// LoopingOrDefault returns the looping flag, defaulting to true when the
// manifest doesn't say.
func (m *Manifest) LoopingOrDefault() bool {
	if m.Looping == nil {
		return true
	}
	return *m.Looping
}
