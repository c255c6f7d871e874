package manifest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func serveManifest(t *testing.T, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/manifest/frames.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := serveManifest(t, `{"file":"clip.hvs","width":1024,"height":768,"fps":30,"depth_scale_factor":0.0005}`)
	m, err := Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "clip.hvs", m.File)
	require.Equal(t, 1024, m.Width)
	require.Equal(t, 768, m.Height)
	require.Equal(t, 30, m.FPS)
	require.Equal(t, float32(0.0005), m.DepthScaleFactor)
	require.True(t, m.LoopingOrDefault())
	require.Equal(t, srv.URL+"/frames/clip.hvs", m.VideoURL(srv.URL))
	// Trailing slash on the base URL must not produce a double slash
	require.Equal(t, srv.URL+"/frames/clip.hvs", m.VideoURL(srv.URL+"/"))
}

func TestFetchClampsFPS(t *testing.T) {
	srv := serveManifest(t, `{"file":"clip.hvs","fps":0}`)
	m, err := Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, 1, m.FPS)
}

func TestFetchExplicitLooping(t *testing.T) {
	srv := serveManifest(t, `{"file":"clip.hvs","fps":30,"looping":false}`)
	m, err := Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.False(t, m.LoopingOrDefault())
}

func TestFetchRejectsEmptyFile(t *testing.T) {
	srv := serveManifest(t, `{"width":640,"height":480,"fps":30}`)
	_, err := Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestFetchBadJSON(t *testing.T) {
	srv := serveManifest(t, `{not json`)
	_, err := Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}
