package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/gorilla/websocket"
	"github.com/holostream/holoplay/player/stats"
	"github.com/stretchr/testify/require"
)

func TestStatsEndpoint(t *testing.T) {
	playback := stats.NewPlayback()
	base := time.Now()
	playback.FramePresented(base)
	playback.FramePresented(base.Add(100 * time.Millisecond))
	playback.TickSkipped()

	m := NewMonitor(logs.NewTestingLog(t), playback)
	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var sum stats.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sum))
	require.Equal(t, int64(2), sum.FramesPresented)
	require.Equal(t, int64(1), sum.TicksSkipped)
}

func TestWebsocketPush(t *testing.T) {
	playback := stats.NewPlayback()
	playback.FramePresented(time.Now())

	m := NewMonitor(logs.NewTestingLog(t), playback)
	server := httptest.NewServer(m.Handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var sum stats.Summary
	require.NoError(t, conn.ReadJSON(&sum))
	require.Equal(t, int64(1), sum.FramesPresented)

	// Later pushes flow through the send queue and see updated counters
	playback.DecodeStalled()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, conn.ReadJSON(&sum))
	require.Equal(t, int64(1), sum.DecodeStalls)
}
