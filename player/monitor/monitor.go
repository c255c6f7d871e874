// Package monitor is a small debug HTTP server that exposes live playback
// statistics, for poking at a headset build from a laptop on the same
// network. It is entirely off the real-time path: the pipeline never waits
// for it.
package monitor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/gorilla/websocket"
	"github.com/holostream/holoplay/player/stats"
	"github.com/julienschmidt/httprouter"
)

// How often we push a stats message to each websocket client
const pushInterval = time.Second

// Number of stats messages we will buffer per connection before dropping,
// and how long a single write may take before we give up on the client.
const (
	sendQueueSize = 8
	writeTimeout  = 10 * time.Second
)

type Monitor struct {
	log        logs.Log
	stats      *stats.Playback
	wsUpgrader websocket.Upgrader
}

func NewMonitor(log logs.Log, playback *stats.Playback) *Monitor {
	return &Monitor{
		log:   log,
		stats: playback,
	}
}

// Handler returns the monitor's routes. The caller owns the listener; tests
// mount this on httptest.
func (m *Monitor) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/api/stats", m.httpStats)
	router.GET("/api/ws", m.httpWS)
	return router
}

// ListenAndServe blocks, serving the monitor on addr.
func (m *Monitor) ListenAndServe(addr string) error {
	m.log.Infof("Playback monitor listening on %v", addr)
	return http.ListenAndServe(addr, m.Handler())
}

func (m *Monitor) httpStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m.stats.Snapshot())
}

func (m *Monitor) httpWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := m.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Errorf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Reader exists only to notice the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Snapshots go through a bounded queue: a client that stops reading gets
	// its messages dropped, and never backs anything up on our side.
	sendQueue := make(chan stats.Summary, sendQueueSize)
	go func() {
		ticker := time.NewTicker(pushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-closed:
				return
			case <-ticker.C:
				select {
				case sendQueue <- m.stats.Snapshot():
				default:
					m.log.Infof("Dropped stats message to slow websocket client %v", r.RemoteAddr)
				}
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case sum := <-sendQueue:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(sum); err != nil {
				m.log.Infof("Websocket client disconnected: %v", err)
				return
			}
		}
	}
}
