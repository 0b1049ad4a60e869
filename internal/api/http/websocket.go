package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// LiveStream upgrades to a websocket and pushes the latest per-batch
// maxima on every refresh tick until the client goes away.
type LiveStream struct {
	Status   StatusSource
	Interval time.Duration
	Upgrader websocket.Upgrader
}

func (s *LiveStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	up := s.Upgrader
	if up.CheckOrigin == nil {
		up.CheckOrigin = func(r *http.Request) bool { return true }
	}
	ws, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	// Drain client frames so close handshakes are noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			payload := LiveResponse{Summaries: s.Status.LiveSummaries()}
			if err := ws.WriteJSON(payload); err != nil {
				return
			}
		}
	}
}
