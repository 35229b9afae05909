// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/relabs-tech/marine_gateway/internal/logger"
	"github.com/relabs-tech/marine_gateway/internal/signalk"
)

// ClientBuffer is the number of deltas queued per websocket client before
// new ones are dropped for it.
const ClientBuffer = 32

const wsWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type wsClient struct {
	send    chan []byte
	dropped int
}

// WebStream fans JSON deltas out to websocket clients. It also keeps the
// most recent delta for plain HTTP polling.
type WebStream struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	latest  []byte
	log     *zap.Logger
}

func NewWebStream() *WebStream {
	return &WebStream{
		clients: make(map[*wsClient]struct{}),
		log:     logger.GetLogger().Named("web"),
	}
}

// Handler returns the mux serving /ws, /api/latest and static files from
// ./web.
func (s *WebStream) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/api/latest", s.serveLatest)
	mux.Handle("/", http.FileServer(http.Dir("web")))
	return mux
}

// UpdateReceived queues u for every connected client. A client whose
// buffer is full misses this delta.
func (s *WebStream) UpdateReceived(u *signalk.Update) {
	if u.Size() == 0 {
		return
	}
	payload, err := signalk.MarshalDelta(u)
	if err != nil {
		s.log.Error("delta marshal failed", zap.Error(err))
		return
	}
	s.Broadcast(payload)
}

// Broadcast queues an already encoded delta for every client.
func (s *WebStream) Broadcast(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = payload
	for c := range s.clients {
		select {
		case c.send <- payload:
		default:
			c.dropped++
		}
	}
}

// Clients returns the number of connected websocket clients.
func (s *WebStream) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *WebStream) register() *wsClient {
	c := &wsClient{send: make(chan []byte, ClientBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	return c
}

func (s *WebStream) unregister(c *wsClient) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
}

func (s *WebStream) serveLatest(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(latest); err != nil {
		s.log.Debug("latest write failed", zap.Error(err))
	}
}

func (s *WebStream) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := s.register()
	s.log.Info("client connected", zap.String("remote", r.RemoteAddr))

	// The read loop only notices the close; clients send nothing.
	go func() {
		defer s.unregister(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for payload := range c.send {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.log.Debug("client write failed", zap.Error(err))
			break
		}
	}
	s.unregister(c)
	_ = conn.Close()
	s.log.Info("client disconnected", zap.String("remote", r.RemoteAddr), zap.Int("dropped", c.dropped))
}
