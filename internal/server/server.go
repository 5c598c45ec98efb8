// Package server exposes a world over a WebSocket chunk protocol.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/overworld/internal/chunkcache"
	"github.com/lawnchairsociety/overworld/internal/config"
	"github.com/lawnchairsociety/overworld/internal/logger"
	"github.com/lawnchairsociety/overworld/internal/snapshot"
	"github.com/lawnchairsociety/overworld/internal/terrain"
	"github.com/lawnchairsociety/overworld/internal/world"
)

// Server serves chunks of one world to WebSocket clients.
type Server struct {
	// mu serializes all access to world; the generator is not safe for
	// concurrent use
	mu    sync.Mutex
	world *world.World

	cfg         config.WebSocketConfig
	connLimiter *ConnLimiter
	httpServer  *http.Server
	startTime   time.Time

	shutdownOnce sync.Once
}

// New creates a server for w. Call ListenAndServe to start it.
func New(w *world.World, ws config.WebSocketConfig, conns config.ConnectionsConfig) *Server {
	s := &Server{
		world:       w,
		cfg:         ws,
		connLimiter: NewConnLimiter(conns),
		startTime:   time.Now(),
	}
	s.httpServer = &http.Server{
		Addr:              ws.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes: /ws for the chunk protocol and
// /healthz for service stats.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	logger.Info("Chunk service listening", "address", s.cfg.Address)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		logger.Info("Chunk service shutting down")
		err = s.httpServer.Shutdown(ctx)
	})
	return err
}

// Snapshot captures the currently cached chunks of the world.
func (s *Server) Snapshot(worldID string) (snapshot.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot.Capture(s.world, worldID, s.world.CachedChunks())
}

// Uptime returns how long the server has been running.
func (s *Server) Uptime() time.Duration {
	return time.Since(s.startTime)
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	release, ok := s.connLimiter.Acquire(ip)
	if !ok {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", ip)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		release()
		return
	}

	go func() {
		defer release()
		s.serveClient(NewClient(conn, s.cfg.MaxMessageSize))
	}()
}

// serveClient answers requests until the client goes away.
func (s *Server) serveClient(client *Client) {
	defer client.Close()
	logger.Debug("Client connected", "remote_addr", client.RemoteAddr())

	for {
		req, err := client.ReadRequest()
		if err != nil {
			var bad *BadRequestError
			if errors.As(err, &bad) {
				if err := client.Send(errorMessage(bad.Error())); err != nil {
					return
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warning("Client read failed", "remote_addr", client.RemoteAddr(), "error", err)
			}
			logger.Debug("Client disconnected", "remote_addr", client.RemoteAddr())
			return
		}

		if err := client.Send(s.Handle(req)); err != nil {
			logger.Debug("Client write failed", "remote_addr", client.RemoteAddr(), "error", err)
			return
		}
	}
}

// Handle answers a single request. Failures come back as an ErrorMessage.
func (s *Server) Handle(req Request) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Type {
	case RequestChunk:
		return s.chunkMessage(req)
	case RequestCell:
		return s.cellMessage(req)
	case RequestSettlements:
		list := s.world.Settlements()
		msg := SettlementsMessage{Type: RequestSettlements, Settlements: make([]snapshot.SettlementV1, 0, len(list))}
		for _, st := range list {
			msg.Settlements = append(msg.Settlements, snapshot.SettlementFrom(st))
		}
		return msg
	case RequestProperties:
		return PropertiesMessage{Type: RequestProperties, Properties: terrain.PropertyTable()}
	default:
		return errorMessage(fmt.Sprintf("unknown request type %q", req.Type))
	}
}

func (s *Server) chunkMessage(req Request) any {
	chunk, err := s.world.GenerateOrFetchChunk(req.X, req.Y)
	if err != nil {
		return errorMessage(err.Error())
	}

	msg := ChunkMessage{
		Type:       RequestChunk,
		X:          req.X,
		Y:          req.Y,
		Width:      chunk.Grid.Width(),
		Height:     chunk.Grid.Height(),
		Rows:       chunk.Grid.Rows(),
		Settlement: chunk.IsSettlement(),
	}
	if chunk.Settlement != nil {
		msg.Name = chunk.Settlement.Name
	}
	for _, b := range chunk.Buildings() {
		msg.Buildings = append(msg.Buildings, snapshot.BuildingFrom(b))
	}
	return msg
}

func (s *Server) cellMessage(req Request) any {
	chunk, err := s.world.GenerateOrFetchChunk(req.X, req.Y)
	if err != nil {
		return errorMessage(err.Error())
	}
	if !chunk.Grid.InBounds(req.LX, req.LY) {
		return errorMessage(fmt.Sprintf("cell (%d,%d) is outside the %dx%d chunk",
			req.LX, req.LY, chunk.Grid.Width(), chunk.Grid.Height()))
	}

	msg := CellMessage{
		Type:       RequestCell,
		X:          req.X,
		Y:          req.Y,
		LX:         req.LX,
		LY:         req.LY,
		Cell:       chunk.Grid.At(req.LX, req.LY).String(),
		Properties: chunk.PropertiesAt(req.LX, req.LY),
	}
	if kind, ok := chunk.InteractionAt(req.LX, req.LY); ok {
		msg.Interaction = kind.String()
	}
	return msg
}

// Health is the /healthz response body.
type Health struct {
	Status        string           `json:"status"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Seed          int64            `json:"seed"`
	Cache         chunkcache.Stats `json:"cache"`
	Connections   ConnStats        `json:"connections"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	h := Health{
		Status:        "ok",
		UptimeSeconds: int64(s.Uptime().Seconds()),
		Seed:          s.world.Seed(),
		Cache:         s.world.CacheStats(),
		Connections:   s.connLimiter.Stats(),
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h); err != nil {
		logger.Error("Failed to write health response", "error", err)
	}
}
