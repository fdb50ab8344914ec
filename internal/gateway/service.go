package gateway

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/undercroft-game/undercroft/internal/config"
	"github.com/undercroft-game/undercroft/internal/game/archetype"
	"github.com/undercroft-game/undercroft/internal/game/floor"
	"github.com/undercroft-game/undercroft/internal/game/item"
	"github.com/undercroft-game/undercroft/internal/game/loot"
	"github.com/undercroft-game/undercroft/internal/game/session"
	"github.com/undercroft-game/undercroft/internal/game/world"
	"github.com/undercroft-game/undercroft/internal/scripting"
)

// Deps bundles the game subsystems the gateway orchestrates. Scripts, Loot,
// and PersistLocation are optional; everything else must be set.
type Deps struct {
	Sessions   *session.Manager
	World      *world.Manager
	Floor      *floor.Manager
	Items      *item.Registry
	Archetypes *archetype.Registry

	// Scripts runs item on_use hooks. Nil disables the use command.
	Scripts *scripting.Manager
	// Loot maps table IDs to drop tables for the search command.
	Loot map[string]*loot.Table
	// Roller drives loot generation. Required when Loot is set.
	Roller loot.Roller

	// PersistLocation, when set, is called on disconnect to save the
	// character's last room. Errors are logged, never surfaced to the client.
	PersistLocation func(ctx context.Context, characterID int64, roomID string) error

	// StorageCapacity is the inventory size granted to new characters.
	StorageCapacity int
}

// Service is the websocket front door. It implements server.Service.
type Service struct {
	cfg    config.GatewayConfig
	deps   Deps
	hub    *Hub
	logger *zap.Logger

	srv *http.Server
	ln  net.Listener
}

// NewService creates the gateway service.
//
// Precondition: deps.Sessions, deps.World, deps.Floor, deps.Items, and
// deps.Archetypes must be non-nil.
func NewService(cfg config.GatewayConfig, deps Deps, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		cfg:    cfg,
		deps:   deps,
		hub:    NewHub(deps.Sessions, logger),
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.srv = &http.Server{Handler: mux}
	return s
}

// Hub exposes the hub for wiring broadcast callbacks (script narration).
func (s *Service) Hub() *Hub {
	return s.hub
}

// Name identifies the service in lifecycle logs.
func (s *Service) Name() string {
	return "gateway"
}

// Start binds the listener and begins serving websocket upgrades.
//
// Postcondition: Returns nil once the listener is bound; serving continues
// in the background until Stop.
func (s *Service) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("gateway: binding %s: %w", s.cfg.Addr(), err)
	}
	s.ln = ln
	s.logger.Info("gateway: listening", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("gateway: serve failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the HTTP server down, closing all client connections.
func (s *Service) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Addr returns the bound listener address. Empty before Start. Tests bind
// port 0 and read the real port back from here.
func (s *Service) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *Service) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (s *Service) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("gateway: upgrade failed", zap.Error(err))
		return
	}
	s.serveConn(conn)
}
