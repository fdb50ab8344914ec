// Package main provides the game server binary: it loads content, wires the
// game subsystems together, and serves players over the websocket gateway.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/undercroft-game/undercroft/internal/config"
	"github.com/undercroft-game/undercroft/internal/game/archetype"
	"github.com/undercroft-game/undercroft/internal/game/chance"
	"github.com/undercroft-game/undercroft/internal/game/floor"
	"github.com/undercroft-game/undercroft/internal/game/item"
	"github.com/undercroft-game/undercroft/internal/game/loot"
	"github.com/undercroft-game/undercroft/internal/game/session"
	"github.com/undercroft-game/undercroft/internal/game/world"
	"github.com/undercroft-game/undercroft/internal/gateway"
	"github.com/undercroft-game/undercroft/internal/observability"
	"github.com/undercroft-game/undercroft/internal/scripting"
	"github.com/undercroft-game/undercroft/internal/server"
	"github.com/undercroft-game/undercroft/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	roller := chance.NewRoller(chance.NewCryptoSource())

	logger.Info("starting game server",
		zap.String("gateway_addr", cfg.Gateway.Addr()),
	)

	// Load content.
	contentStart := time.Now()
	items, err := item.LoadRegistry(cfg.Game.ItemsDir)
	if err != nil {
		logger.Fatal("loading item definitions", zap.Error(err))
	}
	archetypes, err := archetype.LoadRegistry(cfg.Game.ArchetypesDir)
	if err != nil {
		logger.Fatal("loading archetypes", zap.Error(err))
	}
	zones, err := world.LoadZonesFromDir(cfg.Game.ZonesDir)
	if err != nil {
		logger.Fatal("loading zones", zap.Error(err))
	}
	worldMgr, err := world.NewManager(zones)
	if err != nil {
		logger.Fatal("creating world manager", zap.Error(err))
	}
	lootTables, err := loot.LoadTables(cfg.Game.LootDir)
	if err != nil {
		logger.Fatal("loading loot tables", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("items", len(items.All())),
		zap.Int("archetypes", len(archetypes.All())),
		zap.Int("zones", worldMgr.ZoneCount()),
		zap.Int("rooms", worldMgr.RoomCount()),
		zap.Int("loot_tables", len(lootTables)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	// Initialise scripting for item on_use hooks.
	var scriptMgr *scripting.Manager
	if cfg.Game.ScriptsDir != "" {
		scriptStart := time.Now()
		scriptMgr = scripting.NewManager(roller, logger)
		if err := scriptMgr.Load(cfg.Game.ScriptsDir, cfg.Game.ScriptInstructionLimit); err != nil {
			logger.Fatal("loading item scripts", zap.Error(err))
		}
		defer scriptMgr.Close()
		logger.Info("scripting engine initialized",
			zap.String("dir", cfg.Game.ScriptsDir),
			zap.Duration("elapsed", time.Since(scriptStart)),
		)
	}

	sessMgr := session.NewManager()
	floorMgr := floor.NewManager()

	deps := gateway.Deps{
		Sessions:        sessMgr,
		World:           worldMgr,
		Floor:           floorMgr,
		Items:           items,
		Archetypes:      archetypes,
		Scripts:         scriptMgr,
		Loot:            lootTables,
		Roller:          roller,
		StorageCapacity: cfg.Game.StorageCapacity,
	}

	lifecycle := server.NewLifecycle(logger, cfg.Server.ShutdownTimeout)

	// Optional persistence: skipped entirely when no database host is
	// configured, so the server can run content-only.
	if cfg.Database.Enabled() {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)

		charRepo := postgres.NewCharacterRepository(pool.DB())
		deps.PersistLocation = charRepo.UpdateLocation

		lifecycle.Add(&server.FuncService{
			ServiceName: "postgres",
			StartFn: func(ctx context.Context) error {
				go func() {
					ticker := time.NewTicker(30 * time.Second)
					defer ticker.Stop()
					for {
						select {
						case <-ticker.C:
							if err := pool.Health(ctx, 5*time.Second); err != nil {
								logger.Warn("database health check failed", zap.Error(err))
							}
						case <-ctx.Done():
							return
						}
					}
				}()
				return nil
			},
			StopFn: func(ctx context.Context) error {
				pool.Close()
				return nil
			},
		})
	}

	gw := gateway.NewService(cfg.Gateway, deps, logger)
	if scriptMgr != nil {
		scriptMgr.Broadcast = func(roomID, msg string) {
			gw.Hub().BroadcastRoom(roomID, gateway.Info(msg))
		}
	}
	lifecycle.Add(gw)

	logger.Info("game server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("gateway_addr", cfg.Gateway.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
