package cmd

import (
	"go.uber.org/zap"

	"pack-mod-manager/config"
	"pack-mod-manager/db"
	"pack-mod-manager/games"
	"pack-mod-manager/loadorder"
	"pack-mod-manager/logger"
	"pack-mod-manager/mods"
	"pack-mod-manager/scanner"
	"pack-mod-manager/store"

	"github.com/spf13/cobra"
)

// session is the per-invocation application state: one game, its registry
// and load order, and the collaborators operating on them. All commands go
// through here; nothing lives in package globals.
type session struct {
	cfg      config.Config
	game     *games.Game
	registry *mods.Registry
	order    *loadorder.LoadOrder
	scanner  *scanner.Scanner
	dispatch *store.Dispatcher
}

// bootstrap handles shared initialization logic for commands.
func bootstrap(cmd *cobra.Command) *session {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	db.InitDatabase(cfg.DatabasePath)
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	game := cfg.Game()

	var dispatch *store.Dispatcher
	if !cfg.SkipEnrichment {
		client, err := store.NewClient(cfg)
		if err != nil {
			logger.Log.Fatalw("Failed to create store client", zap.Error(err))
		}
		dispatch = store.NewDispatcher(client)
	}

	secondary := cfg.SecondaryPathFor(game)

	s := &session{
		cfg:      cfg,
		game:     game,
		registry: mods.LoadRegistry(cfg.ConfigDir, game.Key),
		order:    loadorder.Load(cfg.ConfigDir, game.Key),
		dispatch: dispatch,
	}
	s.scanner = scanner.New(game, cfg.GamePath, secondary, cfg.ConfigDir, cfg.ExtractedDir(), dispatch)
	return s
}

// persist saves both documents.
func (s *session) persist() {
	if err := s.order.Save(s.cfg.ConfigDir, s.game.Key); err != nil {
		logger.Log.Fatalw("Failed to save load order", zap.Error(err))
	}
	if err := s.registry.Save(s.cfg.ConfigDir); err != nil {
		logger.Log.Fatalw("Failed to save registry", zap.Error(err))
	}
}

// refresh recomputes the load order from the current registry state and
// persists both documents.
func (s *session) refresh() {
	s.order.Update(s.registry, s.game, s.game.DataPath(s.cfg.GamePath), s.cfg.ExtractedDir())
	s.persist()
}
