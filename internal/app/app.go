package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/swairua/kennedynespot/cmd/migrate"
	"github.com/swairua/kennedynespot/internal/cache"
	"github.com/swairua/kennedynespot/internal/config"
	"github.com/swairua/kennedynespot/internal/folders"
	"github.com/swairua/kennedynespot/internal/library"
	"github.com/swairua/kennedynespot/internal/logger"
	"github.com/swairua/kennedynespot/internal/queue"
	"github.com/swairua/kennedynespot/internal/r2"
	"github.com/swairua/kennedynespot/internal/redisholder"
	"github.com/swairua/kennedynespot/internal/repository/storage"
	"github.com/swairua/kennedynespot/internal/transport/handler"
	"github.com/swairua/kennedynespot/internal/transport/router"
	use_case "github.com/swairua/kennedynespot/internal/use-case"
)

type App struct {
	HttpServer *http.Server
	log        *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) (*App, error) {
	ctx := context.Background()

	err := migrate.Migrate(cfg.Database.DSN, migrate.Migrations)
	if err != nil {
		return nil, err
	}

	repo, err := storage.New(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	holder, err := redisholder.Build(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	rc := holder.Get()
	catalogCache := cache.NewCache("kennedynespot:media", rc)

	r2Storage, err := r2.NewStorage(&cfg.R2, log)
	if err != nil {
		return nil, err
	}

	cleanup := queue.Init(ctx, rc, cfg.Cleanup, r2Storage, log)

	uc := use_case.New(repo, r2Storage, cleanup, catalogCache,
		cfg.R2.KeyPrefix, cfg.Upload.MaxFileSizeBytes(), log)

	fm := folders.NewManager(uc)
	lib := library.NewController(uc)

	h := handler.New(uc, fm, lib, cfg)
	r := router.NewRouter(h)

	s := &http.Server{
		Handler:      r,
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		HttpServer: s,
		log:        log,
	}, nil
}

func (a *App) Run() error {
	a.log.Info("starting server", "addr", a.HttpServer.Addr)
	return a.HttpServer.ListenAndServe()
}
