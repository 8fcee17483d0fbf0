package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sightline/internal/collab"
	"sightline/internal/dispatch"
	"sightline/internal/httpapi"
	"sightline/internal/issuetracking"
	"sightline/internal/logtools"
	"sightline/internal/validation"
	"sightline/pkg/config"
	"sightline/pkg/db"
	"sightline/pkg/integrations"
	"sightline/pkg/logger"
	"sightline/pkg/providers"
	"sightline/pkg/tenants"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	pool := db.MustConnect(cfg, log)
	rdb := db.MustRedis(cfg, log)

	var (
		store integrations.Store
		prov  tenants.Provider
	)
	if pool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := tenants.EnsureSchema(ctx, pool); err != nil {
			log.Fatalw("tenant schema", "err", err)
		}
		if err := integrations.EnsureSchema(ctx, pool); err != nil {
			log.Fatalw("integrations schema", "err", err)
		}
		if seed := os.Getenv("TENANT_SEED_JSON"); seed != "" {
			if err := tenants.SeedFromEnv(ctx, pool, seed); err != nil {
				log.Warnw("tenant seed", "err", err)
			}
		}
		cancel()
		store = integrations.NewPostgresStore(pool, log)
		prov = tenants.NewPostgresProvider(pool, log)
	} else {
		store = integrations.NewMemoryStore()
		prov = tenants.NewMemoryProviderFromEnv(log)
	}

	cat := integrations.MustLoadCatalog()
	reg := providers.NewRegistry(cat, rdb, cfg.MetadataCacheTTL, log)
	val := validation.New(cfg.ValidationTimeout, log)

	issues := issuetracking.New(store, reg, cat, val, log)
	logs := logtools.New(store, reg, cat, val, log)
	hooks := collab.New(store, reg, val, log)
	engine := dispatch.New(store, reg, cfg.DefaultBasePublicURL, log)

	app := httpapi.New(log, cfg, cat, store, issues, logs, hooks, engine)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.Router(prov),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("integrations service listening", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("http server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnw("shutdown", "err", err)
	}
	if pool != nil {
		pool.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Infow("bye")
}
