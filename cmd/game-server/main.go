package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"

	"coup-table/internal/config"
	"coup-table/internal/game"
	"coup-table/internal/logging"
	"coup-table/internal/notify"
	"coup-table/internal/store"
	"coup-table/internal/table"
	"coup-table/internal/ws"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		st       *store.Store
		recorder table.Recorder
	)
	if cfg.Server.PostgresDSN != "" {
		st, err = store.New(cfg.Server.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		defer st.Close()
		if err := st.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		recorder = store.NewRecorder(st)
	} else {
		log.Warn().Msg("POSTGRES_DSN not set, matches will not be recorded")
	}

	notifyCfg, err := notify.ConfigFromServer(cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Msg("notify config invalid")
	}
	if notifyCfg.Enabled {
		notifier := notify.New(notifyCfg)
		notifier.Start(ctx)
		recorder = table.JoinRecorders(recorder, notifier)
		log.Info().Int("targets", len(notifyCfg.Targets)).Msg("match notifications enabled")
	}

	manager := table.NewManager(table.ManagerConfig{
		MaxTables: cfg.Server.MaxTables,
		TableTTL:  cfg.Server.TableTTL,
		Defaults: game.Options{
			RoleSet:        cfg.Server.DefaultRoleSet,
			AllowObservers: cfg.Server.AllowObservers,
			MaxPlayers:     cfg.Server.MaxPlayers,
		},
		NewID:    store.NewID,
		Recorder: recorder,
	})
	defer manager.Close()
	manager.StartJanitor(ctx, cfg.Server.JanitorInterval)

	deps := routerDeps{manager: manager, ws: ws.NewServer(manager)}
	if st != nil {
		deps.matches = st
	}
	r := newRouter(deps)
	logRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped")
		return
	}
	log.Info().Msg("server shut down")
}
