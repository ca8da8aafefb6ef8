package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"eventInvite/cmd/buildCFG"
	"eventInvite/internal/api/api"
	"eventInvite/internal/auth"
	"eventInvite/internal/catalog"
	rabbitReader "eventInvite/internal/consumerWorker"
	"eventInvite/internal/dto"
	"eventInvite/internal/invite"
	"eventInvite/internal/mailer"
	"eventInvite/internal/model"
	"eventInvite/internal/rabbit"
	"eventInvite/internal/repo"
	"eventInvite/internal/service"
	"eventInvite/internal/storage"
	"eventInvite/internal/whatsapp"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	migrateDown := flag.Bool("migrate-down", false, "roll back all migrations and exit")
	flag.Parse()

	zlog.Init()
	log := zlog.Logger

	envFile := ""
	if _, err := os.Stat(".env"); err == nil {
		envFile = ".env"
	}
	cfg := config.New()
	if err := cfg.Load(*configPath, envFile, ""); err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)

	masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build DB config")
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
	if err != nil {
		log.Fatal().Msgf("failed to connect to DB: %v", err)
	}
	if err := db.Master.Ping(); err != nil {
		log.Fatal().Msgf("DB ping failed: %v", err)
	}
	log.Info().Msg("Database connected successfully")

	repository, err := repo.NewRepository(db, &log)
	if err != nil {
		log.Fatal().Msgf("failed to initialize repository: %v", err)
	}
	migrationPath, err := filepath.Abs(serverCfg.Migrations)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot resolve migrations directory")
	}
	if *migrateDown {
		if err := repository.MigrateDown(migrationPath); err != nil {
			log.Fatal().Msgf("failed to rollback migrations: %v", err)
		}
		log.Info().Msg("Migrations rolled back successfully")
		return
	}
	if err := repository.MigrateUp(migrationPath); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("Migrations applied successfully")

	rabbitCfg, reminderDelay, err := buildCFG.BuildRabbitConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RabbitMQ config")
	}
	rmq, err := rabbit.NewRabbit(rabbitCfg)
	if err != nil {
		log.Fatal().Msgf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rmq.Close()

	authCfg, err := buildCFG.BuildAuthConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load auth config")
	}
	authManager := auth.NewManager(repository, authCfg.JWTSecret, authCfg.SessionTTL)

	storageCfg := buildCFG.BuildStorageConfig(cfg, serverCfg)
	bucket, err := storage.NewFSBucket(storageCfg.Dir, storageCfg.Bucket, storageCfg.PublicURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage bucket")
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	catalogStore, err := catalog.NewStore(buildCFG.BuildCatalogPath(cfg), &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load design catalog")
	}
	if err := catalogStore.Watch(workerCtx); err != nil {
		log.Warn().Err(err).Msg("catalog hot reload disabled")
	}

	mail := mailer.New(buildCFG.BuildMailerConfig(cfg, &log), &log)

	// Sign-ups get a welcome mail through the queue; every session change is logged.
	unsubscribe := authManager.Subscribe(func(ev auth.Event) {
		log.Info().Str("event", string(ev.Type)).Str("organizer_id", ev.OrganizerID).Msg("auth state changed")
		if ev.Type == auth.UserCreated {
			if err := rabbit.PublishJSON(workerCtx, rmq, dto.JobMessage{Kind: dto.JobWelcome, OrganizerID: ev.OrganizerID, Email: ev.Email}, 0); err != nil {
				log.Error().Err(err).Msg("failed to queue welcome email")
			}
		}
	})
	defer unsubscribe()

	var (
		chat     rabbitReader.TextSender
		direct   service.ImageSender
		waClient *whatsapp.Client
	)
	waCfg := buildCFG.BuildWhatsAppConfig(cfg)
	if waCfg.Enabled {
		waClient, err = whatsapp.NewClient(workerCtx, waCfg.Config, &log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create WhatsApp client")
		}
		replies := whatsapp.NewReplyHandler(repository, waClient, &log, func(g *model.InvitedGuest) {
			if err := rabbit.PublishJSON(workerCtx, rmq, dto.JobMessage{Kind: dto.JobRSVPAnswered, EventID: g.EventID, GuestID: g.ID, OrganizerID: g.OrganizerID}, 0); err != nil {
				log.Error().Err(err).Msg("failed to queue organizer notification")
			}
		})
		waClient.OnIncoming(replies.Handle)
		if err := waClient.Connect(workerCtx); err != nil {
			log.Fatal().Err(err).Msg("failed to connect WhatsApp client")
		}
		chat, direct = waClient, waClient
		log.Info().Msg("WhatsApp client connected")
	}

	reader := rabbitReader.NewReader(rmq, repository, mail, chat, serverCfg.PublicBaseURL, &log)
	reader.Start(workerCtx)

	serviceInstance := service.NewService(service.Config{
		PublicBaseURL: serverCfg.PublicBaseURL,
		ReminderDelay: reminderDelay,
	}, service.Deps{
		Repo:     repository,
		Auth:     authManager,
		Bucket:   bucket,
		Catalog:  catalogStore,
		Composer: invite.NewComposer(),
		Queue:    rmq,
		WhatsApp: direct,
		Log:      &log,
	})
	app := api.NewRouters(&api.Routers{
		Service:     serviceInstance,
		Auth:        authManager,
		Log:         &log,
		Mode:        serverCfg.Mode,
		FrontendDir: serverCfg.FrontendDir,
		StorageDir:  bucket.Dir,
	})

	srv := &http.Server{
		Addr:              ":" + serverCfg.Port,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", serverCfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Msgf("Error shutting down server: %v", err)
	}

	cancelWorkers()
	reader.Stop()
	if waClient != nil {
		waClient.Disconnect()
	}

	log.Info().Msg("Shutdown complete")
}
