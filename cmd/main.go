package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"eventplanner/cmd/buildCFG"
	"eventplanner/internal/api/api"
	"eventplanner/internal/category"
	mailReader "eventplanner/internal/consumerWorker"
	"eventplanner/internal/mailer"
	"eventplanner/internal/notify"
	"eventplanner/internal/rabbit"
	"eventplanner/internal/repo"
	"eventplanner/internal/service"
	"eventplanner/internal/settings"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	envPath := flag.String("env", "", "optional .env file")
	migrateDown := flag.Bool("migrate-down", false, "roll back all migrations and exit")
	flag.Parse()

	zlog.Init()
	log := zlog.Logger

	cfg := config.New()
	if err := cfg.Load(*configPath, *envPath, "EVENT_PLANNER"); err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)
	appCfg, err := buildCFG.BuildAppConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build app config")
	}

	masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build DB config")
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
	if err != nil {
		log.Fatal().Msgf("failed to connect to DB: %v", err)
	}
	log.Info().Msg("Database connected successfully")

	repository, err := repo.NewRepository(db, &log)
	if err != nil {
		log.Fatal().Msgf("failed to initialize repository: %v", err)
	}

	if *migrateDown {
		if err := repository.MigrateDown(appCfg.MigrationsDir); err != nil {
			log.Fatal().Msgf("failed to rollback migrations: %v", err)
		}
		log.Info().Msg("Migrations rolled back successfully")
		return
	}
	if err := repository.MigrateUp(appCfg.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	catalog, err := category.Load(appCfg.CategoriesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load categories")
	}

	redisCfg := buildCFG.BuildRedisConfig(cfg)
	redisClient := settings.NewRedisClient(redisCfg.Addr, redisCfg.Password, redisCfg.DB)
	defer redisClient.Close()
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	pingCancel()
	settingsStore := settings.NewRedisStore(redisClient, redisCfg.SettingsKey)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	sender, stopMail, err := buildSender(workerCtx, cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up mail delivery")
	}

	notifier := notify.NewService(sender, settingsStore, appCfg.Location, &log)
	serviceInstance := service.NewService(repository, catalog, settingsStore, notifier, appCfg.Location, &log)
	app := api.NewRouters(&api.Routers{
		Service:     serviceInstance,
		AdminToken:  serverCfg.AdminToken,
		Mode:        serverCfg.Mode,
		Log:         &log,
		FrontendDir: serverCfg.Frontend,
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
	stopMail()

	log.Info().Msg("Shutdown complete")
}

// buildSender wires the configured mail transport. The returned stop func
// releases the transport's resources.
func buildSender(ctx context.Context, cfg *config.Config, log *zerolog.Logger) (mailer.Sender, func(), error) {
	mailCfg, err := buildCFG.BuildMailConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	switch mailCfg.Transport {
	case buildCFG.MailTransportSMTP:
		return mailer.NewSMTPSender(mailCfg.SMTP, log), func() {}, nil

	case buildCFG.MailTransportRabbit:
		rabbitCfg, err := buildCFG.BuildRabbitConfig(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		rmq, err := rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to RabbitMQ: %w", err)
		}

		reader := mailReader.NewReader(rmq, mailer.NewSMTPSender(mailCfg.SMTP, log), log)
		reader.Start(ctx)

		return mailer.NewQueueSender(rmq), func() {
			reader.Stop()
			rmq.Close()
		}, nil

	default:
		return mailer.NewLogSender(log), func() {}, nil
	}
}
