package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/weeklyblog/internal"
	"github.com/2beens/weeklyblog/internal/config"
	"github.com/2beens/weeklyblog/internal/logging"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	envFilePath := flag.String("envfile", ".env", "path for the optional .env file")
	flag.Parse()

	// values already set in the environment win over the .env file
	if err := godotenv.Load(*envFilePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("no env file at [%s], using the process environment only", *envFilePath)
		} else {
			log.Warnf("load env file [%s]: %s", *envFilePath, err)
		}
	}

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, envCfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        envCfg.SentryDSN,
		SentryServerName: "weeklyblog",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)
	log.Debugf("using upload root: [%s]", cfg.UploadRoot)

	if envCfg.AdminUsername == "admin" && envCfg.AdminPassword == "admin123" {
		log.Warnln("default admin credentials in use, set ADMIN_USERNAME and ADMIN_PASSWORD")
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Debugln("OTEL_SERVICE_NAME env var not set")
	}

	if envCfg.HoneycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			DatabaseURL:             envCfg.DatabaseURL,
			SecretKey:               envCfg.SecretKey,
			AdminUsername:           envCfg.AdminUsername,
			AdminPassword:           envCfg.AdminPassword,
			RedisPassword:           envCfg.RedisPassword,
			HoneycombTracingEnabled: envCfg.HoneycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}
