package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/2beens/fitprogress/internal"
	"github.com/2beens/fitprogress/internal/config"
	"github.com/2beens/fitprogress/internal/logging"
	"github.com/2beens/fitprogress/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "fitprogress-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using storage backend: [%s]", cfg.StorageBackend)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	redisPassword := os.Getenv("FITPROGRESS_REDIS_PASS")
	if redisPassword == "" && cfg.StorageBackend == config.StorageBackendRedis {
		log.Warnln("redis password not set. use FITPROGRESS_REDIS_PASS")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:        cfg,
			VersionInfo:   versionInfo,
			RedisPassword: redisPassword,
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

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
