// Command sandbox serves the LMS REST API from memory, for local runs of the lms client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/trezcool/masomo-lms/apps/sandbox/echo"
	"github.com/trezcool/masomo-lms/core"
	logsvc "github.com/trezcool/masomo-lms/services/logger"
	"github.com/trezcool/masomo-lms/services/telemetry"
	inmemdb "github.com/trezcool/masomo-lms/storage/database/inmem"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	zl, err := logsvc.NewZap(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	logger := logsvc.New(conf, zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, conf, "lms-sandbox", logger)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("stopping tracing", err)
		}
	}()

	// set up store
	db := inmemdb.New()
	usrRepo := inmemdb.NewUserRepository(db)
	if conf.Sandbox.SeedUsers {
		if err = inmemdb.Seed(usrRepo, inmemdb.DefaultSeedUsers...); err != nil {
			logger.Fatal("seeding users", err)
		}
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Sandbox initializing : version %q", conf.Build))
	defer logger.Info("Sandbox stopped")

	server := echoapi.NewServer(&echoapi.Options{
		Address:            conf.Sandbox.Addr,
		Debug:              conf.Debug,
		SecretKey:          conf.Sandbox.SecretKey,
		JWTExpirationDelta: conf.Sandbox.JWTExpirationDelta,
		UserRepo:           usrRepo,
		CourseRepo:         inmemdb.NewCourseRepository(db),
		Logger:             logger,
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		if err != nil {
			logger.Error(fmt.Sprintf("server error: %v", err), err)
		}

	case <-ctx.Done():
		logger.Info("Start shutdown...")

		// give outstanding requests a deadline for completion
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err = server.Stop(sctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}
