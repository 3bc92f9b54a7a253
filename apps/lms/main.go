// Command lms is the terminal client of the LMS.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/session"
	"github.com/trezcool/masomo-lms/core/user"
	"github.com/trezcool/masomo-lms/services/api"
	logsvc "github.com/trezcool/masomo-lms/services/logger"
	"github.com/trezcool/masomo-lms/services/telemetry"
	"github.com/trezcool/masomo-lms/storage/credential"
)

func main() {
	os.Exit(start(os.Args))
}

// start returns the exit code. A leading -v keeps debug logs on stderr.
func start(args []string) int {
	verbose := len(args) > 1 && args[1] == "-v"
	if verbose {
		args = append(args[:1:1], args[2:]...)
	}

	conf, err := core.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		return 1
	}
	user.PasswordPolicy = conf.PasswordPolicy

	zl, err := logsvc.NewZap(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: setting up logger: %v\n", err)
		return 1
	}
	if !verbose {
		zl = zl.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}
	defer func() { _ = zl.Sync() }()
	logger := logsvc.New(conf, zl)

	ctx := context.Background()
	shutdownTracing := telemetry.Setup(ctx, conf, "lms-client", logger)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("stopping tracing", err)
		}
	}()

	store, closeStore, err := credential.Open(ctx, conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = closeStore() }()

	client := api.NewClient(conf.APIBaseURL, store,
		api.WithTransport(telemetry.Transport(nil)),
		api.WithLogger(logger),
	)
	gate := session.NewGate(client, store, logger)
	client.OnUnauthorized(gate.Expire)

	cli := commandLine{
		client: client,
		gate:   gate,
		out:    os.Stdout,
		now:    time.Now,
	}
	if err := cli.run(args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}
