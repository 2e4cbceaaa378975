// Command register-readers runs a scripted registration scenario through the RegisterReader
// pipeline and prints every outcome as a JSON line.
//
// Configuration comes from CQRS_DEMO_* environment variables. Without CQRS_DEMO_POSTGRES_DSN
// the readers are kept in memory and the PostgreSQL behaviors are left out.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/cqrs-pipeline-go/cqrs"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/demo"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/features/readerregistered"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/features/registerreader"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/shared/shell"
	"github.com/AntonStoeckl/cqrs-pipeline-go/example/shared/shell/config"
	"github.com/AntonStoeckl/cqrs-pipeline-go/oteladapters"
)

const serviceName = "cqrs-pipeline-demo"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type scenarioStep struct {
	Step    string                `json:"step"`
	Outcome registerreader.Result `json:"outcome"`
	Error   string                `json:"error,omitempty"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout); err != nil {
		log.Fatalf("register-readers: %v", err)
	}
}

func run(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(
		slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)

	var (
		metrics cqrs.MetricsCollector
		tracing cqrs.TracingCollector
	)

	if cfg.OTel {
		providers, providersErr := config.NewObservabilityProviders(ctx, serviceName, cfg.OTelEndpoint)
		if providersErr != nil {
			return providersErr
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if shutdownErr := providers.Shutdown(shutdownCtx); shutdownErr != nil {
				logger.Error("failed to shut down observability providers", "error", shutdownErr.Error())
			}
		}()

		metrics = oteladapters.NewMetricsCollector(providers.MeterProvider.Meter(serviceName))
		tracing = oteladapters.NewTracingCollector(providers.TracerProvider.Tracer(serviceName))
	}

	outbox := shell.NewInMemoryOutbox()
	counter := readerregistered.NewRegistrationCounter(metrics)

	deps := demo.Dependencies{
		Readers: shell.NewInMemoryReaders(),
		Outbox:  outbox,
		Counter: counter,
		Logger:  logger,
		Metrics: metrics,
		Tracing: tracing,
	}

	if cfg.UsesPostgres() {
		database, dbErr := demo.OpenDatabase(ctx, cfg, logger, metrics)
		if dbErr != nil {
			return dbErr
		}
		defer database.Close()

		deps.Readers = database.Readers
		deps.Database = database.Behaviors
	}

	app, err := demo.NewApp(deps)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)

	readerID := uuid.New()
	email := fmt.Sprintf("reader-%s@example.org", readerID.String()[:8])
	now := time.Now()

	steps := []struct {
		name    string
		command registerreader.Command
	}{
		{"register", registerreader.BuildCommand(readerID, "Ada Lovelace", email, now)},
		{"register again", registerreader.BuildCommand(readerID, "Ada Lovelace", email, now)},
		{"email taken", registerreader.BuildCommand(uuid.New(), "Grace Hopper", email, now)},
		{"invalid input", registerreader.BuildCommand(uuid.Nil, "", "not-an-email", now)},
	}

	for _, s := range steps {
		res, sendErr := app.RegisterReader(ctx, s.command)

		step := scenarioStep{Step: s.name, Outcome: res}
		if sendErr != nil {
			step.Error = sendErr.Error()
		}

		if err = encoder.Encode(step); err != nil {
			return err
		}
	}

	for _, message := range outbox.Messages() {
		if err = encoder.Encode(message); err != nil {
			return err
		}
	}

	return encoder.Encode(map[string]int64{"readersRegistered": counter.Count()})
}
