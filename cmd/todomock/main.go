// TODO mock backend.
//
// Serves an in-memory TODO collection over HTTP so the ESP32 display
// firmware can be developed and tested without a real task service. Task
// mutations can optionally be mirrored to MQTT, InfluxDB and a SQLite audit
// trail for bench debugging.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/todo-mock/migrations"

	"github.com/nerrad567/todo-mock/internal/api"
	"github.com/nerrad567/todo-mock/internal/audit"
	"github.com/nerrad567/todo-mock/internal/infrastructure/config"
	"github.com/nerrad567/todo-mock/internal/infrastructure/database"
	"github.com/nerrad567/todo-mock/internal/infrastructure/influxdb"
	"github.com/nerrad567/todo-mock/internal/infrastructure/logging"
	"github.com/nerrad567/todo-mock/internal/infrastructure/mqtt"
	"github.com/nerrad567/todo-mock/internal/task"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// defaultConfigPath is used when TODOMOCK_CONFIG is unset and the file exists.
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
// It blocks until ctx is cancelled, then closes everything it opened in
// reverse order.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // linear startup sequence
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting todo mock",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if configPath == "" {
		log.Info("no config file, using defaults")
	} else {
		log.Info("configuration loaded", "path", configPath)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)
	if cfg.Auth.Key == config.DefaultAPIKey {
		log.Warn("using the default API key; set TODOMOCK_API_KEY to change it")
	}

	store, err := newStore(ctx, cfg.Seed, log)
	if err != nil {
		return err
	}

	// Integrations that passed startup, checked once the server is up.
	var checks []namedCheck

	deps := api.Deps{
		Config:  cfg.API,
		Auth:    cfg.Auth,
		WS:      cfg.WebSocket,
		Logger:  log,
		Store:   store,
		Version: version,
	}

	// Audit trail (optional)
	if cfg.Audit.Enabled {
		db, openErr := database.Open(database.Config{
			Path:        cfg.Audit.Path,
			WALMode:     cfg.Audit.WALMode,
			BusyTimeout: cfg.Audit.BusyTimeout,
		})
		if openErr != nil {
			return fmt.Errorf("opening audit database: %w", openErr)
		}
		defer func() {
			log.Info("closing audit database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing audit database", "error", closeErr)
			}
		}()

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		deps.Audit = audit.NewSQLiteRepository(db.DB)
		checks = append(checks, namedCheck{name: "database", check: db})
		log.Info("audit trail enabled", "path", db.Path())
	} else {
		log.Info("audit trail disabled")
	}

	// MQTT (optional)
	if cfg.MQTT.Enabled {
		mqttClient, connErr := mqtt.Connect(cfg.MQTT)
		if connErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", connErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
			"events", mqttClient.Topics().AllTaskEvents(),
		)

		deps.MQTT = mqttClient
		checks = append(checks, namedCheck{name: "mqtt", check: mqttClient})
		publishInitialStats(ctx, mqttClient, store, log)
	} else {
		log.Info("MQTT disabled")
	}

	// InfluxDB (optional)
	influxClient, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Warn("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		deps.Stats = influxClient
		checks = append(checks, namedCheck{name: "influxdb", check: influxClient})
		st := store.Stats(ctx)
		influxClient.WriteTaskStats(st.Total, st.Completed, st.Pending, st.Ratio())
	}

	// API server
	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server listening",
		"address", server.Addr(),
		"key_header", cfg.Auth.Header,
		"tasks", store.Len(ctx),
	)
	checks = append(checks, namedCheck{name: "api", check: server})

	if err := healthCheck(ctx, checks); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed", "checked", len(checks))

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns TODOMOCK_CONFIG, else the default path when that
// file exists, else "" for built-in defaults.
func getConfigPath() string {
	if path := os.Getenv("TODOMOCK_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

// healthChecker is satisfied by every infrastructure component and the API
// server.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

type namedCheck struct {
	name  string
	check healthChecker
}

// healthCheck verifies the started components in order.
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, checks []namedCheck) error {
	for _, c := range checks {
		if err := c.check.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	return nil
}

// newStore builds the task store and loads the configured seed.
func newStore(ctx context.Context, cfg config.SeedConfig, log *logging.Logger) (*task.Store, error) {
	store := task.NewStore(task.WithLogger(log))
	if !cfg.Enabled {
		log.Info("seeding disabled, starting with an empty collection")
		return store, nil
	}

	seed := task.DefaultSeed()
	if cfg.File != "" {
		loaded, err := task.LoadSeedFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("loading seed file: %w", err)
		}
		seed = loaded
	}

	if err := store.Seed(ctx, seed); err != nil {
		return nil, fmt.Errorf("seeding task store: %w", err)
	}
	return store, nil
}

// publishInitialStats puts the retained stats message in place before the
// first mutation, so subscribers see the seeded counts immediately.
func publishInitialStats(ctx context.Context, client *mqtt.Client, store *task.Store, log *logging.Logger) {
	if err := client.PublishJSON(client.Topics().Stats(), store.Stats(ctx), true); err != nil {
		log.Warn("publishing initial stats failed", "error", err)
	}
}
