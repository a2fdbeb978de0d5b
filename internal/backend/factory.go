package backend

import (
	"fmt"
	"log/slog"

	"wealthtracker/internal/amqp"
	"wealthtracker/internal/memory"
	"wealthtracker/internal/storage"
)

// Result bundles the chosen store with the optional AMQP client that
// publishes change events for it.
type Result struct {
	Store   Store
	Events  *amqp.Client
	Cleanup func() error
}

type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

func (f *Factory) CreateBackend(config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var store Store
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		store = repo
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		store = memory.New()
		f.logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	// AMQP is optional: a missing broker degrades to no change events, it
	// never blocks startup.
	var events *amqp.Client
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			events = client
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	cleanup := func() error {
		if events != nil {
			events.Close()
		}
		return store.Close()
	}

	return &Result{Store: store, Events: events, Cleanup: cleanup}, nil
}
