package backend

import (
	"fmt"
	"log/slog"

	"cashflow/internal/csvstore"
	"cashflow/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// Factory creates stores based on configuration
type Factory interface {
	CreateStore(config Config) (Store, error)
}

// NewFactory creates a new store factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(config Config) (Store, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, nil

	case CSVBackend:
		store, err := csvstore.New(config.CSVDataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize CSV store: %w", err)
		}
		f.logger.Info("Initialized CSV backend", "data_dir", config.CSVDataDir)
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
