package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/onurcolak/chuck-norris-sms/environments"
	"github.com/onurcolak/chuck-norris-sms/internal/domain"
	"github.com/onurcolak/chuck-norris-sms/pkg/database"
)

// SubscriberRepository is the subscriber registry contract shared by every
// storage driver. Mutations are serialized inside each implementation.
type SubscriberRepository interface {
	Add(ctx context.Context, sub domain.Subscriber) error
	Remove(ctx context.Context, number string) error
	List(ctx context.Context) ([]domain.Subscriber, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open initializes the configured subscriber store.
//
// Driver values:
//   - "file": single JSON document rewritten on every mutation (default)
//   - "sqlite": local SQLite database
func Open(cfg environments.StorageConfig) (SubscriberRepository, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))

	switch driver {
	case "", "file", "json":
		return NewFileSubscriberRepository(cfg.Path)
	case "sqlite", "sqlite3":
		db, err := database.NewSQLiteDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreIO, err)
		}
		if err := database.RunMigrations(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreIO, err)
		}
		return NewSQLiteSubscriberRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}
