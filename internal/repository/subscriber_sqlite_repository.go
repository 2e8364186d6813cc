package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/onurcolak/chuck-norris-sms/internal/domain"
)

// SQLiteSubscriberRepository stores subscribers in a local SQLite database.
type SQLiteSubscriberRepository struct {
	db *sqlx.DB
	mu sync.Mutex
}

func NewSQLiteSubscriberRepository(db *sqlx.DB) *SQLiteSubscriberRepository {
	return &SQLiteSubscriberRepository{db: db}
}

func (r *SQLiteSubscriberRepository) Add(ctx context.Context, sub domain.Subscriber) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO subscribers (number, carrier, reply_from, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(number) DO NOTHING
	`

	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.ExecContext(ctx, query, sub.Number, sub.Carrier, sub.ReplyFrom, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to insert subscriber: %v", domain.ErrStoreIO, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get affected rows: %v", domain.ErrStoreIO, err)
	}

	if rows == 0 {
		return domain.ErrAlreadySubscribed
	}

	return nil
}

func (r *SQLiteSubscriberRepository) Remove(ctx context.Context, number string) error {
	query := `DELETE FROM subscribers WHERE number = ?`

	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.ExecContext(ctx, query, number)
	if err != nil {
		return fmt.Errorf("%w: failed to delete subscriber: %v", domain.ErrStoreIO, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get affected rows: %v", domain.ErrStoreIO, err)
	}

	if rows == 0 {
		return domain.ErrSubscriberNotFound
	}

	return nil
}

func (r *SQLiteSubscriberRepository) List(ctx context.Context) ([]domain.Subscriber, error) {
	query := `
		SELECT number, carrier, reply_from, created_at
		FROM subscribers
		ORDER BY number ASC
	`

	subscribers := []domain.Subscriber{}
	if err := r.db.SelectContext(ctx, &subscribers, query); err != nil {
		return nil, fmt.Errorf("%w: failed to list subscribers: %v", domain.ErrStoreIO, err)
	}

	return subscribers, nil
}

func (r *SQLiteSubscriberRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteSubscriberRepository) Close() error {
	return r.db.Close()
}
