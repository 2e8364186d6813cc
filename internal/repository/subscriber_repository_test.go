package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/onurcolak/chuck-norris-sms/environments"
	"github.com/onurcolak/chuck-norris-sms/internal/domain"
)

// openers builds one store per driver so every test runs against both.
func openers() map[string]func(t *testing.T) SubscriberRepository {
	return map[string]func(t *testing.T) SubscriberRepository{
		"file": func(t *testing.T) SubscriberRepository {
			repo, err := Open(environments.StorageConfig{
				Driver: "file",
				Path:   filepath.Join(t.TempDir(), "users.json"),
			})
			if err != nil {
				t.Fatalf("open file store: %v", err)
			}
			return repo
		},
		"sqlite": func(t *testing.T) SubscriberRepository {
			repo, err := Open(environments.StorageConfig{
				Driver: "sqlite",
				Path:   filepath.Join(t.TempDir(), "users.db"),
			})
			if err != nil {
				t.Fatalf("open sqlite store: %v", err)
			}
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		},
	}
}

func newSubscriber(number string) domain.Subscriber {
	return domain.Subscriber{
		Number:    number,
		Carrier:   "T-Mobile",
		ReplyFrom: "+15557654321",
	}
}

func TestSubscriberRepository_AddTwiceReturnsAlreadySubscribed(t *testing.T) {
	for name, open := range openers() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			if err := repo.Add(ctx, newSubscriber("+15551234567")); err != nil {
				t.Fatalf("first Add returned error: %v", err)
			}

			err := repo.Add(ctx, newSubscriber("+15551234567"))
			if !errors.Is(err, domain.ErrAlreadySubscribed) {
				t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
			}

			subs, err := repo.List(ctx)
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			if len(subs) != 1 {
				t.Fatalf("expected exactly 1 record, got %d", len(subs))
			}
			if subs[0].ReplyFrom != "+15557654321" || subs[0].Carrier != "T-Mobile" {
				t.Errorf("unexpected record %+v", subs[0])
			}
			if subs[0].CreatedAt.IsZero() {
				t.Errorf("expected CreatedAt to be set")
			}
		})
	}
}

func TestSubscriberRepository_RemoveThenRemoveAgain(t *testing.T) {
	for name, open := range openers() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			if err := repo.Add(ctx, newSubscriber("+15551234567")); err != nil {
				t.Fatalf("Add returned error: %v", err)
			}

			if err := repo.Remove(ctx, "+15551234567"); err != nil {
				t.Fatalf("Remove returned error: %v", err)
			}

			for i := 0; i < 3; i++ {
				if err := repo.Remove(ctx, "+15551234567"); !errors.Is(err, domain.ErrSubscriberNotFound) {
					t.Fatalf("attempt %d: expected ErrSubscriberNotFound, got %v", i, err)
				}
			}

			subs, err := repo.List(ctx)
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			if len(subs) != 0 {
				t.Fatalf("expected empty store, got %d records", len(subs))
			}
		})
	}
}

func TestSubscriberRepository_ConcurrentAddsOfDifferentKeysAreAllKept(t *testing.T) {
	for name, open := range openers() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			const n = 40
			var wg sync.WaitGroup
			errs := make(chan error, n)

			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs <- repo.Add(ctx, newSubscriber(fmt.Sprintf("+1555000%04d", i)))
				}(i)
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				if err != nil {
					t.Fatalf("concurrent Add returned error: %v", err)
				}
			}

			subs, err := repo.List(ctx)
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			if len(subs) != n {
				t.Fatalf("expected %d records, got %d", n, len(subs))
			}
		})
	}
}

func TestSubscriberRepository_ConcurrentAddsOfSameKeyApplyOnce(t *testing.T) {
	for name, open := range openers() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			const n = 20
			var wg sync.WaitGroup
			results := make(chan error, n)

			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					results <- repo.Add(ctx, newSubscriber("+15551234567"))
				}()
			}
			wg.Wait()
			close(results)

			added, dup := 0, 0
			for err := range results {
				switch {
				case err == nil:
					added++
				case errors.Is(err, domain.ErrAlreadySubscribed):
					dup++
				default:
					t.Fatalf("unexpected error: %v", err)
				}
			}

			if added != 1 || dup != n-1 {
				t.Fatalf("expected 1 added and %d duplicates, got %d and %d", n-1, added, dup)
			}
		})
	}
}

func TestSubscriberRepository_ListIsASnapshot(t *testing.T) {
	for name, open := range openers() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			_ = repo.Add(ctx, newSubscriber("+15550000002"))
			_ = repo.Add(ctx, newSubscriber("+15550000001"))

			subs, err := repo.List(ctx)
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}

			_ = repo.Add(ctx, newSubscriber("+15550000003"))

			if len(subs) != 2 {
				t.Fatalf("expected snapshot of 2, got %d", len(subs))
			}
			if subs[0].Number != "+15550000001" || subs[1].Number != "+15550000002" {
				t.Errorf("expected sorted snapshot, got %q, %q", subs[0].Number, subs[1].Number)
			}
		})
	}
}

func TestFileSubscriberRepository_PersistsLegacyLayout(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")

	repo, err := NewFileSubscriberRepository(path)
	if err != nil {
		t.Fatalf("NewFileSubscriberRepository returned error: %v", err)
	}

	if err := repo.Add(ctx, newSubscriber("+15551234567")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read registry: %v", err)
	}

	var doc map[string]struct {
		Created  string `json:"created"`
		UserInfo struct {
			Number  string `json:"number"`
			Carrier string `json:"carrier"`
		} `json:"user_info"`
		SMSInfo struct {
			TelnyxNumber string `json:"telnyx_number"`
		} `json:"sms_info"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("registry is not valid JSON: %v", err)
	}

	rec, ok := doc["+15551234567"]
	if !ok {
		t.Fatalf("expected record keyed by number, got %s", string(data))
	}
	if rec.UserInfo.Number != "+15551234567" || rec.UserInfo.Carrier != "T-Mobile" {
		t.Errorf("unexpected user_info %+v", rec.UserInfo)
	}
	if rec.SMSInfo.TelnyxNumber != "+15557654321" {
		t.Errorf("unexpected sms_info %+v", rec.SMSInfo)
	}
	if rec.Created == "" {
		t.Errorf("expected created timestamp")
	}

	// A fresh instance sees the durable state.
	reopened, err := NewFileSubscriberRepository(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	subs, _ := reopened.List(ctx)
	if len(subs) != 1 || subs[0].Number != "+15551234567" {
		t.Fatalf("expected reopened store to contain the subscriber, got %+v", subs)
	}
}

func TestFileSubscriberRepository_FailedWriteKeepsPriorState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "users.json")

	repo, err := NewFileSubscriberRepository(path)
	if err != nil {
		t.Fatalf("NewFileSubscriberRepository returned error: %v", err)
	}
	if err := repo.Add(ctx, newSubscriber("+15550000001")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	// Point the store at a directory that does not exist so the temp file
	// cannot be created.
	repo.path = filepath.Join(dir, "missing", "users.json")

	err = repo.Add(ctx, newSubscriber("+15550000002"))
	if !errors.Is(err, domain.ErrStoreIO) {
		t.Fatalf("expected ErrStoreIO, got %v", err)
	}

	subs, _ := repo.List(ctx)
	if len(subs) != 1 {
		t.Fatalf("expected in-memory state to be unchanged, got %d records", len(subs))
	}
}

func TestFileSubscriberRepository_CorruptFileFailsToOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewFileSubscriberRepository(path); !errors.Is(err, domain.ErrStoreIO) {
		t.Fatalf("expected ErrStoreIO, got %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(environments.StorageConfig{Driver: "mongo"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestFileSubscriberRepository_ReadsLegacyCreatedStamp(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")

	legacy := `{
		"+15551234567": {"created": "utc|2024/1/2|3:4:5:6",
			"user_info": {"number": "+15551234567", "carrier": "T-Mobile"},
			"sms_info": {"telnyx_number": "+15557654321"}},
		"+15559999999": {"created": "sometime last week",
			"user_info": {"number": "+15559999999", "carrier": "unknown"},
			"sms_info": {"telnyx_number": "+15557654321"}}
	}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("failed to write registry: %v", err)
	}

	repo, err := NewFileSubscriberRepository(path)
	if err != nil {
		t.Fatalf("NewFileSubscriberRepository returned error: %v", err)
	}

	subs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected both records to be kept, got %+v", subs)
	}

	want := time.Date(2024, time.January, 2, 3, 4, 5, 6*int(time.Millisecond), time.UTC)
	if !subs[0].CreatedAt.Equal(want) {
		t.Errorf("expected created %s, got %s", want, subs[0].CreatedAt)
	}
	if subs[0].Carrier != "T-Mobile" || subs[0].ReplyFrom != "+15557654321" {
		t.Errorf("unexpected subscriber %+v", subs[0])
	}
	if !subs[1].CreatedAt.IsZero() {
		t.Errorf("expected zero time for unreadable stamp, got %s", subs[1].CreatedAt)
	}

	// Rewriting the registry keeps legacy records readable.
	if err := repo.Add(ctx, newSubscriber("+15550000001")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	reopened, err := NewFileSubscriberRepository(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	subs, _ = reopened.List(ctx)
	if len(subs) != 3 {
		t.Fatalf("expected 3 subscribers after rewrite, got %d", len(subs))
	}
}
