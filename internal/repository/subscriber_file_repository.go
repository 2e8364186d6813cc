package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/onurcolak/chuck-norris-sms/internal/domain"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
)

// FileSubscriberRepository keeps the whole registry in one JSON document keyed
// by phone number and rewrites it on every mutation.
type FileSubscriberRepository struct {
	path string

	mu      sync.RWMutex
	records map[string]fileRecord
}

type fileRecord struct {
	Created  registryTime `json:"created"`
	UserInfo fileUserInfo `json:"user_info"`
	SMSInfo  fileSMSInfo  `json:"sms_info"`
}

// registryTime writes RFC3339 and also reads the legacy
// "utc|Y/M/D|h:m:s:ms" stamp. Unreadable values decode to the zero time so
// the record itself is kept.
type registryTime struct {
	time.Time
}

func (t *registryTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = parseRegistryTime(raw)
	return nil
}

func parseRegistryTime(raw string) time.Time {
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return parsed
	}

	var year, month, day, hour, minute, second, millis int
	n, err := fmt.Sscanf(strings.TrimSpace(raw), "utc|%d/%d/%d|%d:%d:%d:%d",
		&year, &month, &day, &hour, &minute, &second, &millis)
	if err != nil || n != 7 {
		return time.Time{}
	}

	return time.Date(year, time.Month(month), day, hour, minute, second,
		millis*int(time.Millisecond), time.UTC)
}

type fileUserInfo struct {
	Number  string `json:"number"`
	Carrier string `json:"carrier"`
}

type fileSMSInfo struct {
	TelnyxNumber string `json:"telnyx_number"`
}

func NewFileSubscriberRepository(path string) (*FileSubscriberRepository, error) {
	records, err := readRegistry(path)
	if err != nil {
		return nil, err
	}

	logger.Infof("Loaded %d subscribers from %s", len(records), path)

	return &FileSubscriberRepository{
		path:    path,
		records: records,
	}, nil
}

func readRegistry(path string) (map[string]fileRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]fileRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", domain.ErrStoreIO, path, err)
	}

	records := map[string]fileRecord{}
	if len(data) == 0 {
		return records, nil
	}

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", domain.ErrStoreIO, path, err)
	}

	return records, nil
}

func (r *FileSubscriberRepository) Add(ctx context.Context, sub domain.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[sub.Number]; exists {
		return domain.ErrAlreadySubscribed
	}

	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	next := r.cloneLocked()
	next[sub.Number] = fileRecord{
		Created:  registryTime{sub.CreatedAt},
		UserInfo: fileUserInfo{Number: sub.Number, Carrier: sub.Carrier},
		SMSInfo:  fileSMSInfo{TelnyxNumber: sub.ReplyFrom},
	}

	if err := r.persistLocked(next); err != nil {
		return err
	}

	r.records = next
	return nil
}

func (r *FileSubscriberRepository) Remove(ctx context.Context, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[number]; !exists {
		return domain.ErrSubscriberNotFound
	}

	next := r.cloneLocked()
	delete(next, number)

	if err := r.persistLocked(next); err != nil {
		return err
	}

	r.records = next
	return nil
}

func (r *FileSubscriberRepository) List(ctx context.Context) ([]domain.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subscribers := make([]domain.Subscriber, 0, len(r.records))
	for number, rec := range r.records {
		subscribers = append(subscribers, domain.Subscriber{
			Number:    number,
			Carrier:   rec.UserInfo.Carrier,
			ReplyFrom: rec.SMSInfo.TelnyxNumber,
			CreatedAt: rec.Created.Time,
		})
	}

	sort.Slice(subscribers, func(i, j int) bool {
		return subscribers[i].Number < subscribers[j].Number
	})

	return subscribers, nil
}

func (r *FileSubscriberRepository) Ping(ctx context.Context) error {
	dir := filepath.Dir(r.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreIO, err)
	}
	return nil
}

func (r *FileSubscriberRepository) Close() error {
	return nil
}

func (r *FileSubscriberRepository) cloneLocked() map[string]fileRecord {
	next := make(map[string]fileRecord, len(r.records)+1)
	for k, v := range r.records {
		next[k] = v
	}
	return next
}

// persistLocked writes next to a temp file next to the registry and renames it
// into place, so readers of the path only ever see a complete document.
func (r *FileSubscriberRepository) persistLocked(next map[string]fileRecord) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("%w: failed to encode registry: %v", domain.ErrStoreIO, err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", domain.ErrStoreIO, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to write registry: %v", domain.ErrStoreIO, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to sync registry: %v", domain.ErrStoreIO, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: failed to close registry: %v", domain.ErrStoreIO, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: failed to replace registry: %v", domain.ErrStoreIO, err)
	}

	return nil
}
