package main

import (
	"context"
	"flag"
	"time"

	"github.com/onurcolak/chuck-norris-sms/environments"
	"github.com/onurcolak/chuck-norris-sms/internal/repository"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
)

// Imports a JSON subscriber registry into the SQLite store.
//
//	go run ./db/seed -from telnyx-chucknorris-users.json -to telnyx-chucknorris-users.db
func main() {
	cfg := environments.Load()
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	from := flag.String("from", "telnyx-chucknorris-users.json", "JSON registry to import")
	to := flag.String("to", "telnyx-chucknorris-users.db", "SQLite database to import into")
	flag.Parse()

	src, err := repository.Open(environments.StorageConfig{Driver: "file", Path: *from})
	if err != nil {
		logger.Fatalf("Failed to open %s: %v", *from, err)
	}

	dst, err := repository.Open(environments.StorageConfig{Driver: "sqlite", Path: *to})
	if err != nil {
		logger.Fatalf("Failed to open %s: %v", *to, err)
	}

	defer func() {
		if err := dst.Close(); err != nil {
			logger.Errorf("Failed to close database: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	copied, skipped, err := repository.CopySubscribers(ctx, src, dst)
	if err != nil {
		_ = dst.Close()
		logger.Fatalf("Seed aborted after %d subscribers: %v", copied, err)
	}

	logger.Infof("Seed completed successfully: %d imported, %d already present", copied, skipped)
}
