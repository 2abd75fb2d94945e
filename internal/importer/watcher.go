// Package importer watches a drop directory for bulk hike imports: any
// .json file containing an array of hike records is imported through the
// service and removed on success.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rlowrie/cairn/internal/apperr"
	"github.com/rlowrie/cairn/internal/hikeservice"
)

// Watch starts an fsnotify watcher on dir and processes drop files until
// ctx is cancelled. Files already present at startup are imported first.
func Watch(ctx context.Context, svc *hikeservice.Service, dir string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("importer: started", slog.String("dir", dir))
	scan(ctx, svc, dir, logger)

	// Writers may still be flushing when the first event arrives, so
	// events only schedule a debounced rescan of the whole directory.
	var scanTimer *time.Timer
	var scanCh <-chan time.Time

	schedule := func() {
		if scanTimer == nil {
			scanTimer = time.NewTimer(200 * time.Millisecond)
			scanCh = scanTimer.C
		} else {
			scanTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if scanTimer != nil {
				scanTimer.Stop()
			}
			logger.Info("importer: stopped")
			return nil

		case <-scanCh:
			scan(ctx, svc, dir, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("importer: watch error", slog.String("error", watchErr.Error()))
		}
	}
}

// scan imports every .json file currently in dir.
func scan(ctx context.Context, svc *hikeservice.Service, dir string, logger *slog.Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("importer: read dir failed", slog.String("error", err.Error()))
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		importFile(ctx, svc, filepath.Join(dir, e.Name()), logger)
	}
}

// importFile creates each record in one drop file through the service.
// The file is removed only when every record was handled.
func importFile(ctx context.Context, svc *hikeservice.Service, path string, logger *slog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("importer: read failed", slog.String("file", path), slog.String("error", err.Error()))
		return
	}

	var inputs []hikeservice.HikeInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		logger.Warn("importer: malformed drop file", slog.String("file", path), slog.String("error", err.Error()))
		return
	}

	imported := 0
	failed := 0
	for _, in := range inputs {
		if _, err := svc.CreateHike(ctx, in); err != nil {
			// A duplicate id means a previous pass already stored this record.
			if errors.Is(err, apperr.ErrDuplicateID) {
				continue
			}
			logger.Warn("importer: record rejected", slog.String("file", path), slog.String("error", err.Error()))
			failed++
			continue
		}
		imported++
	}

	if failed > 0 {
		logger.Warn("importer: file kept, some records rejected",
			slog.String("file", path), slog.Int("imported", imported), slog.Int("failed", failed))
		return
	}

	if err := os.Remove(path); err != nil {
		logger.Warn("importer: remove failed", slog.String("file", path), slog.String("error", err.Error()))
		return
	}
	logger.Info("importer: imported", slog.String("file", path), slog.Int("records", imported))
}
