// Package reconcile removes orphaned objects from the bucket. An orphan is an
// object with no metadata row referencing its key, which can happen when the
// process dies between storing an object and saving its row, or between
// deleting a row and deleting its object.
package reconcile

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"storeit/internal/repository"
	"storeit/internal/storage"
)

// objectPrefix matches the key layout used for uploads.
const objectPrefix = "files/"

// Sweeper scans the bucket and deletes objects that no metadata row claims.
// Objects newer than the grace period are skipped, so in-flight uploads whose
// row has not been committed yet are never collected.
type Sweeper struct {
	store storage.Storage
	repo  repository.FileRepository
	grace time.Duration

	// Injectable for tests.
	now func() time.Time
}

// NewSweeper constructs a Sweeper with the given grace period.
func NewSweeper(store storage.Storage, repo repository.FileRepository, grace time.Duration) *Sweeper {
	return &Sweeper{
		store: store,
		repo:  repo,
		grace: grace,
		now:   time.Now,
	}
}

// Run performs one sweep and returns the number of objects deleted. Errors on
// individual objects are logged and do not stop the sweep.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	start := s.now()

	objects, err := s.store.List(ctx, objectPrefix)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, obj := range objects {
		if start.Sub(obj.LastModified) < s.grace {
			continue
		}

		exists, err := s.repo.ExistsByBucketKey(ctx, obj.Key)
		if err != nil {
			logJSON(map[string]any{
				"component":     "reconcile",
				"event":         "reconcile_check_failed",
				"level":         "error",
				"object_key":    obj.Key,
				"error_message": err.Error(),
			})
			continue
		}
		if exists {
			continue
		}

		if err := s.store.Delete(ctx, obj.Key); err != nil {
			logJSON(map[string]any{
				"component":     "reconcile",
				"event":         "reconcile_delete_failed",
				"level":         "error",
				"object_key":    obj.Key,
				"error_message": err.Error(),
			})
			continue
		}

		deleted++
		logJSON(map[string]any{
			"component":  "reconcile",
			"event":      "reconcile_orphan_deleted",
			"level":      "info",
			"object_key": obj.Key,
			"size":       obj.Size,
		})
	}

	logJSON(map[string]any{
		"component":   "reconcile",
		"event":       "reconcile_sweep_done",
		"level":       "info",
		"scanned":     len(objects),
		"deleted":     deleted,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return deleted, nil
}

// RunEvery sweeps on a fixed interval until the context is cancelled.
func (s *Sweeper) RunEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil {
				logJSON(map[string]any{
					"component":     "reconcile",
					"event":         "reconcile_sweep_failed",
					"level":         "error",
					"error_message": err.Error(),
				})
			}
		}
	}
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().Format(time.RFC3339Nano)
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal reconcile log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
