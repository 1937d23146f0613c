package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nextdink/api/internal/database"
	"github.com/nextdink/api/internal/model"
)

// scriptedDB fakes the database layer for the optimistic-concurrency
// tests. Aggregate reads are served from record; each revision-guarded
// write consumes the next entry of writeErrs, succeeding once the
// script runs out.
type scriptedDB struct {
	record    map[string]interface{}
	writeErrs []error
	reads     int
	writes    int
}

func (d *scriptedDB) Connect(ctx context.Context) error { return nil }
func (d *scriptedDB) Close() error                      { return nil }
func (d *scriptedDB) Ping(ctx context.Context) error    { return nil }

func (d *scriptedDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	return nil, database.ErrQuery
}

func (d *scriptedDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	return nil
}

func (d *scriptedDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	if strings.HasPrefix(strings.TrimSpace(query), "SELECT") {
		d.reads++
		if d.record == nil {
			return nil, database.ErrNotFound
		}
		return d.record, nil
	}

	d.writes++
	if len(d.writeErrs) > 0 {
		err := d.writeErrs[0]
		d.writeErrs = d.writeErrs[1:]
		return nil, err
	}
	return eventRecord(vars["next_revision"].(int)), nil
}

// eventRecord builds a stored-event map the way the driver hands them
// back.
func eventRecord(revision int) map[string]interface{} {
	return map[string]interface{}{
		"id":         "event:retry",
		"code":       "ABCDE",
		"title":      "Tuesday Night Dinks",
		"date":       "2026-09-01T18:00:00Z",
		"end_time":   "2026-09-01T20:00:00Z",
		"team_size":  2,
		"max_teams":  4,
		"visibility": "public",
		"join_type":  "open",
		"status":     "active",
		"owner_id":   "user:owner",
		"revision":   revision,
	}
}

// conflicts returns n straight revision-guard misses. The guarded
// UPDATE matches no row when the revision moved, which the driver
// reports as not-found.
func conflicts(n int) []error {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = database.ErrNotFound
	}
	return errs
}

// ============================================================================
// UpdateAtomic
// ============================================================================

func TestUpdateAtomic_RetriesPastConflicts(t *testing.T) {
	db := &scriptedDB{record: eventRecord(3), writeErrs: conflicts(2)}
	repo := NewEventRepository(db)

	fnCalls := 0
	updated, err := repo.UpdateAtomic(context.Background(), "event:retry", func(e *model.Event) error {
		fnCalls++
		e.Title = "Tuesday Night Dinks (moved courts)"
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateAtomic failed: %v", err)
	}

	// Two lost races plus the winning attempt, each on fresh state.
	if fnCalls != 3 {
		t.Errorf("expected fn applied 3 times, got %d", fnCalls)
	}
	if db.reads != 3 || db.writes != 3 {
		t.Errorf("expected 3 reads and 3 writes, got %d/%d", db.reads, db.writes)
	}
	if updated.Revision != 4 {
		t.Errorf("expected revision 4 after the write, got %d", updated.Revision)
	}
}

func TestUpdateAtomic_ExhaustionSurfacesConflict(t *testing.T) {
	db := &scriptedDB{record: eventRecord(3), writeErrs: conflicts(maxUpdateAttempts)}
	repo := NewEventRepository(db)

	fnCalls := 0
	_, err := repo.UpdateAtomic(context.Background(), "event:retry", func(e *model.Event) error {
		fnCalls++
		return nil
	})

	if !errors.Is(err, database.ErrConflict) {
		t.Fatalf("expected database.ErrConflict, got %v", err)
	}
	if db.writes != maxUpdateAttempts {
		t.Errorf("expected exactly %d write attempts, got %d", maxUpdateAttempts, db.writes)
	}
	if fnCalls != maxUpdateAttempts {
		t.Errorf("expected fn applied %d times, got %d", maxUpdateAttempts, fnCalls)
	}
}

func TestUpdateAtomic_FnErrorAbortsWithoutWriting(t *testing.T) {
	db := &scriptedDB{record: eventRecord(3)}
	repo := NewEventRepository(db)

	boom := errors.New("roster rule broken")
	_, err := repo.UpdateAtomic(context.Background(), "event:retry", func(e *model.Event) error {
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error passed through, got %v", err)
	}
	if db.writes != 0 {
		t.Errorf("expected no write after fn error, got %d", db.writes)
	}
}

func TestUpdateAtomic_MissingEvent(t *testing.T) {
	db := &scriptedDB{} // no record stored
	repo := NewEventRepository(db)

	_, err := repo.UpdateAtomic(context.Background(), "event:gone", func(e *model.Event) error {
		t.Error("fn must not run for a missing event")
		return nil
	})

	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected database.ErrNotFound, got %v", err)
	}
	if db.writes != 0 {
		t.Errorf("expected no writes, got %d", db.writes)
	}
}

func TestUpdateAtomic_NonConflictWriteErrorStopsRetrying(t *testing.T) {
	db := &scriptedDB{record: eventRecord(3), writeErrs: []error{database.ErrQuery}}
	repo := NewEventRepository(db)

	_, err := repo.UpdateAtomic(context.Background(), "event:retry", func(e *model.Event) error {
		return nil
	})

	if !errors.Is(err, database.ErrQuery) {
		t.Fatalf("expected database.ErrQuery, got %v", err)
	}
	if db.writes != 1 {
		t.Errorf("a non-conflict failure must not retry, got %d writes", db.writes)
	}
}
