/*
Package history keeps summaries of past benchmark runs in a BoltDB file.
*/
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nspcc-dev/psv/pkg/bench"
	"github.com/nspcc-dev/psv/pkg/io"
	"go.etcd.io/bbolt"
)

// Bucket is the BoltDB bucket containing runs.
var Bucket = []byte("runs")

// ErrNotFound is returned by Get for unknown runs.
var ErrNotFound = errors.New("run not found")

// Run is a single benchmark run record.
type Run struct {
	ID         uuid.UUID     `json:"id"`
	Started    time.Time     `json:"started"`
	Executable string        `json:"executable"`
	Strategy   string        `json:"strategy"`
	Numbers    int           `json:"numbers"`
	Tests      int           `json:"tests"`
	Workers    int           `json:"workers"`
	Passed     int           `json:"passed"`
	Aborted    int           `json:"aborted"`
	Skipped    int           `json:"skipped"`
	Min        int           `json:"min"`
	Avg        float64       `json:"avg"`
	Max        int           `json:"max"`
	Duration   time.Duration `json:"duration"`
}

// NewRun creates a record with a fresh ID for a finished benchmark.
func NewRun(started time.Time, cfg bench.Config, s *bench.Summary) Run {
	return Run{
		ID:         uuid.New(),
		Started:    started,
		Executable: cfg.Executable.Path,
		Strategy:   cfg.Executable.Strategy.String(),
		Numbers:    cfg.Numbers,
		Tests:      cfg.Tests,
		Workers:    cfg.Workers,
		Passed:     s.Passed,
		Aborted:    s.Aborted,
		Skipped:    s.Skipped,
		Min:        s.Min,
		Avg:        s.Avg,
		Max:        s.Max,
		Duration:   s.Duration,
	}
}

// key orders runs by start time, ID makes it unique.
func (r *Run) key() []byte {
	k := make([]byte, 8, 8+len(r.ID))
	binary.BigEndian.PutUint64(k, uint64(r.Started.UnixNano()))
	return append(k, r.ID[:]...)
}

// Store is a BoltDB-backed run history.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the history file at the given path.
func Open(path string) (*Store, error) {
	if err := io.MakeDirForFile(path, "history"); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(Bucket)
		if err != nil {
			return fmt.Errorf("could not create root bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Put saves the run.
func (s *Store) Put(r Run) error {
	val, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(Bucket).Put(r.key(), val)
	})
}

// Get returns the run with the given ID.
func (s *Store) Get(id uuid.UUID) (Run, error) {
	var (
		res   Run
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(Bucket).ForEach(func(k, v []byte) error {
			if found || len(k) != 8+len(id) || uuid.UUID(k[8:]) != id {
				return nil
			}
			found = true
			return json.Unmarshal(v, &res)
		})
	})
	if err != nil {
		return Run{}, err
	}
	if !found {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return res, nil
}

// List returns all runs, oldest first.
func (s *Store) List() ([]Run, error) {
	var res []Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(Bucket).ForEach(func(_, v []byte) error {
			var r Run
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("corrupted record: %w", err)
			}
			res = append(res, r)
			return nil
		})
	})
	return res, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
