package store

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/jxskiss/base62"
)

const runKeyPrefix = "run:"

// badgerRepository is the BadgerDB implementation of RunRepository.
type badgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository opens (or creates) the run database at dbPath.
func NewBadgerRepository(dbPath string) (RunRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	// Badger's own logging is noisy; errors still surface from the calls.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerRepository{db: db}, nil
}

// NewRunID returns a short URL-safe run identifier. The leading timestamp
// keeps IDs roughly sortable by creation time.
func NewRunID() string {
	var buf [12]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(time.Now().UnixNano()))
	_, _ = rand.Read(buf[8:])
	return "run_" + base62.EncodeToString(buf[:])
}

func runKey(id string) []byte {
	return []byte(runKeyPrefix + id)
}

func (r *badgerRepository) SaveRun(rec *RunRecord) error {
	if rec == nil || rec.ID == "" {
		return errors.New("run record has no ID")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(rec.ID), data)
	})
}

func (r *badgerRepository) GetRun(id string) (*RunRecord, error) {
	var rec RunRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *badgerRepository) ListRuns() ([]RunSummary, error) {
	var out []RunSummary
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(runKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec RunRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				out = append(out, rec.Summary())
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *badgerRepository) DeleteRun(id string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(runKey(id)); err != nil {
			return err
		}
		return txn.Delete(runKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrRunNotFound
	}
	return err
}

func (r *badgerRepository) Close() error {
	return r.db.Close()
}
