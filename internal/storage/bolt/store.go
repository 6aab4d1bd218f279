// Package bolt keeps small JSON documents in named BoltDB buckets.
//
// The database file is opened for each operation and closed again, so several
// processes can share it: a writer only holds the file lock for the length of
// one transaction.
package bolt

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultLockTimeout bounds the wait for the file lock held by another process.
const DefaultLockTimeout = time.Second

// ErrUnknownBucket is returned when a bucket was not declared at Open.
var ErrUnknownBucket = errors.New("bucket not declared")

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("state store is closed")

// flock is per open file, so handles in the same process would wait on each
// other. Operations on one path are serialized in-process instead.
var pathLocks sync.Map

func lockFor(path string) *sync.Mutex {
	mu, _ := pathLocks.LoadOrStore(path, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Store is a handle on a BoltDB file whose declared buckets exist.
type Store struct {
	path    string
	timeout time.Duration
	lock    *sync.Mutex

	mu     sync.RWMutex
	closed bool
}

// Open initializes the BoltDB file and creates the buckets. It fails when the
// file stays locked by another process for longer than DefaultLockTimeout.
func Open(path string, buckets ...string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	s := &Store{path: path, timeout: DefaultLockTimeout, lock: lockFor(path)}

	err := s.update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Put stores value as JSON under key.
func (s *Store) Put(bucket, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrUnknownBucket
		}
		return b.Put([]byte(key), payload)
	})
}

// Get decodes the value under key into out and reports whether it existed.
func (s *Store) Get(bucket, key string, out interface{}) (bool, error) {
	var found bool
	err := s.view(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrUnknownBucket
		}
		raw := b.Get([]byte(key))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, out)
	})
	return found, err
}

// Update decodes the value under key into out and calls fn in the same write
// transaction. When fn returns true, out is stored back under key. fn sees
// whether the key existed; out is left untouched when it did not.
func (s *Store) Update(bucket, key string, out interface{}, fn func(found bool) (bool, error)) error {
	return s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrUnknownBucket
		}
		raw := b.Get([]byte(key))
		if raw != nil {
			if err := json.Unmarshal(raw, out); err != nil {
				return err
			}
		}
		write, err := fn(raw != nil)
		if err != nil || !write {
			return err
		}
		payload, err := json.Marshal(out)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), payload)
	})
}

// Delete removes key; a missing key is not an error.
func (s *Store) Delete(bucket, key string) error {
	return s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrUnknownBucket
		}
		return b.Delete([]byte(key))
	})
}

// ForEach calls fn with every raw JSON value in key order.
func (s *Store) ForEach(bucket string, fn func(key string, raw []byte) error) error {
	return s.view(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrUnknownBucket
		}
		return b.ForEach(func(k, v []byte) error {
			return fn(string(k), v)
		})
	})
}

// Close marks the store closed. Later operations return ErrClosed.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *Store) view(fn func(tx *bolt.Tx) error) error {
	return s.with(true, func(db *bolt.DB) error { return db.View(fn) })
}

func (s *Store) update(fn func(tx *bolt.Tx) error) error {
	return s.with(false, func(db *bolt.DB) error { return db.Update(fn) })
}

func (s *Store) with(readOnly bool, fn func(db *bolt.DB) error) error {
	if s == nil {
		return bolt.ErrDatabaseNotOpen
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: s.timeout, ReadOnly: readOnly})
	if err != nil {
		return err
	}
	if err := fn(db); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}
