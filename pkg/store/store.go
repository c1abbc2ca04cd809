// Package store provides the on-disk cache used by the check subprogram: a
// bbolt-backed map from source digest to the diagnostics the parser produced
// for that source. The core never touches the disk; persistence lives here,
// in the caller layer.
package store

import (
	"crypto/sha256"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketDiags = "diagnostics"

var initDB = map[string]func(*bolt.Tx) error{
	"initialize diagnostics table": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDiags))
		return err
	},
}

// Diagnostic is one stored finding.
type Diagnostic struct {
	From    int    `json:"from"`
	To      int    `json:"to"`
	Message string `json:"message"`
}

// Outcome is the stored result of checking one source.
type Outcome struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Store is a check-result cache.
type Store struct {
	db *bolt.DB
}

// Open opens the cache at the given path, creating it if necessary.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, fn := range initDB {
			if err := fn(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db}, nil
}

// Close closes the cache.
func (s *Store) Close() error {
	return s.db.Close()
}

// Digest returns the cache key for a source text.
func Digest(src string) []byte {
	sum := sha256.Sum256([]byte(src))
	return sum[:]
}

// Get returns the stored outcome for a digest.
func (s *Store) Get(digest []byte) (Outcome, bool, error) {
	var outcome Outcome
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketDiags)).Get(digest)
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &outcome); err != nil {
			return err
		}
		found = true
		return nil
	})
	return outcome, found, err
}

// Put stores the outcome for a digest.
func (s *Store) Put(digest []byte, outcome Outcome) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		v, err := json.Marshal(outcome)
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketDiags)).Put(digest, v)
	})
}
