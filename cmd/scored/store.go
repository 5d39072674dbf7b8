package main

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Entry mirrors the client's score record.
type Entry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Lines int    `json:"lines"`
	Level int    `json:"level"`
	When  string `json:"when"`
}

// Store keeps the score table in memory and mirrors every change to a JSON
// file. One process owns the file, so a mutex is all the locking it needs.
type Store struct {
	mu      sync.Mutex
	path    string
	entries []Entry
}

func OpenStore(path string) (*Store, error) {
	store := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &store.entries); err != nil {
		return nil, err
	}
	return store, nil
}

// Top returns the highest entries, capped at limit.
func (s *Store) Top(limit int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}
	top := make([]Entry, limit)
	copy(top, s.entries[:limit])
	return top
}

// Add inserts an entry, assigning an ID when the client sent none, and
// persists the table. Entries with a known ID are ignored so retried uploads
// stay idempotent.
func (s *Store) Add(entry Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	} else {
		for _, existing := range s.entries {
			if existing.ID == entry.ID {
				return existing, nil
			}
		}
	}
	s.entries = append(s.entries, entry)
	sort.Slice(s.entries, func(i, j int) bool {
		if s.entries[i].Score == s.entries[j].Score {
			return s.entries[i].When > s.entries[j].When
		}
		return s.entries[i].Score > s.entries[j].Score
	})
	if err := s.persist(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
