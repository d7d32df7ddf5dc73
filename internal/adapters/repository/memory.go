package repository

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/pkg/metrics"
)

// MemoryStore keeps all tables in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	schema map[string][]string
	tables map[string][]Row
}

// NewMemoryStore returns an empty store with the score board schema.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		schema: Schema(),
		tables: make(map[string][]Row),
	}
}

// Read implements Store.
func (s *MemoryStore) Read(ctx context.Context, table, where string, params ...any) ([]Row, error) {
	start := time.Now()
	defer observe("read", table, start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cols, ok := s.schema[table]
	if !ok {
		return nil, unknownTable(table)
	}
	filter, err := parseFilter(where, params)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(table, cols, filter); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Row
	for _, r := range s.tables[table] {
		if matches(r, filter, params) {
			out = append(out, maps.Clone(r))
		}
	}
	return out, nil
}

// Write implements Store.
func (s *MemoryStore) Write(ctx context.Context, table string, rows []Row) error {
	start := time.Now()
	defer observe("write", table, start)

	if err := ctx.Err(); err != nil {
		return err
	}
	cols, ok := s.schema[table]
	if !ok {
		return unknownTable(table)
	}
	next := make([]Row, 0, len(rows))
	for _, r := range rows {
		stored := make(Row, len(cols))
		for _, c := range cols {
			stored[c] = nil
		}
		for k, v := range r {
			if _, known := stored[k]; !known {
				return unknownColumn(table, k)
			}
			stored[k] = storedValue(v)
		}
		next = append(next, stored)
	}

	s.mu.Lock()
	s.tables[table] = next
	s.mu.Unlock()
	return nil
}

// UpdateMatching implements Store.
func (s *MemoryStore) UpdateMatching(ctx context.Context, table string, rows []Row, keyColumns, updateColumns []string) error {
	start := time.Now()
	defer observe("update", table, start)

	if err := ctx.Err(); err != nil {
		return err
	}
	cols, ok := s.schema[table]
	if !ok {
		return unknownTable(table)
	}
	if err := checkColumns(table, cols, keyColumns); err != nil {
		return err
	}
	if err := checkColumns(table, cols, updateColumns); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.tables[table]
	for _, r := range rows {
		keys := make([]any, len(keyColumns))
		for i, k := range keyColumns {
			keys[i] = r[k]
		}
		for _, existing := range stored {
			if !matches(existing, keyColumns, keys) {
				continue
			}
			for _, c := range updateColumns {
				existing[c] = storedValue(r[c])
			}
		}
	}
	return nil
}

func matches(r Row, cols []string, want []any) bool {
	for i, c := range cols {
		if !sameValue(r[c], want[i]) {
			return false
		}
	}
	return true
}

func observe(op, table string, start time.Time) {
	metrics.RecordStorageOperation(op, table, float64(time.Since(start).Microseconds())/1000)
}
