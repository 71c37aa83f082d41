package kv

import (
	"regexp"
	"sort"
	"sync"
)

// memKV is a transient in-memory KV implementation intended for tests,
// grounded on andreyvit-edb's storage_mem.go in-memory backend shape.
type memKV struct {
	mu   sync.Mutex
	dbs  map[string]map[string][]byte
}

// NewMemKV returns an in-memory KV. No state is persisted across process
// restarts; it exists so unit tests exercise the facade without a bbolt file.
func NewMemKV() *memKV {
	return &memKV{dbs: make(map[string]map[string][]byte)}
}

func (m *memKV) Init(db string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.dbs[db]; !ok {
		m.dbs[db] = make(map[string][]byte)
	}
	return nil
}

func (m *memKV) Unlink(db string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dbs[db] = make(map[string][]byte)
	return nil
}

func (m *memKV) Close() error {
	return nil
}

func (m *memKV) Get(db, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.dbs[db]
	if !ok {
		return nil, false, ErrNotInitialized
	}
	v, ok := bucket[key]
	if !ok {
		return nil, false, nil
	}
	if len(v) == 0 {
		return nil, true, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *memKV) Set(db, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.dbs[db]
	if !ok {
		return ErrNotInitialized
	}
	if value == nil {
		value = []byte{}
	}
	bucket[key] = value
	return nil
}

func (m *memKV) Delete(db, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.dbs[db]
	if !ok {
		return ErrNotInitialized
	}
	delete(bucket, key)
	return nil
}

func (m *memKV) Exists(db, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.dbs[db]
	if !ok {
		return false, ErrNotInitialized
	}
	_, exists := bucket[key]
	return exists, nil
}

func (m *memKV) RegexScan(db, re string) ([]Pair, error) {
	rx, err := regexp.Compile(re)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.dbs[db]
	if !ok {
		return nil, ErrNotInitialized
	}
	var pairs []Pair
	for k, v := range bucket {
		if !rx.MatchString(k) {
			continue
		}
		var value []byte
		if len(v) > 0 {
			value = append([]byte(nil), v...)
		}
		pairs = append(pairs, Pair{Key: k, Value: value})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs, nil
}

var _ KV = (*memKV)(nil)
