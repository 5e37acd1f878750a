package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"auction_system/internal/notify"
	"auction_system/internal/storage"
)

// MapCache is an in-memory utils.Cache that ignores TTLs.
type MapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMapCache() *MapCache {
	return &MapCache{entries: map[string][]byte{}}
}

func (c *MapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	b, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = b
	c.mu.Unlock()
	return nil
}

func (c *MapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
	return nil
}

// Has reports whether key is cached.
func (c *MapCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// FakeNotifier records winner notices and optionally fails.
type FakeNotifier struct {
	mu   sync.Mutex
	Err  error
	sent []notify.WinnerNotice
}

func (n *FakeNotifier) NotifyWinner(_ context.Context, notice notify.WinnerNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.sent = append(n.sent, notice)
	return nil
}

func (n *FakeNotifier) Sent() []notify.WinnerNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.WinnerNotice(nil), n.sent...)
}

// MemImages is an in-memory storage.ImageStore.
type MemImages struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemImages() *MemImages {
	return &MemImages{files: map[string][]byte{}}
}

func (m *MemImages) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.files[name] = b
	m.mu.Unlock()
	return nil
}

func (m *MemImages) Open(_ context.Context, name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *MemImages) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return storage.ErrNotFound
	}
	delete(m.files, name)
	return nil
}

// Names lists the stored object names.
func (m *MemImages) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for k := range m.files {
		out = append(out, k)
	}
	return out
}
