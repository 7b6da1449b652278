package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	redisclient "github.com/angelmondragon/startupidea/pkg/redis"
)

// Persister keeps the active backend session across process restarts.
// Load returns (nil, nil) when nothing is stored.
type Persister interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, record Record) error
	Clear(ctx context.Context) error
}

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(name string) string
}

// RedisPersister stores the session as JSON under a namespaced key.
type RedisPersister struct {
	store sessionStore
	key   string
	ttl   time.Duration
}

// NewRedisPersister constructs a persister backed by Redis.
func NewRedisPersister(client *redisclient.Client, name string, ttl time.Duration) (*RedisPersister, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newRedisPersister(client, client, name, ttl)
}

func newRedisPersister(store sessionStore, keyer sessionKeyer, name string, ttl time.Duration) (*RedisPersister, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("session name is required")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("session ttl must not be negative")
	}
	return &RedisPersister{store: store, key: keyer.SessionKey(name), ttl: ttl}, nil
}

func (p *RedisPersister) Load(ctx context.Context) (*Record, error) {
	raw, err := p.store.Get(ctx, p.key)
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeRecord(raw)
}

func (p *RedisPersister) Save(ctx context.Context, record Record) error {
	if err := record.validate(); err != nil {
		return err
	}
	raw, err := encodeRecord(record)
	if err != nil {
		return err
	}
	return p.store.Set(ctx, p.key, raw, p.ttl)
}

func (p *RedisPersister) Clear(ctx context.Context) error {
	return p.store.Del(ctx, p.key)
}

// MemoryPersister keeps the session for the lifetime of the process only.
type MemoryPersister struct {
	mu     sync.Mutex
	record *Record
}

// NewMemoryPersister keeps the session in process memory only.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (p *MemoryPersister) Load(context.Context) (*Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.record == nil {
		return nil, nil
	}
	cp := *p.record
	return &cp, nil
}

func (p *MemoryPersister) Save(_ context.Context, record Record) error {
	if err := record.validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record = &record
	return nil
}

func (p *MemoryPersister) Clear(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record = nil
	return nil
}
