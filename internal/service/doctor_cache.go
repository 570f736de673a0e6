package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"staff-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisDoctorKeyPrefix prefixes cached doctor documents
const RedisDoctorKeyPrefix = "staff:doctor:"

// TombstoneTTL is how long an invalidated id refuses new fills. It must outlive
// any read that started before the invalidation.
const TombstoneTTL = 30 * time.Second

const (
	// redisOpTimeout bounds a single cache call so a slow redis never stalls a request
	redisOpTimeout = 500 * time.Millisecond

	redisTombstone          = "tombstone"
	invalidateAttempts      = 3
	invalidateRetryInterval = 50 * time.Millisecond
)

// DoctorCache caches doctors by id.
//
// Set only fills an empty slot: it never replaces a cached doctor or a tombstone.
// Invalidate drops the cached doctor and leaves a tombstone for TombstoneTTL, so a
// reader holding a row fetched before the write cannot put it back. Get and Set treat
// their own failures as misses; Invalidate reports failure so writers can stop.
type DoctorCache interface {
	Get(ctx context.Context, id uuid.UUID) (*entity.Doctor, bool)
	Set(ctx context.Context, doctor *entity.Doctor)
	Invalidate(ctx context.Context, id uuid.UUID) error
}

type redisDoctorCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRedisDoctorCache(client *redis.Client, ttl time.Duration, log *logrus.Logger) DoctorCache {
	return &redisDoctorCache{client: client, ttl: ttl, log: log}
}

func (c *redisDoctorCache) Get(ctx context.Context, id uuid.UUID) (*entity.Doctor, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, doctorKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Failed to read doctor %s from cache: %+v", id, err)
		}
		return nil, false
	}
	if string(raw) == redisTombstone {
		return nil, false
	}

	var doctor entity.Doctor
	if err := json.Unmarshal(raw, &doctor); err != nil {
		c.log.Warnf("Failed to decode cached doctor %s: %+v", id, err)
		return nil, false
	}
	return &doctor, true
}

func (c *redisDoctorCache) Set(ctx context.Context, doctor *entity.Doctor) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	raw, err := json.Marshal(doctor)
	if err != nil {
		c.log.Warnf("Failed to encode doctor %s for cache: %+v", doctor.ID, err)
		return
	}
	if err := c.client.SetNX(ctx, doctorKey(doctor.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warnf("Failed to cache doctor %s: %+v", doctor.ID, err)
	}
}

func (c *redisDoctorCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	var err error
	for attempt := 1; attempt <= invalidateAttempts; attempt++ {
		if err = c.writeTombstone(ctx, id); err == nil {
			return nil
		}
		c.log.Warnf("Failed to invalidate cached doctor %s (attempt %d/%d): %+v", id, attempt, invalidateAttempts, err)

		if attempt < invalidateAttempts {
			select {
			case <-ctx.Done():
				return fmt.Errorf("invalidate cached doctor %s: %w", id, ctx.Err())
			case <-time.After(invalidateRetryInterval):
			}
		}
	}
	return fmt.Errorf("invalidate cached doctor %s: %w", id, err)
}

func (c *redisDoctorCache) writeTombstone(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return c.client.Set(ctx, doctorKey(id), redisTombstone, TombstoneTTL).Err()
}

type memoryCacheEntry struct {
	doctor    *entity.Doctor // nil marks a tombstone
	expiresAt time.Time
}

type memoryDoctorCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[uuid.UUID]memoryCacheEntry
	now     func() time.Time
}

// NewMemoryDoctorCache returns a process-local cache. Only safe when the store is
// process-local too, since other replicas cannot invalidate it.
func NewMemoryDoctorCache(ttl time.Duration) DoctorCache {
	return &memoryDoctorCache{
		ttl:     ttl,
		entries: make(map[uuid.UUID]memoryCacheEntry),
		now:     time.Now,
	}
}

func (c *memoryDoctorCache) Get(_ context.Context, id uuid.UUID) (*entity.Doctor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.live(id)
	if !ok || entry.doctor == nil {
		return nil, false
	}
	doctor := *entry.doctor
	return &doctor, true
}

func (c *memoryDoctorCache) Set(_ context.Context, doctor *entity.Doctor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.live(doctor.ID); ok {
		return
	}
	stored := *doctor
	c.entries[doctor.ID] = memoryCacheEntry{doctor: &stored, expiresAt: c.now().Add(c.ttl)}
}

func (c *memoryDoctorCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = memoryCacheEntry{expiresAt: c.now().Add(TombstoneTTL)}
	return nil
}

// live returns the unexpired entry for id, dropping an expired one. Callers hold mu.
func (c *memoryDoctorCache) live(id uuid.UUID) (memoryCacheEntry, bool) {
	entry, ok := c.entries[id]
	if !ok {
		return entry, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, id)
		return entry, false
	}
	return entry, true
}

type noopDoctorCache struct{}

// NewNoopDoctorCache returns a cache that never stores anything
func NewNoopDoctorCache() DoctorCache {
	return noopDoctorCache{}
}

func (noopDoctorCache) Get(context.Context, uuid.UUID) (*entity.Doctor, bool) { return nil, false }
func (noopDoctorCache) Set(context.Context, *entity.Doctor)                   {}
func (noopDoctorCache) Invalidate(context.Context, uuid.UUID) error           { return nil }

func doctorKey(id uuid.UUID) string {
	return RedisDoctorKeyPrefix + id.String()
}
