//go:build integration

package service_test

import (
	"context"
	"io"
	"testing"
	"time"

	"staff-service/internal/domain/entity"
	"staff-service/internal/service"
	"staff-service/internal/testutil/containers"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDoctorCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	redis := containers.NewRedisContainer(t)
	cache := service.NewRedisDoctorCache(redis.Client, time.Minute, log)
	ctx := context.Background()

	doctor := &entity.Doctor{
		ID:         uuid.New(),
		Name:       "Doctor",
		Surname:    "First",
		Specialty:  entity.SpecialtyNeurology,
		NationalID: "64781738F",
		ClinicID:   uuid.New(),
		UserID:     uuid.New(),
		Active:     true,
	}

	_, ok := cache.Get(ctx, doctor.ID)
	assert.False(t, ok)

	cache.Set(ctx, doctor)
	cached, ok := cache.Get(ctx, doctor.ID)
	require.True(t, ok)
	assert.Equal(t, doctor.NationalID, cached.NationalID)
	assert.Equal(t, doctor.UserID, cached.UserID)

	ttl, err := redis.Client.TTL(ctx, service.RedisDoctorKeyPrefix+doctor.ID.String()).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	stale := *doctor
	stale.Specialty = entity.SpecialtySurgery
	cache.Set(ctx, &stale)
	cached, ok = cache.Get(ctx, doctor.ID)
	require.True(t, ok)
	assert.Equal(t, entity.SpecialtyNeurology, cached.Specialty)

	require.NoError(t, cache.Invalidate(ctx, doctor.ID))
	_, ok = cache.Get(ctx, doctor.ID)
	assert.False(t, ok)

	// A reader that fetched the row before the write cannot put it back.
	cache.Set(ctx, doctor)
	_, ok = cache.Get(ctx, doctor.ID)
	assert.False(t, ok)

	ttl, err = redis.Client.TTL(ctx, service.RedisDoctorKeyPrefix+doctor.ID.String()).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, service.TombstoneTTL)
}

func TestRedisDoctorCache_UnreachableIsAMiss(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	redis := containers.NewRedisContainer(t)
	cache := service.NewRedisDoctorCache(redis.Client, time.Minute, log)
	require.NoError(t, redis.Client.Close())

	doctor := &entity.Doctor{ID: uuid.New()}
	cache.Set(context.Background(), doctor)
	_, ok := cache.Get(context.Background(), doctor.ID)
	assert.False(t, ok)
	assert.Error(t, cache.Invalidate(context.Background(), doctor.ID))
}
