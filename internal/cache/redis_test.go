package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagoyameshi/nagoyameshi-api/internal/config"
	"github.com/nagoyameshi/nagoyameshi-api/internal/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache, mr
}

func TestSetAndGet(t *testing.T) {
	cache, _ := setupTestCache(t)

	expected := models.Restaurant{
		ID:        5,
		Name:      "矢場とん",
		BudgetMin: 1000,
		BudgetMax: 2500,
		IsActive:  true,
	}
	err := cache.Set("restaurant:5", expected, time.Minute)
	require.NoError(t, err)

	var actual models.Restaurant
	found, err := cache.Get("restaurant:5", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Name, actual.Name)
	assert.Equal(t, expected.BudgetMax, actual.BudgetMax)
}

func TestGetNotFound(t *testing.T) {
	cache, _ := setupTestCache(t)

	var out models.Restaurant
	found, err := cache.Get("restaurant:404", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExpiration(t *testing.T) {
	cache, mr := setupTestCache(t)

	err := cache.Set("restaurant:5", models.Restaurant{ID: 5}, time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	var out models.Restaurant
	found, err := cache.Get("restaurant:5", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache, _ := setupTestCache(t)

	err := cache.Set("restaurant:5", models.Restaurant{ID: 5}, time.Minute)
	require.NoError(t, err)

	err = cache.Invalidate("restaurant:5")
	require.NoError(t, err)

	var out models.Restaurant
	found, err := cache.Get("restaurant:5", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetInvalidJSON(t *testing.T) {
	cache, _ := setupTestCache(t)

	err := cache.Db.Set(context.Background(), "restaurant:bad", []byte("not-json"), time.Minute).Err()
	require.NoError(t, err)

	var out models.Restaurant
	found, err := cache.Get("restaurant:bad", &out)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestInitServerInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		AddressRedis: "127.0.0.1:9999",
	}

	cache, err := InitServer(context.Background(), cfg)
	assert.Nil(t, cache)
	assert.Error(t, err)
}
