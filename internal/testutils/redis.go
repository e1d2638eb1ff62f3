// Package testutils provides shared test helpers.
package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/caravangame/caravan-api/internal/redis"
)

// CreateTestRedisClient creates an in-memory Redis client for testing.
func CreateTestRedisClient(t *testing.T) (redis.Client, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to create miniredis")

	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err, "failed to create redis client")

	return client, mr.Close
}

// CreateTestRedisClientWithSetup creates an in-memory Redis client and
// lets the test populate the server before the client touches it.
func CreateTestRedisClientWithSetup(t *testing.T, setup func(mr *miniredis.Miniredis)) (redis.Client, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to create miniredis")

	if setup != nil {
		setup(mr)
	}

	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err, "failed to create redis client")

	return client, mr.Close
}
