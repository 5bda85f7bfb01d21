package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJitterStaysInBounds(t *testing.T) {
	min := 10 * time.Millisecond
	max := 50 * time.Millisecond

	for i := 0; i < 100; i++ {
		d := Jitter(min, max)
		assert.GreaterOrEqual(t, d, min)
		assert.LessOrEqual(t, d, max)
	}
}

func TestJitterDegenerateRange(t *testing.T) {
	assert.Equal(t, 5*time.Second, Jitter(5*time.Second, 5*time.Second))
	assert.Equal(t, 5*time.Second, Jitter(5*time.Second, time.Second))
}

func TestRandomSleepHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RandomSleep(ctx, time.Minute, time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRandomSleepReturnsSleptDuration(t *testing.T) {
	slept, err := RandomSleep(context.Background(), time.Millisecond, 5*time.Millisecond)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, slept, time.Millisecond)
	assert.LessOrEqual(t, slept, 5*time.Millisecond)
}
