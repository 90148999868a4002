package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"yes", true},
		{"YES", true},
		{"  y ", true},
		{"Y", true},
		{"no", false},
		{"", false},
		{"yeah", false},
		{"sure", false},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAffirmative(tt.answer))
		})
	}
}

func TestNewSessionState(t *testing.T) {
	a, b := NewSessionState(), NewSessionState()
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, AwaitingUser, a.Stage)
	assert.False(t, a.Done())

	a.Stage = Aborted
	assert.True(t, a.Done())
	assert.Equal(t, "aborted", a.Stage.String())
	assert.Equal(t, "unknown", Stage(99).String())
}

func TestFixedPacer(t *testing.T) {
	t.Run("zero delay returns immediately", func(t *testing.T) {
		require.NoError(t, FixedPacer{}.Wait(context.Background()))
	})

	t.Run("waits the delay", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, NewFixedPacer(20*time.Millisecond).Wait(context.Background()))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("canceled context stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewFixedPacer(time.Hour).Wait(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
