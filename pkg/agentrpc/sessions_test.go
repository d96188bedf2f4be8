package agentrpc

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsAcquireReusesRunner(t *testing.T) {
	built := 0
	sessions := NewSessions(func(string) (Runner, error) {
		built++
		return &scriptedRunner{}, nil
	}, 0, 0)

	first, release, err := sessions.Acquire("s1", "qwen")
	require.NoError(t, err)
	release()
	second, release, err := sessions.Acquire("s1", "qwen")
	require.NoError(t, err)
	release()

	assert.Same(t, first.(*scriptedRunner), second.(*scriptedRunner))
	assert.Equal(t, 1, built)
	assert.Equal(t, 1, sessions.Len())
}

func TestSessionsAcquireRebuildsOnModelChange(t *testing.T) {
	built := 0
	sessions := NewSessions(func(string) (Runner, error) {
		built++
		return &scriptedRunner{}, nil
	}, 0, 0)

	first, release, err := sessions.Acquire("s1", "qwen")
	require.NoError(t, err)
	release()
	second, release, err := sessions.Acquire("s1", "deepseek")
	require.NoError(t, err)
	release()

	assert.NotSame(t, first.(*scriptedRunner), second.(*scriptedRunner))
	assert.Equal(t, 2, built)
	assert.Equal(t, 1, sessions.Len())
}

func TestSessionsAcquireFactoryError(t *testing.T) {
	sessions := NewSessions(func(string) (Runner, error) {
		return nil, errors.New("unknown model")
	}, 0, 0)

	_, _, err := sessions.Acquire("s1", "nope")
	require.Error(t, err)
	assert.Equal(t, 0, sessions.Len())
}

func TestSessionsAcquireSerializesTurns(t *testing.T) {
	sessions := NewSessions(func(string) (Runner, error) {
		return &scriptedRunner{}, nil
	}, 0, 0)

	_, release, err := sessions.Acquire("s1", "qwen")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		_, second, err := sessions.Acquire("s1", "qwen")
		assert.NoError(t, err)
		second()
		close(acquired)
	}()

	// The second turn must queue behind the first.
	select {
	case <-acquired:
		t.Fatal("second Acquire returned while the first turn was still held")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Acquire did not proceed after release")
	}
}

func TestSessionsAcquireIndependentSessions(t *testing.T) {
	sessions := NewSessions(func(string) (Runner, error) {
		return &scriptedRunner{}, nil
	}, 0, 0)

	_, releaseA, err := sessions.Acquire("a", "qwen")
	require.NoError(t, err)
	defer releaseA()

	// A held turn on one session must not block another session.
	acquired := make(chan struct{})
	go func() {
		_, releaseB, err := sessions.Acquire("b", "qwen")
		assert.NoError(t, err)
		releaseB()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Acquire on a different session blocked")
	}
}

func TestSessionsReapEvictsIdle(t *testing.T) {
	sessions := NewSessions(func(string) (Runner, error) {
		return &scriptedRunner{}, nil
	}, 10*time.Millisecond, time.Hour)

	_, release, err := sessions.Acquire("idle", "")
	require.NoError(t, err)
	release()

	time.Sleep(20 * time.Millisecond)
	_, release, err = sessions.Acquire("fresh", "")
	require.NoError(t, err)
	release()

	sessions.reap()

	assert.Equal(t, 1, sessions.Len())
	_, release, err = sessions.Acquire("fresh", "")
	require.NoError(t, err)
	release()
	assert.Equal(t, 1, sessions.Len())
}

func TestSessionsReapSkipsInFlight(t *testing.T) {
	sessions := NewSessions(func(string) (Runner, error) {
		return &scriptedRunner{}, nil
	}, 10*time.Millisecond, time.Hour)

	_, release, err := sessions.Acquire("busy", "")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	sessions.reap()

	// Mid-turn sessions survive the sweep regardless of age.
	assert.Equal(t, 1, sessions.Len())

	release()
	sessions.reap()
	assert.Equal(t, 0, sessions.Len())
}

func TestSessionsStartStop(t *testing.T) {
	sessions := NewSessions(func(string) (Runner, error) {
		return &scriptedRunner{}, nil
	}, time.Hour, time.Millisecond)

	sessions.Start()
	sessions.Start()
	time.Sleep(5 * time.Millisecond)
	sessions.Stop()
}
