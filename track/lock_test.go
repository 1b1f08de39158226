package track

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimedMutexBasic(t *testing.T) {
	m := newTimedMutex()

	require.NoError(t, m.lock(time.Millisecond))
	m.unlock()
	require.NoError(t, m.lock(time.Millisecond), "must be acquirable again after unlock")
	m.unlock()
}

func TestTimedMutexBoundedWait(t *testing.T) {
	m := newTimedMutex()
	require.NoError(t, m.lock(time.Millisecond))

	start := time.Now()
	err := m.lock(10 * time.Millisecond)
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrLockTimeout)
	require.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
	m.unlock()
}

func TestTimedMutexHandoff(t *testing.T) {
	m := newTimedMutex()
	require.NoError(t, m.lock(time.Millisecond))

	done := make(chan error, 1)
	go func() {
		done <- m.lock(time.Second)
	}()

	time.Sleep(5 * time.Millisecond)
	m.unlock()

	require.NoError(t, <-done, "a waiter inside its bound must acquire after release")
	m.unlock()
}

func TestTimedMutexMutualExclusion(t *testing.T) {
	m := newTimedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if err := m.lock(time.Second); err != nil {
					t.Error(err)
					return
				}
				counter++
				m.unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1600, counter)
}

func TestTimedMutexUnlockUnlocked(t *testing.T) {
	m := newTimedMutex()
	require.Panics(t, func() { m.unlock() })
}
