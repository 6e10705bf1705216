package keylock_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/biovote/pkg/keylock"
	"github.com/stretchr/testify/require"
)

func TestSameKeyIsExclusive(t *testing.T) {
	m := keylock.New()

	var inside, peak atomic.Int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("V-1001")
			defer unlock()

			n := inside.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), peak.Load())
	require.Zero(t, m.Len())
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	m := keylock.New()

	unlockA := m.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := m.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
}

func TestUnlockIsIdempotent(t *testing.T) {
	m := keylock.New()
	unlock := m.Lock("a")
	require.Equal(t, 1, m.Len())
	unlock()
	unlock()
	require.Zero(t, m.Len())

	// Key is reusable afterwards.
	m.Lock("a")()
}
