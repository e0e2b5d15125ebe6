package utils

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexTryLock(t *testing.T) {
	km := NewKeyedMutex()

	unlock, ok := km.TryLock("user-1")
	require.True(t, ok)
	assert.Len(t, km.locks, 1)

	_, ok = km.TryLock("user-1")
	assert.False(t, ok, "second TryLock on a held key must fail")

	other, ok := km.TryLock("user-2")
	require.True(t, ok, "other keys are independent")
	other()

	unlock()
	unlock() // idempotent
	assert.Empty(t, km.locks)

	again, ok := km.TryLock("user-1")
	require.True(t, ok)
	again()
	assert.Empty(t, km.locks, "entries are dropped once released")
}

func TestKeyedMutexLockSerializes(t *testing.T) {
	km := NewKeyedMutex()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("guild:user")
			defer unlock()
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, km.locks)
}
