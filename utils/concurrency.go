package utils

import "sync"

// KeyedMutex is a set of mutexes addressed by string key. Entries are created
// on demand and dropped once nobody holds or waits for them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

func (k *KeyedMutex) acquireRef(key string) *keyLock {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{sem: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	return l
}

func (k *KeyedMutex) releaseRef(key string, l *keyLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}

// Lock blocks until key is free and returns the function that frees it.
func (k *KeyedMutex) Lock(key string) func() {
	l := k.acquireRef(key)
	l.sem <- struct{}{}
	return k.unlocker(key, l)
}

// TryLock takes key only if nobody holds it. The returned unlock function is
// nil when ok is false.
func (k *KeyedMutex) TryLock(key string) (unlock func(), ok bool) {
	l := k.acquireRef(key)
	select {
	case l.sem <- struct{}{}:
		return k.unlocker(key, l), true
	default:
		k.releaseRef(key, l)
		return nil, false
	}
}

func (k *KeyedMutex) unlocker(key string, l *keyLock) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			k.releaseRef(key, l)
		})
	}
}
