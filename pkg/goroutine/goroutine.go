// Package goroutine tracks named worker goroutines so that callers can report
// what is still running when an operation is interrupted.
package goroutine

import (
	"sort"
	"sync"
	"sync/atomic"
)

var (
	goroutineCounter uint64

	mu     sync.Mutex
	active = map[uint64]string{}
)

// RegisterGoroutine records a running goroutine under name and returns its ID.
func RegisterGoroutine(name string) uint64 {
	id := atomic.AddUint64(&goroutineCounter, 1)
	mu.Lock()
	active[id] = name
	mu.Unlock()
	return id
}

// DeregisterGoroutine removes the goroutine with the given ID.
func DeregisterGoroutine(id uint64) {
	mu.Lock()
	delete(active, id)
	mu.Unlock()
}

// GetActiveGoroutines returns a copy of the registry.
func GetActiveGoroutines() map[uint64]string {
	mu.Lock()
	defer mu.Unlock()
	result := make(map[uint64]string, len(active))
	for id, name := range active {
		result[id] = name
	}
	return result
}

// ActiveNames returns the sorted names of registered goroutines.
func ActiveNames() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(active))
	for _, name := range active {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
