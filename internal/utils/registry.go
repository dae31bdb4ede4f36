package utils

import (
	"github.com/dolthub/swiss"
)

// Handle is the key type of a Registry
type Handle interface {
	~uint64
}

// Registry hands out opaque handles for native objects and maps them back. Handles are never
// reused, so a stale handle is never confused with a newer object.
type Registry[K Handle, V any] struct {
	mutex   OptionalRWMutex
	next    K
	objects *swiss.Map[K, V]
}

func NewRegistry[K Handle, V any](useMutex bool) *Registry[K, V] {
	return &Registry[K, V]{
		mutex: OptionalRWMutex{
			UseMutex: useMutex,
		},
		objects: swiss.NewMap[K, V](16),
	}
}

// Register stores an object and returns its new handle. Handles start at 1, so the zero
// handle is never valid.
func (r *Registry[K, V]) Register(object V) K {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.next++
	r.objects.Put(r.next, object)
	return r.next
}

// Get returns the object for a handle, or false if the handle is not registered
func (r *Registry[K, V]) Get(handle K) (V, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.objects.Get(handle)
}

// Remove unregisters a handle and returns the object it referred to
func (r *Registry[K, V]) Remove(handle K) (V, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	object, ok := r.objects.Get(handle)
	if ok {
		r.objects.Delete(handle)
	}
	return object, ok
}

func (r *Registry[K, V]) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.objects.Count()
}
