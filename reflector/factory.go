package reflector

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Factory builds Reflectors on demand.
type Factory interface {
	// Find returns the Reflector for a type, served from cache when
	// caching is enabled.
	Find(t reflect.Type) *Reflector
	CacheEnabled() bool
	SetCacheEnabled(enabled bool)
}

// DefaultFactory caches one Reflector per type. Safe for concurrent use;
// the first digest of a type wins and later concurrent digests of the same
// type are discarded.
type DefaultFactory struct {
	disabled atomic.Bool
	cache    sync.Map // reflect.Type -> *Reflector
}

// NewFactory creates a factory with caching enabled.
func NewFactory() *DefaultFactory {
	return &DefaultFactory{}
}

func (f *DefaultFactory) Find(t reflect.Type) *Reflector {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if f.disabled.Load() {
		return New(t)
	}

	if v, ok := f.cache.Load(t); ok {
		return v.(*Reflector)
	}

	v, _ := f.cache.LoadOrStore(t, New(t))

	return v.(*Reflector)
}

func (f *DefaultFactory) CacheEnabled() bool {
	return !f.disabled.Load()
}

func (f *DefaultFactory) SetCacheEnabled(enabled bool) {
	f.disabled.Store(!enabled)
}
