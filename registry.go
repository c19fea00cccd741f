package wire

import (
	"context"
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

var (
	plans   = make(map[reflect.Type]*typePlan)
	plansMu sync.RWMutex

	processors   = make(map[reflect.Type]any)
	processorsMu sync.RWMutex
)

// lookupPlan returns a cached plan without compiling.
func lookupPlan(rt reflect.Type) (*typePlan, bool) {
	plansMu.RLock()
	defer plansMu.RUnlock()
	p, ok := plans[rt]
	return p, ok
}

// planFor returns the cached plan for rt or compiles and caches a new one.
func planFor(rt reflect.Type) (*typePlan, error) {
	return planWith(rt, nil)
}

// planWith is planFor with sentinel metadata already scanned for rt.
func planWith(rt reflect.Type, root *sentinel.Metadata) (*typePlan, error) {
	// Fast path: read-lock cache check
	if p, ok := lookupPlan(rt); ok {
		return p, nil
	}

	// Compile outside the lock; compilation consults the cache for nested types.
	p, err := compilePlan(rt, root)
	if err != nil {
		return nil, err
	}

	plansMu.Lock()
	defer plansMu.Unlock()

	// Double-check pattern: keep whichever plan landed first
	if cached, ok := plans[rt]; ok {
		return cached, nil
	}
	plans[rt] = p

	emitPlanCompiled(context.Background(), p.name, len(p.fields))
	return p, nil
}

// Use returns a cached processor or builds a new one.
// The processor is cached by type.
func Use[T any]() (*Processor[T], error) {
	typ := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	processorsMu.RLock()
	if cached, ok := processors[typ]; ok {
		processorsMu.RUnlock()
		return cached.(*Processor[T]), nil
	}
	processorsMu.RUnlock()

	// Slow path: build and cache with write-lock
	processorsMu.Lock()
	defer processorsMu.Unlock()

	// Double-check pattern
	if cached, ok := processors[typ]; ok {
		return cached.(*Processor[T]), nil
	}

	processor, err := NewProcessor[T]()
	if err != nil {
		return nil, err
	}

	processors[typ] = processor
	return processor, nil
}

// Reset clears the plan and processor caches.
// This is primarily useful for test isolation.
func Reset() {
	plansMu.Lock()
	plans = make(map[reflect.Type]*typePlan)
	plansMu.Unlock()

	processorsMu.Lock()
	processors = make(map[reflect.Type]any)
	processorsMu.Unlock()
}
