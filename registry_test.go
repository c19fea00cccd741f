package wire_test

import (
	"sync"
	"testing"

	"github.com/zoobzio/wire"
)

type CacheTestUser struct {
	Name string
}

func TestUse_Caching(t *testing.T) {
	wire.Reset() // Clear cache

	s1, err := wire.Use[CacheTestUser]()
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}

	s2, err := wire.Use[CacheTestUser]()
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}

	if s1 != s2 {
		t.Error("Use() should return cached processor")
	}
}

func TestUse_Error(t *testing.T) {
	wire.Reset()

	if _, err := wire.Use[WithMap](); err == nil {
		t.Fatal("Use() should fail for a type with no wire encoding")
	}
	// Failures are not cached.
	if _, err := wire.Use[WithMap](); err == nil {
		t.Fatal("Use() should keep failing")
	}
}

func TestUse_Concurrent(t *testing.T) {
	wire.Reset()

	const workers = 8
	got := make([]*wire.Processor[Tree], workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := wire.Use[Tree]()
			if err != nil {
				t.Errorf("Use() error: %v", err)
				return
			}
			got[i] = p
		}()
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if got[i] != got[0] {
			t.Fatal("concurrent Use() calls returned different processors")
		}
	}
}

func TestReset(t *testing.T) {
	s1, _ := wire.Use[CacheTestUser]()

	wire.Reset()

	s2, _ := wire.Use[CacheTestUser]()

	if s1 == s2 {
		t.Error("Reset() should clear cache, new processor expected")
	}
}
