package session

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSessionValues(t *testing.T) {
	s := newSession("s1", time.Now())

	if s.Get("missing") != nil {
		t.Error("Get of unset key returned non-nil")
	}

	s.Set("a", 1)
	s.Set("b", "two")
	if got := s.Get("a"); got != 1 {
		t.Errorf("Get(a) = %v, want 1", got)
	}

	keys := s.Keys()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys = %v, want [a b]", keys)
	}

	s.Set("a", nil)
	if s.Get("a") != nil {
		t.Error("Set(nil) did not delete the key")
	}
}

func TestGetOrCreate_CreatesOnce(t *testing.T) {
	s := newSession("s1", time.Now())

	var calls atomic.Int32
	var wg sync.WaitGroup
	results := make([]any, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.GetOrCreate("view", func() any {
				calls.Add(1)
				return &struct{ n int }{}
			})
		}(i)
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("create called %d times, want 1", calls.Load())
	}
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("GetOrCreate returned different values")
		}
	}
}

func TestDo_Serialises(t *testing.T) {
	s := newSession("s1", time.Now())

	var active, maxActive atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do(func() {
				n := active.Add(1)
				if n > maxActive.Load() {
					maxActive.Store(n)
				}
				time.Sleep(time.Millisecond)
				active.Add(-1)
			})
		}()
	}
	wg.Wait()

	if maxActive.Load() != 1 {
		t.Errorf("max concurrent Do = %d, want 1", maxActive.Load())
	}
}
