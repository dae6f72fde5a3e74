package headerscope

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

func TestScopeNesting(t *testing.T) {
	base := context.Background()

	s1 := WithHeaderMap(base, map[string]string{"a": "1"})
	s2 := WithHeaderMap(s1, map[string]string{"a": "2", "b": "x"})

	// Innermost scope wins on conflicting names.
	inner, ok := FromContext(s2)
	if !ok {
		t.Fatal("no scope on inner context")
	}
	if v, _ := inner.Get("a"); v != "2" {
		t.Errorf("inner a = %q, want 2", v)
	}
	if v, _ := inner.Get("b"); v != "x" {
		t.Errorf("inner b = %q, want x", v)
	}
	if got := inner.Values("a"); len(got) != 1 {
		t.Errorf("inner a values = %v, want exactly one", got)
	}

	// Exiting S2 means using s1 again: effective reverts to {a: 1}.
	outer, _ := FromContext(s1)
	if v, _ := outer.Get("a"); v != "1" {
		t.Errorf("outer a = %q, want 1", v)
	}
	if _, ok := outer.Get("b"); ok {
		t.Error("outer scope observes b from the inner scope")
	}

	// Exiting S1 reverts to the pre-scope baseline.
	if _, ok := FromContext(base); ok {
		t.Error("baseline context carries a scope")
	}
}

func TestScopeSnapshotStability(t *testing.T) {
	ctx := WithHeader(context.Background(), "a", "1")
	captured, _ := FromContext(ctx)

	// A scope entered later on a derived context must not leak into the
	// snapshot captured when the call began.
	_ = WithHeader(ctx, "a", "2")

	if v, _ := captured.Get("a"); v != "1" {
		t.Errorf("captured a = %q, want 1", v)
	}
}

func TestScopeIsolation(t *testing.T) {
	base := context.Background()
	var wg sync.WaitGroup

	for i, want := range []string{"one", "two", "three", "four"} {
		wg.Add(1)
		go func(i int, want string) {
			defer wg.Done()
			ctx := WithHeader(base, "x-call", want)
			for j := 0; j < 1000; j++ {
				hs, ok := FromContext(ctx)
				if !ok {
					t.Errorf("call %d: scope lost", i)
					return
				}
				if v, _ := hs.Get("x-call"); v != want {
					t.Errorf("call %d: x-call = %q, want %q", i, v, want)
					return
				}
			}
		}(i, want)
	}
	wg.Wait()

	if _, ok := FromContext(base); ok {
		t.Error("scope leaked onto the shared base context")
	}
}

func TestScoped(t *testing.T) {
	base := WithHeader(context.Background(), "a", "1")

	err := Scoped(base, NewHeaderSet("a", "2", "b", "x"), func(ctx context.Context) error {
		hs, _ := FromContext(ctx)
		if v, _ := hs.Get("a"); v != "2" {
			t.Errorf("scoped a = %q, want 2", v)
		}
		if v, _ := hs.Get("b"); v != "x" {
			t.Errorf("scoped b = %q, want x", v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Scoped() error = %v", err)
	}

	hs, _ := FromContext(base)
	if v, _ := hs.Get("a"); v != "1" {
		t.Errorf("after scope a = %q, want 1", v)
	}
	if _, ok := hs.Get("b"); ok {
		t.Error("after scope b is still visible")
	}
}

func TestScopedPropagatesError(t *testing.T) {
	wantErr := errors.New("boom")

	err := Scoped(context.Background(), NewHeaderSet("a", "1"), func(ctx context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Scoped() error = %v, want %v", err, wantErr)
	}
}

func TestWithAddedHeader(t *testing.T) {
	ctx := WithAddedHeader(context.Background(), "accept", "application/json")
	ctx = WithAddedHeader(ctx, "accept", "text/plain")

	hs, _ := FromContext(ctx)
	if got := hs.Values("accept"); !reflect.DeepEqual(got, []string{"application/json", "text/plain"}) {
		t.Errorf("accept = %v", got)
	}
}

func TestResolutionIdempotence(t *testing.T) {
	ctx := WithHeaders(context.Background(), NewHeaderSet("a", "1", "b", "2"))

	first, _ := FromContext(ctx)
	second, _ := FromContext(ctx)

	if !reflect.DeepEqual(first.Headers(), second.Headers()) {
		t.Errorf("repeated resolution differs: %v vs %v", first.Headers(), second.Headers())
	}
}
