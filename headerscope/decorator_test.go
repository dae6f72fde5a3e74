package headerscope

import (
	"context"
	"reflect"
	"testing"
)

func runChain(t *testing.T, chain Decorator, headers HeaderSet) HeaderSet {
	t.Helper()
	var final HeaderSet
	err := chain(func(ctx context.Context, method string, headers HeaderSet) error {
		final = headers
		return nil
	})(context.Background(), "/test.Service/Method", headers)
	if err != nil {
		t.Fatalf("chain error = %v", err)
	}
	return final
}

func TestChainDecorators_Order(t *testing.T) {
	record := func(tag string) Decorator {
		return func(next CallFunc) CallFunc {
			return func(ctx context.Context, method string, headers HeaderSet) error {
				return next(ctx, method, headers.Add("x-seen", tag))
			}
		}
	}

	chain := ChainDecorators(record("early"), record("late"))
	final := runChain(t, chain, HeaderSet{})

	// The decorator registered last is outermost and runs first.
	if got := final.Values("x-seen"); !reflect.DeepEqual(got, []string{"late", "early"}) {
		t.Errorf("x-seen = %v, want [late early]", got)
	}
}

func TestChainDecorators_Empty(t *testing.T) {
	final := runChain(t, ChainDecorators(), NewHeaderSet("a", "1"))
	if v, _ := final.Get("a"); v != "1" {
		t.Errorf("a = %q, want 1", v)
	}
}

func TestChainDecorators_SkipsNil(t *testing.T) {
	chain := ChainDecorators(nil, StaticHeaderDecorator("a", "2"), nil)
	final := runChain(t, chain, NewHeaderSet("a", "1"))
	if v, _ := final.Get("a"); v != "2" {
		t.Errorf("a = %q, want 2", v)
	}
}

func TestTransformDecorator(t *testing.T) {
	tests := []struct {
		name     string
		headers  HeaderSet
		expected []string
	}{
		{
			name:     "transforms every value",
			headers:  HeaderSet{}.Add("authorization", "Bearer abc").Add("authorization", "Bearer def"),
			expected: []string{"abc", "def"},
		},
		{
			name:     "absent header stays absent",
			headers:  NewHeaderSet("x-other", "1"),
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := TransformDecorator("authorization", TrimSpace, ExtractBearerToken)
			final := runChain(t, chain, tt.headers)
			if got := final.Values("authorization"); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("authorization = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStaticHeaderDecorator(t *testing.T) {
	final := runChain(t, StaticHeaderDecorator("x-mode", "forced"),
		HeaderSet{}.Add("x-mode", "a").Add("x-mode", "b"))

	if got := final.Values("x-mode"); !reflect.DeepEqual(got, []string{"forced"}) {
		t.Errorf("x-mode = %v, want [forced]", got)
	}
}

func TestDecorator_InputNotMutated(t *testing.T) {
	input := NewHeaderSet("x-mode", "original")
	_ = runChain(t, StaticHeaderDecorator("x-mode", "forced"), input)

	if v, _ := input.Get("x-mode"); v != "original" {
		t.Errorf("input mutated: x-mode = %q", v)
	}
}
