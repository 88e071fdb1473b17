package session

import (
	"context"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	if got := TokenFromContext(context.Background()); got != "" {
		t.Fatalf("empty context returned token %q", got)
	}

	s := NewMemory("abc")
	ctx := WithSession(context.Background(), s)
	if got := TokenFromContext(ctx); got != "abc" {
		t.Fatalf("TokenFromContext = %q, want abc", got)
	}

	s.SetToken("def")
	if got := FromContext(ctx).Token(); got != "def" {
		t.Fatalf("Token after SetToken = %q, want def", got)
	}

	s.Clear()
	if got := TokenFromContext(ctx); got != "" {
		t.Fatalf("Token after Clear = %q, want empty", got)
	}
}
