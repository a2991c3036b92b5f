package cli

import (
	"testing"
	"time"
)

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	if err != nil {
		t.Fatalf("parseID: %v", err)
	}
	if id != 42 {
		t.Fatalf("unexpected id: %d", id)
	}
	if _, err := parseID("0"); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestFallback(t *testing.T) {
	if got := fallback("value", "x"); got != "value" {
		t.Fatalf("fallback non-empty: %q", got)
	}
	if got := fallback("   ", "x"); got != "x" {
		t.Fatalf("fallback empty: %q", got)
	}
}

func TestCompactText(t *testing.T) {
	if got := compactText("  a\n\tb  ", 0); got != "a b" {
		t.Fatalf("compactText whitespace: %q", got)
	}
	if got := compactText("abcdefghij", 6); got != "abcde..." {
		t.Fatalf("compactText truncate: %q", got)
	}
	if got := compactText("Economic Times – Top Stories", 17); got != "Economic Times –..." {
		t.Fatalf("compactText multibyte: %q", got)
	}
}

func TestHumanAgo(t *testing.T) {
	if got := humanAgo(time.Time{}); got != "never" {
		t.Fatalf("humanAgo zero: %q", got)
	}
	if got := humanAgo(time.Now().Add(-3 * time.Hour)); got != "3h ago" {
		t.Fatalf("humanAgo hours: %q", got)
	}
}
