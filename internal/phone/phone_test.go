package phone

import "testing"

func TestNormalizeStripsFormatting(t *testing.T) {
	if got := Normalize("+82 10-1234-5678"); got != "01012345678" {
		t.Fatalf("expected 01012345678, got %q", got)
	}
	if got := Normalize("010-1234-5678"); got != "01012345678" {
		t.Fatalf("expected 01012345678, got %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"+82 10-1234-5678", "01012345678", "", "abc", "82212345678"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeEmptySafe(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := Normalize("no digits here"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestNormalizeKeepsShortCountryishNumbers(t *testing.T) {
	// "82" followed by too few digits is not treated as a country code.
	if got := Normalize("8212345"); got != "8212345" {
		t.Fatalf("expected 8212345, got %q", got)
	}
}

func TestBridgeFormat(t *testing.T) {
	if got := BridgeFormat("010-1234-5678"); got != "+821012345678" {
		t.Fatalf("expected +821012345678, got %q", got)
	}
	if got := BridgeFormat("+82 10-1234-5678"); got != "+821012345678" {
		t.Fatalf("expected +821012345678, got %q", got)
	}
	if got := BridgeFormat(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestSuffix8(t *testing.T) {
	if got := Suffix8("+82 10-1234-5678"); got != "12345678" {
		t.Fatalf("expected 12345678, got %q", got)
	}
	if got := Suffix8("1234"); got != "1234" {
		t.Fatalf("expected 1234, got %q", got)
	}
}
