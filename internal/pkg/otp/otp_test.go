package otp

import (
	"testing"
	"time"
)

func TestRandomDigits(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := randomDigits(codeLength)
		if err != nil {
			t.Fatalf("randomDigits failed: %v", err)
		}
		if len(code) != codeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), codeLength)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit %q", code, r)
			}
		}
		seen[code] = true
	}
	// 50 draws from a million-value space colliding down to a handful would
	// mean the generator is broken.
	if len(seen) < 10 {
		t.Fatalf("only %d distinct codes in 50 draws", len(seen))
	}
}

func TestHashCode(t *testing.T) {
	a := hashCode("+919876543210", "123456")
	b := hashCode("+919876543210", "123456")
	if a != b {
		t.Fatal("hash must be deterministic")
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d, want 64 hex chars", len(a))
	}
	if hashCode("+919876543210", "123457") == a {
		t.Fatal("different codes must not collide")
	}
	// The digest binds the code to the phone, so a code requested for one
	// number cannot verify another.
	if hashCode("+919876543211", "123456") == a {
		t.Fatal("same code for a different phone must hash differently")
	}
}

func TestTTL(t *testing.T) {
	t.Setenv("OTP_TTL_MINUTES", "")
	if got := TTL(); got != 5*time.Minute {
		t.Fatalf("default TTL = %v, want 5m", got)
	}

	t.Setenv("OTP_TTL_MINUTES", "10")
	if got := TTL(); got != 10*time.Minute {
		t.Fatalf("TTL = %v, want 10m", got)
	}

	t.Setenv("OTP_TTL_MINUTES", "garbage")
	if got := TTL(); got != 5*time.Minute {
		t.Fatalf("invalid value must fall back to 5m, got %v", got)
	}

	t.Setenv("OTP_TTL_MINUTES", "-3")
	if got := TTL(); got != 5*time.Minute {
		t.Fatalf("negative value must fall back to 5m, got %v", got)
	}
}

func TestCacheKeys(t *testing.T) {
	if got := codeKey("+919876543210"); got != "otp:code:+919876543210" {
		t.Fatalf("codeKey = %q", got)
	}
	if got := attemptsKey("+919876543210"); got != "otp:attempts:+919876543210" {
		t.Fatalf("attemptsKey = %q", got)
	}
}
