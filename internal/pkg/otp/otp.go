package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/latpategaurav/blu/internal/pkg/cache"
	"github.com/latpategaurav/blu/internal/pkg/env"
)

const (
	codeLength  = 6
	maxAttempts = 5
)

var (
	// ErrCodeExpired means no code is outstanding for the phone number.
	ErrCodeExpired = errors.New("verification code expired or never requested")
	// ErrCodeMismatch means the supplied code is wrong.
	ErrCodeMismatch = errors.New("verification code does not match")
	// ErrTooManyAttempts means the code was burned by repeated failures.
	ErrTooManyAttempts = errors.New("too many verification attempts, request a new code")
)

// TTL returns the configured code lifetime.
func TTL() time.Duration {
	minutes := env.GetEnvInt("OTP_TTL_MINUTES", 5)
	if minutes <= 0 {
		minutes = 5
	}
	return time.Duration(minutes) * time.Minute
}

// GenerateCode creates a new 6-digit code for a phone number and stores its
// digest in the cache. The plaintext code is returned once for delivery and
// never persisted.
func GenerateCode(phone string) (string, error) {
	code, err := randomDigits(codeLength)
	if err != nil {
		return "", err
	}

	ttl := TTL()
	if err := cache.Set(codeKey(phone), hashCode(phone, code), ttl); err != nil {
		return "", fmt.Errorf("store verification code: %w", err)
	}
	if err := cache.Set(attemptsKey(phone), 0, ttl); err != nil {
		return "", fmt.Errorf("reset attempt counter: %w", err)
	}
	return code, nil
}

// VerifyCode checks a submitted code and consumes it on success. Failed
// attempts are counted; the code burns after maxAttempts failures.
func VerifyCode(phone, code string) error {
	stored, err := cache.Get(codeKey(phone))
	if err != nil {
		if cache.IsMiss(err) {
			return ErrCodeExpired
		}
		return fmt.Errorf("load verification code: %w", err)
	}

	attempts, _ := cache.GetInt(attemptsKey(phone))
	if attempts >= maxAttempts {
		_ = cache.Delete(codeKey(phone))
		return ErrTooManyAttempts
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(hashCode(phone, code))) != 1 {
		_ = cache.Set(attemptsKey(phone), attempts+1, TTL())
		return ErrCodeMismatch
	}

	// Consume the code, it is single-use.
	_ = cache.Delete(codeKey(phone))
	_ = cache.Delete(attemptsKey(phone))
	return nil
}

func randomDigits(n int) (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < n; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v), nil
}

func hashCode(phone, code string) string {
	sum := sha256.Sum256([]byte(phone + ":" + code))
	return hex.EncodeToString(sum[:])
}

func codeKey(phone string) string {
	return "otp:code:" + phone
}

func attemptsKey(phone string) string {
	return "otp:attempts:" + phone
}
