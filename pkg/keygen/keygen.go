// Package keygen produces the textual identifiers used across the onboarding
// flows: vendor/mentor registration keys, referral codes, payment transaction
// ids and one-time passwords. Generators are collision-candidates only; global
// uniqueness is guaranteed by the store's unique constraints, with Unique as a
// bounded pre-check to avoid constraint-violation retries.
package keygen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

const (
	vendorKeyPrefix = "VND_"
	mentorKeyPrefix = "MNT_"

	// DefaultMaxAttempts bounds the generate-and-check loop.
	DefaultMaxAttempts = 5
)

// VendorKey returns a vendor registration key: VND_ + 16 uppercase hex chars.
func VendorKey() string {
	return vendorKeyPrefix + randomHex(8)
}

// MentorKey returns a mentor registration key: MNT_ + 16 uppercase hex chars.
func MentorKey() string {
	return mentorKeyPrefix + randomHex(8)
}

// ReferralCode builds a 13-character human-debuggable referral code from a
// mentor name fragment, an entity-id fragment, random bytes and a timestamp
// tail. Empty or non-alphanumeric names are padded with X rather than failing.
func ReferralCode(name, id string) string {
	cleaned := sanitize(name)
	namePrefix := strings.ToUpper((cleaned + "XXX")[:3])

	idSuffix := strings.ToUpper(id)
	if len(idSuffix) > 3 {
		idSuffix = idSuffix[len(idSuffix)-3:]
	} else {
		idSuffix = (idSuffix + "000")[:3]
	}

	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	timestamp := millis[len(millis)-3:]

	return namePrefix + idSuffix + randomHex(2) + timestamp
}

// TransactionID returns a payment transaction id for the simulated gateway.
func TransactionID() string {
	return fmt.Sprintf("TXN%d%s", time.Now().UnixMilli(), randomBase36(9))
}

// OTP returns a six digit one-time password.
func OTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// time-derived code rather than returning an error to callers.
		return fmt.Sprintf("%06d", time.Now().UnixNano()%900000+100000)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// Unique runs the generate-and-check loop: generate a candidate, accept it if
// the existence check reports it absent, regenerate otherwise. The loop is
// bounded for every key type; exhaustion surfaces as KEYSPACE_EXHAUSTED.
func Unique(ctx context.Context, maxAttempts int, gen func() string, exists func(ctx context.Context, candidate string) (bool, error)) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := gen()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check key existence: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrKeyspaceExhausted, "")
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func randomHex(n int) string {
	const hexDigits = "0123456789ABCDEF"
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return strings.Repeat("0", n*2)
	}
	var b strings.Builder
	b.Grow(n * 2)
	for _, c := range buf {
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
	return b.String()
}

func randomBase36(n int) string {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return strings.Repeat("0", n)
	}
	out := make([]byte, n)
	for i, c := range buf {
		out[i] = alphabet[int(c)%len(alphabet)]
	}
	return string(out)
}
