package keygen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

func TestVendorKeyFormat(t *testing.T) {
	key := VendorKey()
	require.Len(t, key, 20)
	assert.True(t, strings.HasPrefix(key, "VND_"))
	for _, r := range key[4:] {
		assert.Contains(t, "0123456789ABCDEF", string(r))
	}
}

func TestMentorKeyFormat(t *testing.T) {
	key := MentorKey()
	require.Len(t, key, 20)
	assert.True(t, strings.HasPrefix(key, "MNT_"))
}

func TestKeyUniquenessSample(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		key := VendorKey()
		_, dup := seen[key]
		require.False(t, dup, "duplicate key generated: %s", key)
		seen[key] = struct{}{}
	}
}

func TestReferralCodeLength(t *testing.T) {
	code := ReferralCode("Alice Smith", "64f1a2b3c4d5e6f7a8b9c0d1")
	assert.Len(t, code, 13)
	assert.True(t, strings.HasPrefix(code, "ALI"))
	assert.Equal(t, "0D1", code[3:6])
}

func TestReferralCodeShortNamePadding(t *testing.T) {
	code := ReferralCode("A", "xy")
	assert.Len(t, code, 13)
	assert.True(t, strings.HasPrefix(code, "AXX"))
	assert.Equal(t, "XY0", code[3:6])
}

func TestReferralCodeEmptyName(t *testing.T) {
	code := ReferralCode("", "id-123")
	assert.Len(t, code, 13)
	assert.True(t, strings.HasPrefix(code, "XXX"))
}

func TestReferralCodeStripsNonAlphanumerics(t *testing.T) {
	code := ReferralCode("  !@# Bob  ", "abc")
	assert.True(t, strings.HasPrefix(code, "BOB"))
}

func TestTransactionIDFormat(t *testing.T) {
	id := TransactionID()
	assert.True(t, strings.HasPrefix(id, "TXN"))
	assert.Greater(t, len(id), 12)
}

func TestOTPFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		otp := OTP()
		require.Len(t, otp, 6)
		for _, r := range otp {
			require.True(t, r >= '0' && r <= '9')
		}
	}
}

func TestUniqueFirstAttempt(t *testing.T) {
	calls := 0
	key, err := Unique(context.Background(), 5, func() string {
		calls++
		return "candidate"
	}, func(ctx context.Context, candidate string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "candidate", key)
	assert.Equal(t, 1, calls)
}

func TestUniqueRetriesOnCollision(t *testing.T) {
	attempt := 0
	key, err := Unique(context.Background(), 5, func() string {
		attempt++
		if attempt < 3 {
			return "taken"
		}
		return "fresh"
	}, func(ctx context.Context, candidate string) (bool, error) {
		return candidate == "taken", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", key)
	assert.Equal(t, 3, attempt)
}

func TestUniqueExhaustion(t *testing.T) {
	_, err := Unique(context.Background(), 3, func() string {
		return "always-taken"
	}, func(ctx context.Context, candidate string) (bool, error) {
		return true, nil
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrKeyspaceExhausted.Code, appErr.Code)
}

func TestUniquePropagatesProbeError(t *testing.T) {
	existsErr := errors.New("db down")
	_, err := Unique(context.Background(), 3, VendorKey, func(ctx context.Context, candidate string) (bool, error) {
		return false, existsErr
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, existsErr))
}

func TestUniqueDefaultsMaxAttempts(t *testing.T) {
	checks := 0
	_, err := Unique(context.Background(), 0, VendorKey, func(ctx context.Context, candidate string) (bool, error) {
		checks++
		return true, nil
	})
	require.Error(t, err)
	assert.Equal(t, DefaultMaxAttempts, checks)
}
