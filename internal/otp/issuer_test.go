package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gramseva/grievance-service/internal/config"
)

type fakeSender struct {
	sent []string
	fail bool
}

func (f *fakeSender) SendEmail(_ context.Context, to, _, _ string) error {
	if f.fail {
		return errors.New("smtp relay down")
	}
	f.sent = append(f.sent, to)
	return nil
}

func newTestIssuer(t *testing.T) (*Issuer, *MemoryStore, *fakeSender) {
	t.Helper()
	store := NewMemoryStore()
	sender := &fakeSender{}
	issuer := NewIssuer(store, sender, config.OTPConfig{RegisterTTLMinutes: 5, LoginTTLMinutes: 10}, zap.NewNop())
	return issuer, store, sender
}

func liveCode(t *testing.T, store *MemoryStore, purpose Purpose, email string) Code {
	t.Helper()
	code, err := store.Get(context.Background(), purpose, email)
	require.NoError(t, err)
	return *code
}

func TestIssueStoresAndDeliversCode(t *testing.T) {
	issuer, store, sender := newTestIssuer(t)
	ctx := context.Background()

	require.NoError(t, issuer.Issue(ctx, PurposeRegister, "a@x.com"))

	code := liveCode(t, store, PurposeRegister, "a@x.com")
	assert.Len(t, code.Value, CodeLength)
	assert.Equal(t, []string{"a@x.com"}, sender.sent)
	assert.True(t, code.ExpiresAt.After(time.Now()))
}

func TestIssueSupersedesPriorCode(t *testing.T) {
	issuer, store, _ := newTestIssuer(t)
	ctx := context.Background()

	require.NoError(t, issuer.Issue(ctx, PurposeLogin, "a@x.com"))
	first := liveCode(t, store, PurposeLogin, "a@x.com")

	require.NoError(t, issuer.Issue(ctx, PurposeLogin, "a@x.com"))
	second := liveCode(t, store, PurposeLogin, "a@x.com")

	if first.Value != second.Value {
		assert.ErrorIs(t, issuer.Verify(ctx, PurposeLogin, "a@x.com", first.Value), ErrCodeInvalid)
	}
	assert.NoError(t, issuer.Verify(ctx, PurposeLogin, "a@x.com", second.Value))
}

func TestIssueRollsBackOnDeliveryFailure(t *testing.T) {
	issuer, store, sender := newTestIssuer(t)
	ctx := context.Background()
	sender.fail = true

	err := issuer.Issue(ctx, PurposeRegister, "a@x.com")
	assert.ErrorIs(t, err, ErrDeliveryFailed)

	_, err = store.Get(ctx, PurposeRegister, "a@x.com")
	assert.ErrorIs(t, err, ErrNoCode)

	// A retry after the outage succeeds cleanly.
	sender.fail = false
	require.NoError(t, issuer.Issue(ctx, PurposeRegister, "a@x.com"))
}

func TestVerifyRequiresMatchingCode(t *testing.T) {
	issuer, store, _ := newTestIssuer(t)
	ctx := context.Background()

	require.NoError(t, issuer.Issue(ctx, PurposeRegister, "a@x.com"))
	code := liveCode(t, store, PurposeRegister, "a@x.com")

	wrong := "000000"
	if code.Value == wrong {
		wrong = "111111"
	}
	assert.ErrorIs(t, issuer.Verify(ctx, PurposeRegister, "a@x.com", wrong), ErrCodeInvalid)
	// A mismatch does not consume the live code.
	assert.NoError(t, issuer.Verify(ctx, PurposeRegister, "a@x.com", code.Value))
}

func TestVerifyExpiryBoundary(t *testing.T) {
	issuer, store, _ := newTestIssuer(t)
	ctx := context.Background()

	issued := time.Now()
	issuer.now = func() time.Time { return issued }
	require.NoError(t, issuer.Issue(ctx, PurposeRegister, "a@x.com"))
	code := liveCode(t, store, PurposeRegister, "a@x.com")

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "just before expiry verifies", at: code.ExpiresAt.Add(-time.Second), wantErr: nil},
		{name: "at exactly expiry fails", at: code.ExpiresAt, wantErr: ErrCodeInvalid},
		{name: "after expiry fails", at: code.ExpiresAt.Add(time.Second), wantErr: ErrCodeInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Reinstate the code; a successful sub-test consumed it.
			require.NoError(t, store.Put(ctx, PurposeRegister, code, 0))
			issuer.now = func() time.Time { return tc.at }
			err := issuer.Verify(ctx, PurposeRegister, "a@x.com", code.Value)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestVerifyConsumesCode(t *testing.T) {
	issuer, store, _ := newTestIssuer(t)
	ctx := context.Background()

	require.NoError(t, issuer.Issue(ctx, PurposeLogin, "a@x.com"))
	code := liveCode(t, store, PurposeLogin, "a@x.com")

	require.NoError(t, issuer.Verify(ctx, PurposeLogin, "a@x.com", code.Value))
	assert.ErrorIs(t, issuer.Verify(ctx, PurposeLogin, "a@x.com", code.Value), ErrNoCode)
}

func TestPurposesAreIsolated(t *testing.T) {
	issuer, store, _ := newTestIssuer(t)
	ctx := context.Background()

	require.NoError(t, issuer.Issue(ctx, PurposeRegister, "a@x.com"))
	code := liveCode(t, store, PurposeRegister, "a@x.com")

	assert.ErrorIs(t, issuer.Verify(ctx, PurposeLogin, "a@x.com", code.Value), ErrNoCode)
}
