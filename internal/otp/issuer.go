package otp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gramseva/grievance-service/internal/config"
)

// Sender delivers a code to its recipient. Satisfied by notify.Mailer.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Issuer generates, stores and verifies one-time codes for both the
// registration and login flows.
type Issuer struct {
	store  Store
	sender Sender
	logger *zap.Logger
	ttls   map[Purpose]time.Duration
	now    func() time.Time
}

// NewIssuer builds an issuer with flow-specific code windows.
func NewIssuer(store Store, sender Sender, cfg config.OTPConfig, logger *zap.Logger) *Issuer {
	return &Issuer{
		store:  store,
		sender: sender,
		logger: logger,
		ttls: map[Purpose]time.Duration{
			PurposeRegister: cfg.RegisterTTL(),
			PurposeLogin:    cfg.LoginTTL(),
		},
		now: time.Now,
	}
}

// Issue generates a fresh code for the email, superseding any live one, and
// delivers it. When delivery fails the stored code is rolled back so the
// caller can simply retry issuance.
func (i *Issuer) Issue(ctx context.Context, purpose Purpose, email string) error {
	value, err := generateCode()
	if err != nil {
		return err
	}

	ttl := i.ttls[purpose]
	code := Code{
		Email:     email,
		Value:     value,
		ExpiresAt: i.now().Add(ttl),
	}
	if err := i.store.Put(ctx, purpose, code, ttl); err != nil {
		return err
	}

	if err := i.deliver(ctx, purpose, code, ttl); err != nil {
		i.logger.Warn("code delivery failed, rolling back",
			zap.String("purpose", string(purpose)), zap.Error(err))
		if delErr := i.store.Delete(ctx, purpose, email); delErr != nil {
			i.logger.Error("code rollback failed", zap.Error(delErr))
		}
		return ErrDeliveryFailed
	}
	return nil
}

// Verify checks the supplied code against the live one. The code must match
// and the current time must be strictly before expiry; at exactly expiry it
// fails. A verified code is consumed, so replay fails with ErrNoCode.
func (i *Issuer) Verify(ctx context.Context, purpose Purpose, email, supplied string) error {
	code, err := i.store.Get(ctx, purpose, email)
	if err != nil {
		return err
	}
	if code.Value != supplied || !i.now().Before(code.ExpiresAt) {
		return ErrCodeInvalid
	}
	if err := i.store.Delete(ctx, purpose, email); err != nil {
		return err
	}
	return nil
}

func (i *Issuer) deliver(ctx context.Context, purpose Purpose, code Code, ttl time.Duration) error {
	minutes := int(ttl / time.Minute)
	var subject, body string
	switch purpose {
	case PurposeRegister:
		subject = "Email Verification OTP"
		body = fmt.Sprintf("Your verification OTP is: %s. Valid for %d minutes.", code.Value, minutes)
	case PurposeLogin:
		subject = "Your Login OTP"
		body = fmt.Sprintf("Your OTP for login is: %s. It is valid for %d minutes.", code.Value, minutes)
	default:
		return fmt.Errorf("unsupported purpose: %s", purpose)
	}
	return i.sender.SendEmail(ctx, code.Email, subject, body)
}
