package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Purpose namespaces codes so a registration code can never satisfy a login
// verification and vice versa.
type Purpose string

const (
	PurposeRegister Purpose = "register"
	PurposeLogin    Purpose = "login"
)

// CodeLength is the fixed width of issued numeric codes.
const CodeLength = 6

var (
	// ErrNoCode indicates no live code exists for the email.
	ErrNoCode = errors.New("no pending code")
	// ErrCodeInvalid indicates the supplied code does not match or has expired.
	ErrCodeInvalid = errors.New("invalid or expired code")
	// ErrDeliveryFailed indicates the notification collaborator rejected the
	// send; the stored code has been rolled back.
	ErrDeliveryFailed = errors.New("code delivery failed")
)

// Code is a live one-time code bound to an email address. A registration code
// doubles as the pending-registration record: no user row exists until the
// code verifies.
type Code struct {
	Email     string    `json:"email"`
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// generateCode returns a uniformly random fixed-width numeric code.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < CodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}
