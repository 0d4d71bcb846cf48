package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gramseva/grievance-service/internal/auth"
	"github.com/gramseva/grievance-service/internal/config"
	"github.com/gramseva/grievance-service/internal/domain"
	"github.com/gramseva/grievance-service/internal/events"
	"github.com/gramseva/grievance-service/internal/otp"
	"github.com/gramseva/grievance-service/internal/repository"
	apperrors "github.com/gramseva/grievance-service/pkg/util"
)

type failableSender struct {
	fail bool
}

func (f *failableSender) SendEmail(context.Context, string, string, string) error {
	if f.fail {
		return errors.New("relay unavailable")
	}
	return nil
}

type authFixture struct {
	svc    *AuthService
	users  *repository.MemoryUserRepository
	codes  *otp.MemoryStore
	sender *failableSender
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	codes := otp.NewMemoryStore()
	sender := &failableSender{}
	issuer := otp.NewIssuer(codes, sender, config.OTPConfig{RegisterTTLMinutes: 5, LoginTTLMinutes: 10}, zap.NewNop())

	svc := NewAuthService(config.AuthConfig{JWTSecret: "test-secret", TokenTTLDays: 30, BcryptCost: 4}, AuthDependencies{
		UserRepo:   users,
		CodeIssuer: issuer,
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	return &authFixture{svc: svc, users: users, codes: codes, sender: sender}
}

func (f *authFixture) liveCode(t *testing.T, purpose otp.Purpose, email string) string {
	t.Helper()
	code, err := f.codes.Get(context.Background(), purpose, email)
	require.NoError(t, err)
	return code.Value
}

func (f *authFixture) seedUser(t *testing.T, email, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	user := &domain.User{
		Name:         "Seeded User",
		Email:        email,
		PasswordHash: hash,
		Mobile:       "9999999999",
		Role:         role,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func assertDomainError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, status, domainErr.HTTPStatus)
	assert.Equal(t, message, domainErr.Message)
}

func TestRegistrationScenario(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendRegisterOTP(ctx, "a@x.com"))
	code := f.liveCode(t, otp.PurposeRegister, "a@x.com")

	input := RegistrationInput{
		Name:     "Asha",
		Email:    "a@x.com",
		Password: "secret123",
		Mobile:   "9876543210",
		Address:  "Ward 4",
	}

	input.Code = "000000"
	if code == "000000" {
		input.Code = "111111"
	}
	_, _, _, err := f.svc.VerifyRegistration(ctx, input)
	assertDomainError(t, err, http.StatusBadRequest, "invalid OTP")

	input.Code = code
	user, token, _, err := f.svc.VerifyRegistration(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVillager, user.Role)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)

	// Replay with the consumed code must fail.
	_, _, _, err = f.svc.VerifyRegistration(ctx, input)
	assertDomainError(t, err, http.StatusBadRequest, "user already exists")
}

func TestRegisterOTPRejectsExistingEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "a@x.com", "secret123", domain.RoleVillager)

	err := f.svc.SendRegisterOTP(context.Background(), "a@x.com")
	assertDomainError(t, err, http.StatusBadRequest, "user already exists")
}

func TestVerifyRegistrationWithoutPendingCode(t *testing.T) {
	f := newAuthFixture(t)

	_, _, _, err := f.svc.VerifyRegistration(context.Background(), RegistrationInput{
		Name:     "Asha",
		Email:    "a@x.com",
		Password: "secret123",
		Mobile:   "9876543210",
		Code:     "123456",
	})
	assertDomainError(t, err, http.StatusBadRequest, "OTP expired or invalid")
}

func TestVerifyRegistrationValidatesProfile(t *testing.T) {
	f := newAuthFixture(t)

	_, _, _, err := f.svc.VerifyRegistration(context.Background(), RegistrationInput{
		Email: "a@x.com",
		Code:  "123456",
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestVerifyRegistrationNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendRegisterOTP(ctx, " A@X.com "))
	code := f.liveCode(t, otp.PurposeRegister, "a@x.com")

	user, _, _, err := f.svc.VerifyRegistration(ctx, RegistrationInput{
		Name:     "Asha",
		Email:    "A@X.com",
		Password: "secret123",
		Mobile:   "9876543210",
		Code:     code,
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
}

func TestPasswordLogin(t *testing.T) {
	f := newAuthFixture(t)
	seeded := f.seedUser(t, "a@x.com", "secret123", domain.RoleVillager)
	ctx := context.Background()

	user, token, _, err := f.svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
	assert.NotEmpty(t, token)

	_, _, _, err = f.svc.Login(ctx, "a@x.com", "wrong")
	assertDomainError(t, err, http.StatusBadRequest, "invalid credentials")

	// Unknown emails fail with the same message.
	_, _, _, err = f.svc.Login(ctx, "nobody@x.com", "secret123")
	assertDomainError(t, err, http.StatusBadRequest, "invalid credentials")
}

func TestLoginOTPFlow(t *testing.T) {
	f := newAuthFixture(t)
	seeded := f.seedUser(t, "a@x.com", "secret123", domain.RoleVillager)
	ctx := context.Background()

	err := f.svc.SendLoginOTP(ctx, "nobody@x.com")
	assertDomainError(t, err, http.StatusNotFound, "user not found")

	require.NoError(t, f.svc.SendLoginOTP(ctx, "a@x.com"))
	code := f.liveCode(t, otp.PurposeLogin, "a@x.com")

	_, _, _, err = f.svc.VerifyLoginOTP(ctx, "a@x.com", "wrong")
	assertDomainError(t, err, http.StatusBadRequest, "invalid or expired OTP")

	user, token, _, err := f.svc.VerifyLoginOTP(ctx, "a@x.com", code)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
	assert.NotEmpty(t, token)

	// The consumed code cannot log in again.
	_, _, _, err = f.svc.VerifyLoginOTP(ctx, "a@x.com", code)
	assertDomainError(t, err, http.StatusBadRequest, "invalid or expired OTP")
}

func TestDeliveryFailureLeavesNoCodeBehind(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.sender.fail = true

	err := f.svc.SendRegisterOTP(ctx, "a@x.com")
	assertDomainError(t, err, http.StatusInternalServerError, "email could not be sent")

	_, err = f.codes.Get(ctx, otp.PurposeRegister, "a@x.com")
	assert.ErrorIs(t, err, otp.ErrNoCode)

	f.sender.fail = false
	require.NoError(t, f.svc.SendRegisterOTP(ctx, "a@x.com"))
}

func TestIssuedTokenAuthenticatesRole(t *testing.T) {
	f := newAuthFixture(t)
	admin := f.seedUser(t, "admin@x.com", "secret123", domain.RoleAdmin)

	_, token, _, err := f.svc.Login(context.Background(), "admin@x.com", "secret123")
	require.NoError(t, err)

	claims, err := f.svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}
