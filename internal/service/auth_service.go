package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gramseva/grievance-service/internal/auth"
	"github.com/gramseva/grievance-service/internal/config"
	"github.com/gramseva/grievance-service/internal/domain"
	"github.com/gramseva/grievance-service/internal/events"
	"github.com/gramseva/grievance-service/internal/otp"
	"github.com/gramseva/grievance-service/internal/repository"
	apperrors "github.com/gramseva/grievance-service/pkg/util"
)

// RegistrationInput carries the candidate profile supplied at finalization.
type RegistrationInput struct {
	Name     string
	Email    string
	Password string
	Mobile   string
	Address  string
	Code     string
}

// AuthService coordinates the code-verified registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	codes      *otp.Issuer
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	CodeIssuer *otp.Issuer
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		codes:      deps.CodeIssuer,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.BcryptCost,
	}
}

// SendRegisterOTP begins registration by issuing a verification code. An
// already registered email is rejected before any code is stored.
func (s *AuthService) SendRegisterOTP(ctx context.Context, email string) error {
	email = repository.NormalizeEmail(email)
	if email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return apperrors.NewConflict("user already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	return s.issue(ctx, otp.PurposeRegister, email)
}

// VerifyRegistration finalizes registration: the code must match and be live,
// and no active identity may exist for the email. On success the user is
// created, the code consumed, and a welcome notification dispatched.
func (s *AuthService) VerifyRegistration(ctx context.Context, input RegistrationInput) (*domain.User, string, time.Time, error) {
	email := repository.NormalizeEmail(input.Email)
	if email == "" || input.Name == "" || input.Password == "" || input.Mobile == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name, email, password, mobile required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("user already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	if err := s.codes.Verify(ctx, otp.PurposeRegister, email, strings.TrimSpace(input.Code)); err != nil {
		switch {
		case errors.Is(err, otp.ErrNoCode):
			return nil, "", time.Time{}, apperrors.NewConflict("OTP expired or invalid", nil)
		case errors.Is(err, otp.ErrCodeInvalid):
			return nil, "", time.Time{}, apperrors.NewConflict("invalid OTP", nil)
		default:
			return nil, "", time.Time{}, err
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Mobile:       strings.TrimSpace(input.Mobile),
		Role:         domain.RoleVillager,
		Address:      strings.TrimSpace(input.Address),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Unique constraint backstop for a concurrent finalize on the same email.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", time.Time{}, apperrors.NewConflict("user already exists", nil)
		}
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Payload: events.UserRegisteredPayload{
			Name:  user.Name,
			Email: user.Email,
		},
	})

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates with email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// SendLoginOTP issues a login code for an existing identity.
func (s *AuthService) SendLoginOTP(ctx context.Context, email string) error {
	email = repository.NormalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	return s.issue(ctx, otp.PurposeLogin, email)
}

// VerifyLoginOTP verifies a login code and mints a session token.
func (s *AuthService) VerifyLoginOTP(ctx context.Context, email, code string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewNotFound("user", nil)
		}
		return nil, "", time.Time{}, err
	}

	if err := s.codes.Verify(ctx, otp.PurposeLogin, user.Email, strings.TrimSpace(code)); err != nil {
		if errors.Is(err, otp.ErrNoCode) || errors.Is(err, otp.ErrCodeInvalid) {
			return nil, "", time.Time{}, apperrors.NewConflict("invalid or expired OTP", nil)
		}
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Me loads the caller's identity.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(ctx context.Context, purpose otp.Purpose, email string) error {
	if err := s.codes.Issue(ctx, purpose, email); err != nil {
		if errors.Is(err, otp.ErrDeliveryFailed) {
			return apperrors.NewDomainError("EMAIL_DELIVERY_FAILED", "email could not be sent",
				http.StatusInternalServerError, nil)
		}
		return err
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
