package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"learnhub_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength is the minimum accepted password length.
	minPasswordLength = 8

	// bcryptCost is the work factor for password hashes.
	bcryptCost = 12
)

// dummyHash keeps login latency uniform when the email is unknown, so the
// bcrypt comparison always runs (timing-attack mitigation).
const dummyHash = "$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. A duplicate email yields
	// ErrEmailAlreadyExists.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves a user by email. With onlyActive,
	// soft-deleted accounts are treated as absent.
	FindByEmail(ctx context.Context, email string, onlyActive bool) (*entity.User, error)

	// FindByID retrieves a user by ID. With onlyActive, soft-deleted
	// accounts are treated as absent.
	FindByID(ctx context.Context, id uint, onlyActive bool) (*entity.User, error)

	// FindByResetTokenHash retrieves the active user holding the given
	// reset token hash, provided the token has not expired at now.
	FindByResetTokenHash(ctx context.Context, hash string, now time.Time) (*entity.User, error)

	// Update persists all mutable fields of the user.
	Update(ctx context.Context, user *entity.User) error

	// ApplyDailyLogin advances the user's gamification counters for a
	// login at now. First reports whether this request won the
	// first-login-of-day transition; on a lost race the user is reloaded
	// with the winner's state.
	ApplyDailyLogin(ctx context.Context, user *entity.User, now time.Time) (first bool, err error)
}

// TokenIssuer mints signed session tokens.
type TokenIssuer interface {
	Generate(userID uint, role entity.Role) (string, error)
}

// Mailer dispatches password-reset messages.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

// AuthUsecase implements registration, login and the password lifecycle.
type AuthUsecase struct {
	users  UserRepository
	tokens TokenIssuer
	mailer Mailer

	// resetURLBase is the externally visible origin the reset link is
	// built on.
	resetURLBase string

	now func() time.Time
}

// NewAuthUsecase creates a new AuthUsecase with its collaborators injected.
func NewAuthUsecase(users UserRepository, tokens TokenIssuer, mailer Mailer, resetURLBase string) *AuthUsecase {
	return &AuthUsecase{
		users:        users,
		tokens:       tokens,
		mailer:       mailer,
		resetURLBase: strings.TrimSuffix(resetURLBase, "/"),
		now:          time.Now,
	}
}

// NormalizeEmail lowercases and trims an email address. Emails are compared
// and stored exclusively in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Register creates a new account and logs it in: the gamification counters
// run for registration exactly as for a login, and a session token is issued.
func (u *AuthUsecase) Register(ctx context.Context, name, email, password string) (*entity.User, string, error) {
	if err := validatePassword(password); err != nil {
		return nil, "", err
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &entity.User{
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		Password:     hashed,
		PhotoURL:     entity.DefaultPhotoURL,
		Role:         entity.RoleUser,
		LearningType: entity.LearningMedium,
		Active:       true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	if _, err := u.users.ApplyDailyLogin(ctx, user, u.now()); err != nil {
		return nil, "", fmt.Errorf("failed to record registration login: %w", err)
	}

	token, err := u.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// Login authenticates a user and returns the user with a session token.
// The bcrypt comparison runs even for unknown emails so response timing does
// not reveal whether an account exists.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(email), true)

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || compareErr != nil {
		return nil, "", ErrInvalidCredentials
	}

	if _, err := u.users.ApplyDailyLogin(ctx, user, u.now()); err != nil {
		return nil, "", fmt.Errorf("failed to record login: %w", err)
	}

	token, err := u.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// UpdatePassword changes the password of an authenticated user after
// verifying the current one, and issues a fresh session token. Tokens issued
// before the change are invalidated by PasswordChangedAt.
func (u *AuthUsecase) UpdatePassword(ctx context.Context, user *entity.User, current, newPassword string) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return "", ErrPasswordMismatch
	}
	if err := validatePassword(newPassword); err != nil {
		return "", err
	}
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return "", err
	}

	// Backdated by a second so the token issued below, which carries a
	// second-precision iat, still passes the stale-password check.
	changedAt := u.now().Add(-time.Second)
	user.Password = hashed
	user.PasswordChangedAt = &changedAt
	if err := u.users.Update(ctx, user); err != nil {
		return "", err
	}

	token, err := u.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// ForgotPassword issues a reset token for the account behind email and mails
// the reset link. If the mail cannot be sent the token is rolled back so the
// user can request a fresh one.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(email), true)
	if err != nil {
		return err
	}

	plain, hashed, expires, err := newResetToken(u.now())
	if err != nil {
		return err
	}
	user.PasswordResetToken = hashed
	user.PasswordResetExpires = &expires
	if err := u.users.Update(ctx, user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/auth/reset-password/%s", u.resetURLBase, plain)
	if sendErr := u.mailer.SendPasswordReset(ctx, user.Email, user.Name, resetURL); sendErr != nil {
		// Compensate: clear the token so the system stays consistent
		// for a retry.
		user.PasswordResetToken = ""
		user.PasswordResetExpires = nil
		if clearErr := u.users.Update(ctx, user); clearErr != nil {
			return errors.Join(
				fmt.Errorf("failed to send reset email: %w", sendErr),
				fmt.Errorf("failed to roll back reset token: %w", clearErr),
			)
		}
		return fmt.Errorf("failed to send reset email: %w", sendErr)
	}
	return nil
}

// ResetPassword consumes a reset token and sets a new password, returning the
// user logged in with a fresh session token.
func (u *AuthUsecase) ResetPassword(ctx context.Context, plainToken, password string) (*entity.User, string, error) {
	now := u.now()
	user, err := u.users.FindByResetTokenHash(ctx, hashResetToken(plainToken), now)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrResetTokenInvalid
		}
		return nil, "", err
	}

	if err := validatePassword(password); err != nil {
		return nil, "", err
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}

	changedAt := now.Add(-time.Second)
	user.Password = hashed
	user.PasswordChangedAt = &changedAt
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil
	if err := u.users.Update(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := u.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}
