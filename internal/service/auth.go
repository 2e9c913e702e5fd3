package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mahatkd/federation-api/internal/auth"
	"github.com/mahatkd/federation-api/internal/database"
	"github.com/mahatkd/federation-api/internal/domain"
	"github.com/mahatkd/federation-api/internal/mail"
	"github.com/mahatkd/federation-api/internal/repository"
	apperrors "github.com/mahatkd/federation-api/pkg/errors"
)

// resetTokenLifetime is how long a password-reset grant stays valid.
const resetTokenLifetime = 60 * time.Minute

// AuthService implements account registration, login, and credential
// recovery.
type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	denylist *auth.Denylist
	google   auth.GoogleVerifier
	mailer   mail.Mailer
	logger   *slog.Logger
}

// NewAuthService creates a new auth service. denylist may be nil (logout
// then only clears the client cookie) and google may be nil (Google sign-in
// disabled).
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenManager,
	denylist *auth.Denylist,
	google auth.GoogleVerifier,
	mailer mail.Mailer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
		google:   google,
		mailer:   mailer,
		logger:   logger,
	}
}

// --- Input types ---

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// LoginInput holds the parameters for password login.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput holds the parameters for updating a user's profile.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name        *string
	PhoneNumber *string
	PhotoURL    *string
	Street      *string
	City        *string
	State       *string
	ZipCode     *string
	Country     *string
	DOB         *time.Time
}

// --- Operations ---

// Register creates a new user account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	if input.Name == "" {
		return nil, "", apperrors.InvalidInput("name is required")
	}
	if input.Email == "" {
		return nil, "", apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, "", apperrors.InvalidInput("password is required")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		BeltRank:     domain.BeltWhite,
		PhoneNumber:  input.Phone,
		MemberSince:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = database.WithRetry(ctx, func(ctx context.Context) error {
		return s.users.Create(ctx, user)
	})
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// Login authenticates a user by email and password, returning a session
// token. The last-login update is non-critical: its failure is logged and
// the login still succeeds.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	if input.Email == "" || input.Password == "" {
		return nil, "", apperrors.InvalidInput("email and password are required")
	}

	var user *domain.User
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByEmail(ctx, input.Email)
		return err
	})
	if err != nil {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WarnContext(ctx, "failed to update last login",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	} else {
		user.LastLoginAt = &now
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return user, token, nil
}

// GoogleLogin signs a user in with a Google ID token, creating the account
// on first sign-in and linking the Google identity to an existing account
// that shares the email.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*domain.User, string, error) {
	if idToken == "" {
		return nil, "", apperrors.InvalidInput("google credential is required")
	}
	if s.google == nil {
		return nil, "", apperrors.InvalidInput("google sign-in is not configured")
	}

	profile, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, "", apperrors.Unauthorized("invalid google credential")
	}

	user, err := s.users.GetByGoogleID(ctx, profile.Subject)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			return nil, "", fmt.Errorf("lookup google account: %w", err)
		}
		user, err = s.linkOrCreateGoogleUser(ctx, profile)
		if err != nil {
			return nil, "", err
		}
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WarnContext(ctx, "failed to update last login",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "google login", slog.String("user_id", user.ID))

	return user, token, nil
}

func (s *AuthService) linkOrCreateGoogleUser(ctx context.Context, profile *auth.GoogleProfile) (*domain.User, error) {
	// An existing password account with the same email gets the Google
	// identity linked rather than duplicated.
	user, err := s.users.GetByEmail(ctx, profile.Email)
	if err == nil {
		user.GoogleID = &profile.Subject
		if user.PhotoURL == "" {
			user.PhotoURL = profile.Picture
		}
		if err := s.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("link google account: %w", err)
		}
		return user, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("lookup account by email: %w", err)
	}

	now := time.Now().UTC()
	user = &domain.User{
		ID:          uuid.New().String(),
		Name:        profile.Name,
		Email:       strings.ToLower(profile.Email),
		Role:        domain.RoleUser,
		BeltRank:    domain.BeltWhite,
		PhotoURL:    profile.Picture,
		GoogleID:    &profile.Subject,
		MemberSince: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create google user: %w", err)
	}

	s.logger.InfoContext(ctx, "user created via google sign-in",
		slog.String("user_id", user.ID),
	)
	return user, nil
}

// GetProfile returns the user with the given id.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	var user *domain.User
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByID(ctx, userID)
		return err
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of input to the user's profile.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.PhotoURL != nil {
		user.PhotoURL = *input.PhotoURL
	}
	if input.Street != nil {
		user.Street = *input.Street
	}
	if input.City != nil {
		user.City = *input.City
	}
	if input.State != nil {
		user.State = *input.State
	}
	if input.ZipCode != nil {
		user.ZipCode = *input.ZipCode
	}
	if input.Country != nil {
		user.Country = *input.Country
	}
	if input.DOB != nil {
		user.DOB = input.DOB
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return user, nil
}

// ChangePassword lets an authenticated user replace their password after
// proving they know the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return apperrors.InvalidInput("current password is required")
	}
	if newPassword == "" {
		return apperrors.InvalidInput("new password is required")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.PasswordHash, currentPassword) {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed", slog.String("user_id", user.ID))

	return nil
}

// ForgotPassword issues a reset grant and emails the reset link. It always
// succeeds from the caller's perspective so the endpoint cannot be used to
// enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the email exists.
		s.logger.InfoContext(ctx, "password reset requested for unknown email")
		return nil
	}

	token, digest, err := auth.GenerateResetToken()
	if err != nil {
		return err
	}

	expires := time.Now().UTC().Add(resetTokenLifetime)
	if err := s.users.SetResetToken(ctx, user.ID, digest, expires); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, token, resetTokenLifetime); err != nil {
		s.logger.ErrorContext(ctx, "failed to send password reset email",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "password reset requested", slog.String("user_id", user.ID))

	return nil
}

// VerifyResetToken reports whether a reset token is valid and unexpired.
func (s *AuthService) VerifyResetToken(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.InvalidInput("reset token is required")
	}

	_, err := s.users.GetByResetTokenHash(ctx, auth.HashResetToken(token))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.InvalidInput("invalid or expired reset token")
		}
		return fmt.Errorf("verify reset token: %w", err)
	}

	return nil
}

// ResetPassword consumes a reset grant: the new password is stored and the
// grant cleared, so the same token cannot be used twice.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return apperrors.InvalidInput("reset token is required")
	}
	if newPassword == "" {
		return apperrors.InvalidInput("password is required")
	}

	user, err := s.users.GetByResetTokenHash(ctx, auth.HashResetToken(token))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.InvalidInput("invalid or expired reset token")
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	// UpdatePassword clears the reset grant in the same statement.
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset completed", slog.String("user_id", user.ID))

	return nil
}

// Logout revokes the presented token until its natural expiry. Without a
// denylist this is a no-op server-side; the client clears its cookie.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.denylist == nil || token == "" {
		return nil
	}
	if err := s.denylist.Revoke(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "failed to revoke token on logout",
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// ListUsers returns all accounts. Admin only; enforced by the router.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := database.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		users, err = s.users.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
