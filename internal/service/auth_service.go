package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"collabhub/internal/middleware"
	"collabhub/internal/models"
	"collabhub/internal/observability"
	"collabhub/internal/repository"
	"collabhub/internal/validation"
)

// AuthService implements signup, login, and the session lifecycle.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

// NewAuthService returns a new AuthService.
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// SignupInput carries the fields of a signup request.
type SignupInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginInput identifies a user by email or username.
type LoginInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup validates the input, checks email and username uniqueness in one
// query, and creates the user with a bcrypt-hashed password. It does not log
// the new user in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("An account with that email or username already exists.")
	}

	hashed, err := HashPassword(strings.TrimSpace(in.Password))
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Password: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by email or username and issues a fresh session.
// Unknown identifier and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, *models.Session, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case in.Email != "":
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	case in.Username != "":
		user, err = s.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	default:
		return nil, nil, models.NewValidationError("Email or username is required.")
	}
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !CheckPassword(in.Password, user.Password) {
		return nil, nil, models.NewUnauthorizedError("Invalid credentials.")
	}

	session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// CreateSession issues an opaque random token with a fixed 7-day expiry.
// Token entropy makes a collision check unnecessary.
func (s *AuthService) CreateSession(ctx context.Context, userID string) (*models.Session, error) {
	session := &models.Session{
		Token:     models.NewSessionToken(),
		UserID:    userID,
		ExpiresAt: s.now().Add(models.SessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	observability.SessionsIssued.Inc()
	return session, nil
}

// ValidateSession resolves a token to its user. An absent token returns
// (nil, nil). An expired row is deleted on first access and also returns
// (nil, nil); there is no background sweep.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(s.now()) {
		if delErr := s.sessionRepo.DeleteByToken(ctx, token); delErr != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete expired session",
				slog.String("error", delErr.Error()))
		}
		observability.SessionsExpiredLazily.Inc()
		return nil, nil
	}
	return &session.User, nil
}

// DestroySession deletes every session row matching the token. Idempotent.
func (s *AuthService) DestroySession(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteByToken(ctx, token)
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	Username string `json:"username"`
	Image    string `json:"image"`
}

// UpdateProfile changes the user's username and image. A changed username is
// re-checked for uniqueness.
func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, in UpdateProfileInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	image := strings.TrimSpace(in.Image)

	if len(username) < 3 {
		return nil, models.NewValidationError("Username must be at least 3 characters.")
	}
	if image != "" {
		if err := validation.ValidateImageURL(image); err != nil {
			return nil, models.NewValidationError("Please enter a valid URL for the image.")
		}
	}

	if username != user.Username {
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewValidationError("That username is already taken.")
		}
	}

	user.Username = username
	user.Image = image
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
