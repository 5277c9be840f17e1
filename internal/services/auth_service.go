package services

import (
	"log/slog"

	"github.com/ascendo/trainboard/internal/models"
	"github.com/ascendo/trainboard/pkg/auth"
	pkglogger "github.com/ascendo/trainboard/pkg/logger"
)

// UserRepository is the slice of the user store the auth service depends on.
type UserRepository interface {
	Get(username string) (models.User, bool)
	Create(user models.User) error
}

// SessionRepository manages bearer-token sessions.
type SessionRepository interface {
	Create(username string) (string, error)
	Lookup(token string) (string, bool)
	Revoke(token string) (string, bool)
	Rotate(oldToken string) (string, error)
}

// LoginThrottle gates login attempts per source address. Check runs before
// the credential comparison; the Record calls run after it.
type LoginThrottle interface {
	Check(ip string) error
	RecordFailure(ip string) int64
	RecordSuccess(ip string)
}

// DirtyMarker flags the durable state as needing a flush.
type DirtyMarker interface {
	MarkDirty()
}

// AuthService handles registration, login, and session resolution.
type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	throttle LoginThrottle
	dirty    DirtyMarker
	settings models.Settings
	logger   *slog.Logger
	audit    *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users UserRepository,
	sessions SessionRepository,
	throttle LoginThrottle,
	dirty DirtyMarker,
	settings models.Settings,
	logger *slog.Logger,
	audit *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		throttle: throttle,
		dirty:    dirty,
		settings: settings,
		logger:   logger,
		audit:    audit,
	}
}

// AuthResponse is returned from successful register/login/rotate calls.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Register creates a new account and opens a session for it. A duplicate
// username returns models.ErrUsernameExists.
func (s *AuthService) Register(username, password string) (*AuthResponse, error) {
	salt, err := auth.GenerateSalt()
	if err != nil {
		s.logger.Error("failed to generate salt", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := models.User{
		Username:     username,
		PasswordHash: auth.HashPassword(password, salt),
		Salt:         salt,
	}

	if err := s.users.Create(user); err != nil {
		s.logger.Info("registration failed: username taken")
		return nil, err
	}
	s.dirty.MarkDirty()

	token, err := s.sessions.Create(username)
	if err != nil {
		s.logger.Error("failed to create session", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.String("username", username))
	s.audit.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "registered",
		Username:  username,
		Success:   true,
	})

	return &AuthResponse{Token: token, Username: username, IsAdmin: s.settings.IsAdmin(username)}, nil
}

// Login authenticates a username/password pair from the given source address.
// The throttle is consulted before the credential comparison and updated with
// the outcome after it. On failure the returned error carries the wait hint;
// the error never distinguishes a wrong username from a wrong password.
func (s *AuthService) Login(username, password, ip string) (*AuthResponse, error) {
	if err := s.throttle.Check(ip); err != nil {
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			IPAddress:     ip,
			FailureReason: "rate_limited",
		})
		return nil, err
	}

	user, found := s.users.Get(username)
	if !found || !auth.VerifyPassword(password, user.Salt, user.PasswordHash) {
		timeout := s.throttle.RecordFailure(ip)
		s.logger.Info("login failed: invalid credentials")
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			IPAddress:     ip,
			FailureReason: "invalid_credentials",
		})
		return nil, &models.InvalidCredentialsError{Seconds: timeout}
	}

	s.throttle.RecordSuccess(ip)

	token, err := s.sessions.Create(username)
	if err != nil {
		s.logger.Error("failed to create session", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.audit.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		Username:  username,
		IPAddress: ip,
		Success:   true,
	})

	return &AuthResponse{Token: token, Username: username, IsAdmin: s.settings.IsAdmin(username)}, nil
}

// Logout revokes the session for token. Revoking an unknown token is a no-op:
// the session is gone either way.
func (s *AuthService) Logout(token string) {
	if username, ok := s.sessions.Revoke(token); ok {
		s.logger.Info("user logged out", slog.String("username", username))
	}
}

// Authenticate resolves a bearer token to its username.
func (s *AuthService) Authenticate(token string) (string, error) {
	if token == "" {
		return "", models.ErrNotAuthenticated
	}
	username, ok := s.sessions.Lookup(token)
	if !ok {
		return "", models.ErrInvalidToken
	}
	return username, nil
}

// RotateToken exchanges a live token for a fresh one, invalidating the old.
func (s *AuthService) RotateToken(token string) (*AuthResponse, error) {
	if token == "" {
		return nil, models.ErrNotAuthenticated
	}
	newToken, err := s.sessions.Rotate(token)
	if err != nil {
		return nil, err
	}
	username, _ := s.sessions.Lookup(newToken)
	return &AuthResponse{Token: newToken, Username: username, IsAdmin: s.settings.IsAdmin(username)}, nil
}

// IsAdmin reports whether username is configured as an administrator.
func (s *AuthService) IsAdmin(username string) bool {
	return s.settings.IsAdmin(username)
}
