package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkravtsov/shop-backend/internal/logger"
	"github.com/dkravtsov/shop-backend/internal/models"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrUserDoesNotExist   = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID int64) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, email, passwordHash string) (*models.UserDB, error)
}

// SessionStore manages server-side sessions.
type SessionStore interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, sessionID string) (int64, error)
	Destroy(ctx context.Context, sessionID string) error
}

// TokenProvider signs and verifies the cookie token binding a user to a session.
type TokenProvider interface {
	Issue(ctx context.Context, userID int64, sessionID string, ttl time.Duration) (string, error)
	Parse(ctx context.Context, token string) (int64, string, error)
}

// AuthService handles registration, login, logout, and principal resolution.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	sessions    SessionStore
	tokens      TokenProvider
	sessionTTL  time.Duration
	rememberTTL time.Duration
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, sessions SessionStore, tokens TokenProvider, sessionTTL, rememberTTL time.Duration) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		sessions:    sessions,
		tokens:      tokens,
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
	}
}

// SessionTTL returns the session lifetime for the given remember flag.
// Handlers use it to set the cookie max age consistently with the token.
func (svc *AuthService) SessionTTL(remember bool) time.Duration {
	if remember {
		return svc.rememberTTL
	}
	return svc.sessionTTL
}

// Register creates a new user and immediately starts a session for it.
// Duplicates are caught by a pre-check and, for races, by the store's own
// uniqueness constraint.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) (*models.UserDB, string, error) {
	existing, err := svc.reader.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, "", err
	}

	user, err := svc.writer.Save(ctx, username, email, string(hashedPassword))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, "", ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, "", err
	}

	token, err := svc.startSession(ctx, user.UserID, svc.sessionTTL)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login authenticates a user by email and password and starts a session.
func (svc *AuthService) Login(ctx context.Context, email, password string, remember bool) (*models.UserDB, string, error) {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, nil, &email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := svc.startSession(ctx, user.UserID, svc.SessionTTL(remember))
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Logout destroys the server-side session. The cookie the client still holds
// stops resolving immediately.
func (svc *AuthService) Logout(ctx context.Context, sessionID string) error {
	return svc.sessions.Destroy(ctx, sessionID)
}

// Authenticate verifies the cookie token and the live session behind it and
// returns the request principal.
func (svc *AuthService) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	userID, sessionID, err := svc.tokens.Parse(ctx, token)
	if err != nil {
		return models.Principal{}, err
	}

	storedUserID, err := svc.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return models.Principal{}, err
	}
	if storedUserID != userID {
		return models.Principal{}, errors.New("session does not belong to token user")
	}

	return models.Principal{UserID: userID, SessionID: sessionID}, nil
}

// CurrentUser resolves the token to its full user record.
func (svc *AuthService) CurrentUser(ctx context.Context, token string) (*models.UserDB, error) {
	principal, err := svc.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := svc.reader.GetByID(ctx, principal.UserID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}

	return user, nil
}

func (svc *AuthService) startSession(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	sessionID, err := svc.sessions.Create(ctx, userID, ttl)
	if err != nil {
		logger.Log.Errorw("failed to create session", "err", err)
		return "", err
	}

	token, err := svc.tokens.Issue(ctx, userID, sessionID, ttl)
	if err != nil {
		logger.Log.Errorw("failed to issue session token", "err", err)
		return "", err
	}

	return token, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
