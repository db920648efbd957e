package jwt

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// JWT signs and verifies session tokens. A token binds a user to one
// server-side session; both must check out for a request to be authenticated.
type JWT struct {
	SecretKey string
}

// New creates a new JWT instance.
func New(secretKey string) *JWT {
	return &JWT{SecretKey: secretKey}
}

// Issue creates a signed token for the given user and session with the given lifetime.
func (j *JWT) Issue(ctx context.Context, userID int64, sessionID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    strconv.FormatInt(userID, 10),
		"session_id": sessionID,
		"exp":        time.Now().Add(ttl).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.SecretKey))
}

// Parse verifies the token signature and returns the embedded user ID and session ID.
func (j *JWT) Parse(ctx context.Context, tokenString string) (int64, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.SecretKey), nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("invalid token")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return 0, "", errors.New("user_id not found in token")
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, "", errors.New("invalid user_id format")
	}

	sessionID, ok := claims["session_id"].(string)
	if !ok || sessionID == "" {
		return 0, "", errors.New("session_id not found in token")
	}

	return userID, sessionID, nil
}

// GetTokenFromRequest extracts the token from the session cookie, falling back
// to a bearer Authorization header for non-browser clients.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("session cookie missing")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
