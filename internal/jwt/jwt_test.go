package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndParse(t *testing.T) {
	j := New("test-secret")
	ctx := context.Background()

	token, err := j.Issue(ctx, 42, "sid-123", time.Minute)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, sessionID, err := j.Parse(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "sid-123", sessionID)
}

func TestParse_WrongSecret(t *testing.T) {
	ctx := context.Background()

	token, err := New("secret-a").Issue(ctx, 1, "sid", time.Minute)
	assert.NoError(t, err)

	_, _, err = New("secret-b").Parse(ctx, token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	j := New("test-secret")
	ctx := context.Background()

	token, err := j.Issue(ctx, 7, "sid", -time.Minute)
	assert.NoError(t, err)

	_, _, err = j.Parse(ctx, token)
	assert.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	j := New("test-secret")

	_, _, err := j.Parse(context.Background(), "not.a.token")
	assert.Error(t, err)
}

func TestGetTokenFromRequest_Cookie(t *testing.T) {
	j := New("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})

	token, err := j.GetTokenFromRequest(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, "cookie-token", token)
}

func TestGetTokenFromRequest_BearerFallback(t *testing.T) {
	j := New("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")

	token, err := j.GetTokenFromRequest(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, "header-token", token)
}

func TestGetTokenFromRequest_Missing(t *testing.T) {
	j := New("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := j.GetTokenFromRequest(context.Background(), req)
	assert.Error(t, err)
}

func TestGetTokenFromRequest_BadHeader(t *testing.T) {
	j := New("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")

	_, err := j.GetTokenFromRequest(context.Background(), req)
	assert.Error(t, err)
}
