package middleware

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zenmindful/internal/application/usecase"
	"zenmindful/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type resolverFunc func(ctx context.Context, token, header string) (usecase.Resolution, error)

func (f resolverFunc) Resolve(ctx context.Context, token, header string) (usecase.Resolution, error) {
	return f(ctx, token, header)
}

var testCookie = SessionCookie{Name: "zm_session", TTL: time.Hour}

func identityRouter(r Resolver) *gin.Engine {
	e := gin.New()
	e.GET("/me", Identity(r, testCookie), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserID(c)})
	})
	return e
}

func TestIdentity_PassesTokenAndHeader(t *testing.T) {
	var gotToken, gotHeader string
	r := identityRouter(resolverFunc(func(_ context.Context, token, header string) (usecase.Resolution, error) {
		gotToken, gotHeader = token, header
		return usecase.Resolution{UserID: "alice", Token: token}, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "zm_session", Value: "cookie-tok"})
	req.Header.Set(HeaderSessionToken, "header-tok")
	req.Header.Set(HeaderUserID, "bob")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"alice"}`, w.Body.String())
	assert.Equal(t, "cookie-tok", gotToken, "cookie wins over header")
	assert.Equal(t, "bob", gotHeader)
	assert.Empty(t, w.Header().Get("Set-Cookie"), "existing session is not re-issued")
}

func TestIdentity_IssuesSession(t *testing.T) {
	r := identityRouter(resolverFunc(func(_ context.Context, token, header string) (usecase.Resolution, error) {
		return usecase.Resolution{UserID: header, Token: "fresh", Issued: true}, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderUserID, "bob")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fresh", w.Header().Get(HeaderSessionToken))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "zm_session=fresh")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")
}

func TestIdentity_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{fmt.Errorf("%w: redis down", domain.ErrStorageUnavailable), http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
	}
	for _, tt := range tests {
		r := identityRouter(resolverFunc(func(context.Context, string, string) (usecase.Resolution, error) {
			return usecase.Resolution{}, tt.err
		}))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, tt.status, w.Code)
		assert.Contains(t, w.Body.String(), tt.code)
		assert.NotContains(t, w.Body.String(), "redis down")
	}
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, ErrorStatus(domain.ErrInvalidCode))
	assert.Equal(t, http.StatusBadRequest, ErrorStatus(domain.ErrInvalidChallenge))
	assert.Equal(t, http.StatusBadRequest, ErrorStatus(fmt.Errorf("%w: date", domain.ErrInvalidInput)))
	assert.Equal(t, http.StatusNotFound, ErrorStatus(domain.ErrNotEnrolled))
	assert.Equal(t, http.StatusConflict, ErrorStatus(domain.ErrIdentifierTaken))
	assert.Equal(t, http.StatusInternalServerError, ErrorStatus(io.EOF))
	assert.Equal(t, "INVALID_CHALLENGE", ErrorCode(domain.ErrInvalidChallenge))
	assert.Equal(t, "INTERNAL", ErrorCode(io.EOF))
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rl := NewRateLimiter(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := gin.New()
	r.POST("/otp", rl.Limit("otp", 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/otp", nil))
		return w
	}

	assert.Equal(t, http.StatusOK, hit().Code)
	assert.Equal(t, http.StatusOK, hit().Code)
	w := hit()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusOK, hit().Code)

	// fail open
	mr.Close()
	assert.Equal(t, http.StatusOK, hit().Code)
}
