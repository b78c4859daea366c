package auth

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(tokens *TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireToken(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, strconv.FormatInt(UserIDFromContext(c), 10))
	})
	return r
}

func TestRequireToken(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("test-secret", time.Hour)
	validToken, err := tokens.Issue(42)
	require.NoError(t, err)

	otherSecret := NewTokenService("other-secret", time.Hour)
	forgedToken, err := otherSecret.Issue(42)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Authorization header missing or invalid"}`,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Authorization header missing or invalid"}`,
		},
		{
			name:       "lowercase bearer rejected",
			authHeader: "bearer " + validToken,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Authorization header missing or invalid"}`,
		},
		{
			name:       "malformed token",
			authHeader: "Bearer garbage",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid or expired token"}`,
		},
		{
			name:       "forged signature",
			authHeader: "Bearer " + forgedToken,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid or expired token"}`,
		},
		{
			name:       "valid token",
			authHeader: "Bearer " + validToken,
			wantStatus: http.StatusOK,
			wantBody:   "42",
		},
	}

	r := newProtectedRouter(tokens)

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestUserIDFromContext_Unset(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, int64(0), UserIDFromContext(c))
}
