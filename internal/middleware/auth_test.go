package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	"github.com/BruksfildServices01/lawnmate-api/internal/config"
)

func setupGuardRouter(t *testing.T) (*gin.Engine, *auth.TokenService) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		APIKey:          "test-api-key",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}
	tokens := auth.NewTokenService(cfg, auth.NewMemoryRevocationStore())
	guards := NewGuards(tokens, cfg)

	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key": CurrentPrincipal(c).Key()})
	}

	r := gin.New()
	r.GET("/employee", guards.RequireEmployee(), ok)
	r.GET("/lead", guards.RequireLead(), ok)
	r.GET("/admin", guards.RequireAdmin(), ok)
	r.GET("/customer", guards.RequireCustomer(), ok)
	r.GET("/apikey", guards.RequireAPIKey(), ok)
	return r, tokens
}

func do(r *gin.Engine, path, token string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoleGuardMatrix(t *testing.T) {
	r, tokens := setupGuardRouter(t)

	issue := func(p auth.Principal) string {
		s, err := tokens.IssueAccess(p)
		require.NoError(t, err)
		return s
	}

	admin := issue(auth.Employee{ID: 1, Role: auth.RoleAdmin})
	lead := issue(auth.Employee{ID: 2, Role: auth.RoleLead})
	employee := issue(auth.Employee{ID: 3, Role: auth.RoleEmployee})
	unknownRole := issue(auth.Employee{ID: 4, Role: auth.Role("owner")})
	customer := issue(auth.Customer{ID: 1})

	tests := []struct {
		name  string
		token string
		want  map[string]int
	}{
		{"admin", admin, map[string]int{"/employee": 200, "/lead": 200, "/admin": 200, "/customer": 403}},
		{"lead", lead, map[string]int{"/employee": 200, "/lead": 200, "/admin": 403, "/customer": 403}},
		{"employee", employee, map[string]int{"/employee": 200, "/lead": 403, "/admin": 403, "/customer": 403}},
		{"unknown role", unknownRole, map[string]int{"/employee": 403, "/lead": 403, "/admin": 403, "/customer": 403}},
		{"customer", customer, map[string]int{"/employee": 403, "/lead": 403, "/admin": 403, "/customer": 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for path, status := range tt.want {
				w := do(r, path, tt.token, nil)
				assert.Equal(t, status, w.Code, "%s %s", tt.name, path)
			}
		})
	}
}

func TestUnauthenticatedIsNeverForbidden(t *testing.T) {
	r, tokens := setupGuardRouter(t)

	expired := auth.NewTokenService(&config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: -time.Minute,
	}, nil)
	expiredToken, err := expired.IssueAccess(auth.Employee{ID: 1, Role: auth.RoleAdmin})
	require.NoError(t, err)

	pair, err := tokens.IssuePair(auth.Employee{ID: 1, Role: auth.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", "missing_token"},
		{"wrong scheme", "Basic abc", "invalid_authorization_header"},
		{"garbage", "Bearer nope", "invalid_token"},
		{"expired", "Bearer " + expiredToken, "token_expired"},
		{"refresh token", "Bearer " + pair.RefreshToken, "access_token_required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range []string{"/employee", "/lead", "/admin", "/customer", "/apikey"} {
				req := httptest.NewRequest(http.MethodGet, path, nil)
				if tt.header != "" {
					req.Header.Set("Authorization", tt.header)
				}
				req.Header.Set(APIKeyHeader, "test-api-key")
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)

				assert.Equal(t, http.StatusUnauthorized, w.Code, path)
				assert.Contains(t, w.Body.String(), tt.wantCode, path)
			}
		})
	}
}

func TestAPIKeyGuard(t *testing.T) {
	r, tokens := setupGuardRouter(t)
	token, err := tokens.IssueAccess(auth.Customer{ID: 5})
	require.NoError(t, err)

	w := do(r, "/apikey", token, map[string]string{APIKeyHeader: "test-api-key"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "customer:5")

	w = do(r, "/apikey", token, map[string]string{APIKeyHeader: "wrong"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, "/apikey", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, "/apikey", "", map[string]string{APIKeyHeader: "test-api-key"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(discardLogger()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := do(r, "/ping", "", nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	w = do(r, "/ping", "", map[string]string{RequestIDHeader: "abc"})
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}
