package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	"github.com/BruksfildServices01/lawnmate-api/internal/config"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
)

const (
	ContextPrincipal = "principal"
	ContextClaims    = "claims"

	APIKeyHeader = "X-API-KEY"
)

// Guards authenticate the bearer token (401 on failure) and then check
// the principal against one rule (403 on failure). Each protected route
// uses exactly one guard.
type Guards struct {
	tokens *auth.TokenService
	apiKey string
}

func NewGuards(tokens *auth.TokenService, cfg *config.Config) *Guards {
	return &Guards{tokens: tokens, apiKey: cfg.APIKey}
}

func (g *Guards) RequireEmployee() gin.HandlerFunc { return g.requireRole(auth.RoleEmployee) }
func (g *Guards) RequireLead() gin.HandlerFunc     { return g.requireRole(auth.RoleLead) }
func (g *Guards) RequireAdmin() gin.HandlerFunc    { return g.requireRole(auth.RoleAdmin) }

func (g *Guards) requireRole(min auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := g.authenticate(c)
		if !ok {
			return
		}

		emp, ok := p.(auth.Employee)
		if !ok {
			httperr.Abort(c, http.StatusForbidden, "employee_token_required", "Unauthorized - employee token required")
			return
		}
		if !emp.Role.AtLeast(min) {
			httperr.Abort(c, http.StatusForbidden, "insufficient_role", insufficientRoleMessage(min))
			return
		}

		c.Next()
	}
}

func insufficientRoleMessage(min auth.Role) string {
	switch min {
	case auth.RoleAdmin:
		return "Unauthorized - admin token required"
	case auth.RoleLead:
		return "Unauthorized - admin or lead token required"
	default:
		return "Unauthorized - admin, lead, or employee token required"
	}
}

func (g *Guards) RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := g.authenticate(c)
		if !ok {
			return
		}
		if _, ok := p.(auth.Customer); !ok {
			httperr.Abort(c, http.StatusForbidden, "customer_token_required", "Unauthorized - customer token required")
			return
		}
		c.Next()
	}
}

// RequireAPIKey needs a valid token of any principal plus the shared key.
func (g *Guards) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := g.authenticate(c); !ok {
			return
		}
		if !auth.APIKeyMatches(g.apiKey, c.GetHeader(APIKeyHeader)) {
			httperr.Abort(c, http.StatusForbidden, "invalid_api_key", "Unauthorized - Invalid API Key")
			return
		}
		c.Next()
	}
}

func (g *Guards) authenticate(c *gin.Context) (auth.Principal, bool) {
	tokenString, err := BearerToken(c)
	if err != nil {
		if errors.Is(err, ErrMissingBearer) {
			httperr.Abort(c, http.StatusUnauthorized, "missing_token", "Missing Authorization Header")
		} else {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header", "Expected 'Authorization: Bearer <token>'")
		}
		return nil, false
	}

	claims, err := g.tokens.ParseAccess(tokenString)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			httperr.Abort(c, http.StatusUnauthorized, "token_expired", "Token has expired")
		case errors.Is(err, auth.ErrWrongTokenType):
			httperr.Abort(c, http.StatusUnauthorized, "access_token_required", "Only access tokens are allowed")
		default:
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Invalid token")
		}
		return nil, false
	}

	p, err := claims.Principal()
	if err != nil {
		httperr.Abort(c, http.StatusUnauthorized, "invalid_token_claims", "Invalid token claims")
		return nil, false
	}

	c.Set(ContextClaims, claims)
	c.Set(ContextPrincipal, p)
	return p, true
}

var (
	ErrMissingBearer = errors.New("missing authorization header")
	ErrBadBearer     = errors.New("malformed authorization header")
)

func BearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", ErrMissingBearer
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrBadBearer
	}
	return strings.TrimSpace(parts[1]), nil
}

// --------------------------------------------------
// Context accessors (valid after the matching guard)
// --------------------------------------------------

func CurrentPrincipal(c *gin.Context) auth.Principal {
	return c.MustGet(ContextPrincipal).(auth.Principal)
}

func CurrentEmployee(c *gin.Context) auth.Employee {
	return c.MustGet(ContextPrincipal).(auth.Employee)
}

func CurrentCustomer(c *gin.Context) auth.Customer {
	return c.MustGet(ContextPrincipal).(auth.Customer)
}
