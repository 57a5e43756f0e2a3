package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lawnmate-api/internal/config"
)

func newTestService() *TokenService {
	return NewTokenService(&config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  12 * time.Hour,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	}, NewMemoryRevocationStore())
}

func TestIssueAndParseAccess(t *testing.T) {
	svc := newTestService()

	tokens, err := svc.IssuePair(Employee{ID: 7, Role: RoleLead})
	require.NoError(t, err)

	claims, err := svc.ParseAccess(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "employee", claims.UserType)
	assert.Equal(t, "lead", claims.UserRole)
	assert.Equal(t, "7", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), claims.ExpiresAt.Time, time.Minute)

	p, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, Employee{ID: 7, Role: RoleLead}, p)
}

func TestCustomerTokenHasNoRole(t *testing.T) {
	svc := newTestService()

	access, err := svc.IssueAccess(Customer{ID: 7})
	require.NoError(t, err)

	claims, err := svc.ParseAccess(access)
	require.NoError(t, err)
	assert.Equal(t, "customer", claims.UserType)
	assert.Empty(t, claims.UserRole)

	p, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, Customer{ID: 7}, p)
}

func TestParseRejections(t *testing.T) {
	svc := newTestService()
	tokens, err := svc.IssuePair(Employee{ID: 1, Role: RoleAdmin})
	require.NoError(t, err)

	expired := newTestService()
	expired.now = func() time.Time { return time.Now().Add(-13 * time.Hour) }
	oldAccess, err := expired.IssueAccess(Employee{ID: 1, Role: RoleAdmin})
	require.NoError(t, err)

	other := NewTokenService(&config.Config{JWTSecret: "other", AccessTokenTTL: time.Hour}, nil)
	forged, err := other.IssueAccess(Employee{ID: 1, Role: RoleAdmin})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1", "user_type": "employee", "user_role": "admin", "token_type": "access",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", oldAccess, ErrTokenExpired},
		{"wrong secret", forged, ErrTokenInvalid},
		{"alg none", unsigned, ErrTokenInvalid},
		{"garbage", "not.a.token", ErrTokenInvalid},
		{"refresh used as access", tokens.RefreshToken, ErrWrongTokenType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseAccess(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRefreshCarriesClaimsVerbatim(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, p := range []Principal{
		Employee{ID: 3, Role: RoleLead},
		Employee{ID: 4, Role: RoleAdmin},
		Employee{ID: 5, Role: RoleEmployee},
		Customer{ID: 3},
	} {
		tokens, err := svc.IssuePair(p)
		require.NoError(t, err)

		original, err := svc.ParseRefresh(ctx, tokens.RefreshToken)
		require.NoError(t, err)

		access, _, err := svc.Refresh(ctx, tokens.RefreshToken)
		require.NoError(t, err)

		refreshed, err := svc.ParseAccess(access)
		require.NoError(t, err)
		assert.Equal(t, original.UserType, refreshed.UserType)
		assert.Equal(t, original.UserRole, refreshed.UserRole)
		assert.Equal(t, original.Subject, refreshed.Subject)
		assert.NotEqual(t, original.ID, refreshed.ID)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newTestService()
	tokens, err := svc.IssuePair(Employee{ID: 1, Role: RoleLead})
	require.NoError(t, err)

	_, _, err = svc.Refresh(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRevokedRefreshToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tokens, err := svc.IssuePair(Customer{ID: 9})
	require.NoError(t, err)

	claims, err := svc.ParseRefresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(ctx, claims))

	_, _, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRevokePrincipalOnlyAffectsOlderTokens(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	earlier := newTestService()
	earlier.revocations = svc.revocations
	earlier.now = func() time.Time { return time.Now().Add(-time.Hour) }

	stale, err := earlier.IssuePair(Employee{ID: 2, Role: RoleAdmin})
	require.NoError(t, err)

	require.NoError(t, svc.RevokePrincipal(ctx, Employee{ID: 2}))

	_, _, err = svc.Refresh(ctx, stale.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	later := newTestService()
	later.revocations = svc.revocations
	later.now = func() time.Time { return time.Now().Add(2 * time.Second) }

	fresh, err := later.IssuePair(Employee{ID: 2, Role: RoleEmployee})
	require.NoError(t, err)
	_, _, err = later.Refresh(ctx, fresh.RefreshToken)
	assert.NoError(t, err)

	other, err := earlier.IssuePair(Customer{ID: 2})
	require.NoError(t, err)
	_, _, err = svc.Refresh(ctx, other.RefreshToken)
	assert.NoError(t, err, "customer 2 and employee 2 are different principals")
}

func TestRevokePrincipalRejectsTokensFromTheSameSecond(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRevocationStore()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	at := func(d time.Duration) *TokenService {
		svc := newTestService()
		svc.revocations = store
		svc.now = func() time.Time { return base.Add(d) }
		return svc
	}

	pair, err := at(300*time.Millisecond).IssuePair(Employee{ID: 9, Role: RoleAdmin})
	require.NoError(t, err)

	require.NoError(t, at(800*time.Millisecond).RevokePrincipal(ctx, Employee{ID: 9}))

	_, _, err = at(2*time.Second).Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// a login in the following second is unaffected
	next, err := at(1100*time.Millisecond).IssuePair(Employee{ID: 9, Role: RoleEmployee})
	require.NoError(t, err)
	_, claims, err := at(2*time.Second).Refresh(ctx, next.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "employee", claims.UserRole)
}
