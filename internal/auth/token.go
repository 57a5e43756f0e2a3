package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/lawnmate-api/internal/config"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrWrongTokenType = errors.New("wrong token type")
	ErrTokenRevoked   = errors.New("token revoked")
)

type Claims struct {
	UserType  string    `json:"user_type"`
	UserRole  string    `json:"user_role,omitempty"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Principal decodes the claims into the typed principal.
func (c *Claims) Principal() (Principal, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%w: bad subject", ErrTokenInvalid)
	}

	switch UserType(c.UserType) {
	case UserTypeEmployee:
		return Employee{ID: uint(id), Role: Role(c.UserRole)}, nil
	case UserTypeCustomer:
		return Customer{ID: uint(id)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown user_type", ErrTokenInvalid)
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type TokenService struct {
	secret      []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	revocations RevocationStore
	now         func() time.Time
}

func NewTokenService(cfg *config.Config, revocations RevocationStore) *TokenService {
	if revocations == nil {
		revocations = NewMemoryRevocationStore()
	}
	return &TokenService{
		secret:      []byte(cfg.JWTSecret),
		accessTTL:   cfg.AccessTokenTTL,
		refreshTTL:  cfg.RefreshTokenTTL,
		revocations: revocations,
		now:         time.Now,
	}
}

func (s *TokenService) Revocations() RevocationStore {
	return s.revocations
}

func (s *TokenService) IssuePair(p Principal) (TokenPair, error) {
	access, err := s.IssueAccess(p)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(claimsFor(p), TokenRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) IssueAccess(p Principal) (string, error) {
	return s.sign(claimsFor(p), TokenAccess, s.accessTTL)
}

func claimsFor(p Principal) Claims {
	c := Claims{
		UserType: string(p.UserType()),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: p.Subject(),
		},
	}
	if e, ok := p.(Employee); ok {
		c.UserRole = string(e.Role)
	}
	return c
}

// sign stamps identity claims from base with fresh jti, iat and exp.
func (s *TokenService) sign(base Claims, kind TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserType:  base.UserType,
		UserRole:  base.UserRole,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   base.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) parse(tokenString string, kind TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != kind {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func (s *TokenService) ParseAccess(tokenString string) (*Claims, error) {
	return s.parse(tokenString, TokenAccess)
}

// ParseRefresh also rejects refresh tokens revoked by logout or by a
// revocation mark on the principal.
func (s *TokenService) ParseRefresh(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString, TokenRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	p, err := claims.Principal()
	if err != nil {
		return nil, err
	}
	mark, ok, err := s.revocations.SubjectRevokedBefore(ctx, p.Key())
	if err != nil {
		return nil, err
	}
	// iat has second precision, so a token from the mark's own second is
	// treated as older.
	if ok && (claims.IssuedAt == nil || !claims.IssuedAt.Time.After(mark)) {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Refresh mints an access token carrying the refresh token's user_type and
// user_role verbatim. The role is never looked up again.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, *Claims, error) {
	claims, err := s.ParseRefresh(ctx, refreshToken)
	if err != nil {
		return "", nil, err
	}
	access, err := s.sign(*claims, TokenAccess, s.accessTTL)
	if err != nil {
		return "", nil, err
	}
	return access, claims, nil
}

// Revoke blocks a single refresh token until it would have expired anyway.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	until := s.now().Add(s.refreshTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.revocations.RevokeToken(ctx, claims.ID, until)
}

// RevokePrincipal invalidates every refresh token the principal holds,
// e.g. after a role change or deletion.
func (s *TokenService) RevokePrincipal(ctx context.Context, p Principal) error {
	return s.revocations.RevokeSubjectBefore(ctx, p.Key(), s.now().Truncate(time.Second), s.refreshTTL)
}
