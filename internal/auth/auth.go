package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

const (
	// PermissionWrite allows section patches and asset mutations.
	PermissionWrite = "sections.write"
	// PermissionRead allows section reads.
	PermissionRead = "sections.read"

	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

var (
	ErrSecretRequired = errors.New("auth: signing secret is required")
	ErrUnauthorized   = errors.New("auth: missing or invalid bearer token")
	ErrForbidden      = errors.New("auth: permission denied")
)

// Claims is the payload of an access token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Service issues and verifies HS256 access tokens.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

var _ interfaces.AuthProvider = (*Service)(nil)

// Option customises the service.
type Option func(*Service)

// WithTTL sets the lifetime of issued tokens.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the clock used to issue and verify tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a token service.
func New(secret, issuer string, opts ...Option) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretRequired
	}
	s := &Service{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		ttl:    12 * time.Hour,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Issue signs a token for subject with role.
func (s *Service) Issue(subject, role string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and issuer of token.
func (s *Service) Verify(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

type claimsKey struct{}

// WithClaims stores claims on ctx.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

// CurrentUserID implements interfaces.AuthProvider.
func (s *Service) CurrentUserID(ctx context.Context) (string, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}

// HasPermission implements interfaces.AuthProvider. Admins and editors may
// write; any authenticated role may read.
func (s *Service) HasPermission(ctx context.Context, permission string) (bool, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return false, ErrUnauthorized
	}
	switch permission {
	case PermissionRead:
		return true, nil
	case PermissionWrite:
		return claims.Role == RoleAdmin || claims.Role == RoleEditor, nil
	default:
		return claims.Role == RoleAdmin, nil
	}
}

// Require wraps next so it only runs for bearers holding permission.
func (s *Service) Require(permission string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			deny(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}
		claims, err := s.Verify(strings.TrimSpace(token))
		if err != nil {
			deny(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}
		ctx := WithClaims(r.Context(), claims)
		allowed, err := s.HasPermission(ctx, permission)
		if err != nil || !allowed {
			deny(w, http.StatusForbidden, ErrForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func deny(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(interfaces.Envelope{OK: false, Status: status, Message: err.Error()})
}
