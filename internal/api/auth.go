// internal/api/auth.go
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cyberops/isora/internal/tenant"
)

// Errors
var (
	ErrNoToken      = errors.New("api: no bearer token")
	ErrInvalidToken = errors.New("api: invalid token")
	ErrTokenExpired = errors.New("api: token expired")
	ErrWrongType    = errors.New("api: not an access token")
)

// Claims is the token payload the platform issues
type Claims struct {
	TenantID         string   `json:"tenant_id,omitempty"`
	Role             string   `json:"org_role,omitempty"`
	IsSuperAdmin     bool     `json:"is_super_admin,omitempty"`
	AvailableTenants []string `json:"available_tenants,omitempty"`
	TokenType        string   `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// bearerToken extracts the raw token from the Authorization header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// decodeClaims parses the token WITHOUT verifying the signature. The
// rate-limit gate and the tenant middleware only need the claimed
// identity; protected handlers re-verify.
func decodeClaims(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// verifyClaims fully validates the token: HS256 signature, expiry and
// type == "access".
func verifyClaims(raw, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != "access" {
		return nil, ErrWrongType
	}
	return claims, nil
}

// tenantContext builds the per-request tenant identity from verified or
// decoded claims.
func tenantContext(claims *Claims) *tenant.Context {
	return &tenant.Context{
		TenantID:         claims.TenantID,
		UserID:           claims.Subject,
		OrgRole:          tenant.OrgRole(claims.Role),
		IsSuperAdmin:     claims.IsSuperAdmin,
		AvailableTenants: claims.AvailableTenants,
	}
}
