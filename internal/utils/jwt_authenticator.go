package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// AuthenticatedUser is the caller identity extracted from a verified bearer token.
// Sub is the user id every ownership check is scoped to.
type AuthenticatedUser struct {
	Sub      string   `json:"sub"`
	Iss      string   `json:"iss"`
	ClientId string   `json:"client_id"`
	Exp      int64    `json:"exp"`
	Iat      int64    `json:"iat"`
	Aud      []string `json:"aud"`
	Roles    []string `json:"roles"`
	Scopes   []string `json:"scopes"`
}

// JwtAuthenticator verifies bearer tokens either against the auth provider's
// JWKS (RS/ES signatures) or against a shared HS256 secret.
type JwtAuthenticator struct {
	JwksUri string

	secret             []byte
	cacheTTL           time.Duration
	minRefetchInterval time.Duration
	httpClient         *http.Client

	mu          sync.Mutex
	keySet      jwk.Set
	fetchedAt   time.Time
	lastAttempt time.Time
}

// NewJwtAuthenticator creates an authenticator that resolves signing keys from jwksUri.
func NewJwtAuthenticator(jwksUri string) *JwtAuthenticator {
	return &JwtAuthenticator{
		JwksUri:            jwksUri,
		cacheTTL:           5 * time.Minute,
		minRefetchInterval: time.Minute,
		httpClient:         &http.Client{Timeout: 30 * time.Second},
	}
}

// NewSimpleJwtAuthenticator creates an authenticator for HS256 tokens signed with secret.
func NewSimpleJwtAuthenticator(secret string) *JwtAuthenticator {
	return &JwtAuthenticator{
		secret:   []byte(secret),
		cacheTTL: 5 * time.Minute,
	}
}

// ValidateToken verifies the signature and standard time claims and returns the caller.
func (a *JwtAuthenticator) ValidateToken(tokenString string) (*AuthenticatedUser, error) {
	if len(a.secret) == 0 && a.JwksUri == "" {
		return nil, errors.New("JWKS URI not configured")
	}

	token, err := jwt.Parse(tokenString, a.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	user, err := a.mapClaimsToUser(claims)
	if err != nil {
		return nil, err
	}
	if user.Sub == "" {
		return nil, errors.New("token has no subject")
	}
	return user, nil
}

func (a *JwtAuthenticator) keyFunc(token *jwt.Token) (interface{}, error) {
	if len(a.secret) > 0 {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}

	switch token.Method.(type) {
	case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA, *jwt.SigningMethodRSAPSS:
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}

	kid, _ := token.Header["kid"].(string)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.fetchKey(ctx, kid)
}

// fetchKey returns the raw public key for kid. The key set is refetched when
// it is stale or lacks kid, but at most once per minRefetchInterval: inside
// that window an unknown kid is rejected from the cached set.
func (a *JwtAuthenticator) fetchKey(ctx context.Context, kid string) (interface{}, error) {
	a.mu.Lock()
	if a.keySet != nil && time.Since(a.fetchedAt) < a.cacheTTL {
		if key, ok := lookupKey(a.keySet, kid); ok {
			a.mu.Unlock()
			return rawKey(key)
		}
	}
	if a.keySet != nil && time.Since(a.lastAttempt) < a.minRefetchInterval {
		key, ok := lookupKey(a.keySet, kid)
		a.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("signing key %q not found in JWKS", kid)
		}
		return rawKey(key)
	}
	a.lastAttempt = time.Now()
	a.mu.Unlock()

	set, err := jwk.Fetch(ctx, a.JwksUri, jwk.WithHTTPClient(a.httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	a.mu.Lock()
	a.keySet = set
	a.fetchedAt = time.Now()
	a.mu.Unlock()

	key, ok := lookupKey(set, kid)
	if !ok {
		return nil, fmt.Errorf("signing key %q not found in JWKS", kid)
	}
	return rawKey(key)
}

func lookupKey(set jwk.Set, kid string) (jwk.Key, bool) {
	if kid == "" {
		if set.Len() == 1 {
			return set.Key(0)
		}
		return nil, false
	}
	return set.LookupKeyID(kid)
}

func rawKey(key jwk.Key) (interface{}, error) {
	var raw interface{}
	if err := key.Raw(&raw); err != nil {
		return nil, fmt.Errorf("failed to extract public key: %w", err)
	}
	return raw, nil
}

func (a *JwtAuthenticator) mapClaimsToUser(claims map[string]interface{}) (*AuthenticatedUser, error) {
	user := &AuthenticatedUser{
		Sub:      stringClaim(claims, "sub"),
		Iss:      stringClaim(claims, "iss"),
		ClientId: stringClaim(claims, "client_id"),
		Exp:      intClaim(claims, "exp"),
		Iat:      intClaim(claims, "iat"),
		Aud:      stringListClaim(claims, "aud"),
		Roles:    stringListClaim(claims, "roles"),
		Scopes:   stringListClaim(claims, "scopes"),
	}
	return user, nil
}

func stringClaim(claims map[string]interface{}, name string) string {
	v, _ := claims[name].(string)
	return v
}

func intClaim(claims map[string]interface{}, name string) int64 {
	switch v := claims[name].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func stringListClaim(claims map[string]interface{}, name string) []string {
	switch v := claims[name].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
