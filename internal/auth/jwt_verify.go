package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// RoleSuperAdmin is the realm role that bypasses organization scoping.
const RoleSuperAdmin = "SUPER_ADMIN"

// Principal holds identity extracted from a validated token.
type Principal struct {
	UserID string
	Roles  []string
	OrgID  string
	Claims jwt.MapClaims
}

// IsSuperAdmin reports whether the principal holds the SUPER_ADMIN realm role.
func (p *Principal) IsSuperAdmin() bool {
	return p.HasRole(RoleSuperAdmin)
}

// HasRole compares case-insensitively since Keycloak realm roles are often lower case.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// OrganizationID parses the organisationId claim. ok is false when the claim
// is absent or not numeric.
func (p *Principal) OrganizationID() (int64, bool) {
	if p.OrgID == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(p.OrgID, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

var (
	ErrNoToken         = errors.New("no token provided")
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidIssuer   = errors.New("invalid issuer")
	ErrInvalidAudience = errors.New("invalid audience")
	ErrMissingSub      = errors.New("missing sub claim")
)

// Verifier validates bearer tokens against a key source.
type Verifier struct {
	cfg  Config
	keys KeySource
}

// NewVerifier constructs a verifier with config and a key source, usually a *JWKS.
func NewVerifier(cfg Config, keys KeySource) *Verifier {
	return &Verifier{cfg: cfg, keys: keys}
}

var parser = jwt.NewParser(jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}))

// ParseAndVerifyToken checks signature, issuer, expiry and (when configured)
// audience, then maps the claims onto a Principal.
func (v *Verifier) ParseAndVerifyToken(tokenString string) (*Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrNoToken
	}

	claims := jwt.MapClaims{}
	parsed, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrInvalidToken
		}
		return v.keys.Get(kid)
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if iss, _ := claims["iss"].(string); iss != v.cfg.Issuer {
		return nil, ErrInvalidIssuer
	}
	// MapClaims.Valid treats a missing exp as valid; tokens here must carry one.
	if !claims.VerifyExpiresAt(jwt.TimeFunc().Unix(), true) {
		return nil, ErrInvalidToken
	}
	if v.cfg.Audience != "" && !claims.VerifyAudience(v.cfg.Audience, true) {
		return nil, ErrInvalidAudience
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrMissingSub
	}

	return &Principal{
		UserID: sub,
		Roles:  realmRoles(claims),
		OrgID:  orgClaim(claims),
		Claims: claims,
	}, nil
}

func realmRoles(claims jwt.MapClaims) []string {
	access, _ := claims["realm_access"].(map[string]interface{})
	raw, _ := access["roles"].([]interface{})

	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok && s != "" {
			roles = append(roles, s)
		}
	}
	return roles
}

// organisationId may be string or number
func orgClaim(claims jwt.MapClaims) string {
	switch v := claims["organisationId"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
