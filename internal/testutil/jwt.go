package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// GenerateTestKeyPair returns a fresh 2048-bit RSA key pair.
func GenerateTestKeyPair(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	return privateKey, &privateKey.PublicKey
}

// GenerateTestJWT signs an RS256 token shaped like the identity provider's:
// sub, realm_access.roles and, when orgID is set, organisationId.
func GenerateTestJWT(t *testing.T, privateKey *rsa.PrivateKey, userID, orgID string, roles []string) string {
	t.Helper()

	now := time.Now()
	realmRoles := make([]interface{}, 0, len(roles))
	for _, r := range roles {
		realmRoles = append(realmRoles, r)
	}

	claims := jwt.MapClaims{
		"sub":          userID,
		"iss":          TestIssuer,
		"iat":          now.Unix(),
		"exp":          now.Add(time.Hour).Unix(),
		"realm_access": map[string]interface{}{"roles": realmRoles},
	}
	if orgID != "" {
		claims["organisationId"] = orgID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = TestKeyID

	signed, err := token.SignedString(privateKey)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func GenerateSuperAdminToken(t *testing.T, privateKey *rsa.PrivateKey) string {
	t.Helper()
	return GenerateTestJWT(t, privateKey, SuperAdmin().UserID, "", []string{"SUPER_ADMIN"})
}

func GenerateOrgAdminToken(t *testing.T, privateKey *rsa.PrivateKey, userID, orgID string) string {
	t.Helper()
	return GenerateTestJWT(t, privateKey, userID, orgID, []string{"ORG_ADMIN"})
}

func GenerateMemberToken(t *testing.T, privateKey *rsa.PrivateKey, userID, orgID string) string {
	t.Helper()
	return GenerateTestJWT(t, privateKey, userID, orgID, []string{"MEMBER"})
}
