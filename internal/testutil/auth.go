package testutil

import (
	"crypto/rsa"
	"testing"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
)

// TestIssuer is the issuer baked into every token minted by this package.
const TestIssuer = "https://test-keycloak.com/realms/test"

// TestKeyID is the kid header of minted tokens.
const TestKeyID = "test-key-id"

// StaticKeys is an in-memory auth.KeySource.
type StaticKeys map[string]*rsa.PublicKey

func (s StaticKeys) Get(kid string) (*rsa.PublicKey, error) {
	if k, ok := s[kid]; ok {
		return k, nil
	}
	return nil, auth.ErrKeyNotFound
}

// CreateTestVerifier creates a verifier configured for E2E testing
// It returns the verifier and the private key to sign test tokens
func CreateTestVerifier(t *testing.T) (*auth.Verifier, *rsa.PrivateKey) {
	t.Helper()

	privateKey, publicKey := GenerateTestKeyPair(t)
	verifier := auth.NewVerifier(auth.Config{Issuer: TestIssuer}, StaticKeys{TestKeyID: publicKey})

	return verifier, privateKey
}

// SuperAdmin returns a principal holding SUPER_ADMIN.
func SuperAdmin() *auth.Principal {
	return &auth.Principal{UserID: "admin-123", Roles: []string{"SUPER_ADMIN"}}
}

// OrgAdmin returns an ORG_ADMIN principal bound to orgID.
func OrgAdmin(userID, orgID string) *auth.Principal {
	return &auth.Principal{UserID: userID, Roles: []string{"ORG_ADMIN"}, OrgID: orgID}
}

// Member returns a MEMBER principal bound to orgID.
func Member(userID, orgID string) *auth.Principal {
	return &auth.Principal{UserID: userID, Roles: []string{"MEMBER"}, OrgID: orgID}
}
