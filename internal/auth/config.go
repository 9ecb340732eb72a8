package auth

import "github.com/WailSalutem-Health-Care/membership-service/internal/config"

// Config holds auth configuration
type Config struct {
	Issuer   string
	JWKSURL  string
	Audience string
}

var (
	// Defaults are the Keycloak realm values used when nothing is configured.
	DefaultIssuer  = "https://keycloak-wailsalutem-suite.apps.inholland-minor.openshift.eu/realms/wailsalutem"
	DefaultJWKSURL = "https://keycloak-wailsalutem-suite.apps.inholland-minor.openshift.eu/realms/wailsalutem/protocol/openid-connect/certs"
)

// FromConfig builds the verifier settings from the service configuration.
func FromConfig(ac config.AuthConfig) Config {
	cfg := Config{
		Issuer:   ac.Issuer,
		JWKSURL:  ac.JWKSURL,
		Audience: ac.Audience,
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.JWKSURL == "" {
		cfg.JWKSURL = DefaultJWKSURL
	}
	return cfg
}
