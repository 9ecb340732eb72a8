package auth

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Permissions maps a role name to the permissions it grants, as listed in
// permissions.yml.
type Permissions map[string][]string

// LoadPermissions reads and parses the role table at path.
func LoadPermissions(path string) (Permissions, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read permissions file: %w", err)
	}
	return ParsePermissions(b)
}

// ParsePermissions decodes the YAML role table.
func ParsePermissions(b []byte) (Permissions, error) {
	var doc struct {
		Roles map[string][]string `yaml:"roles"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse permissions: %w", err)
	}
	return Permissions(doc.Roles), nil
}

// grants looks role up as written and then upper-cased, so a realm role
// "org_admin" resolves to the ORG_ADMIN entry.
func (p Permissions) grants(role, permission string) bool {
	list, ok := p[role]
	if !ok {
		list = p[strings.ToUpper(role)]
	}
	for _, granted := range list {
		if granted == permission {
			return true
		}
	}
	return false
}
