package enums

import (
	"fmt"
	"strings"
)

// ShareRole is the access level granted by a share link.
type ShareRole string

const (
	ShareRoleViewer ShareRole = "viewer"
	ShareRoleEditor ShareRole = "editor"
)

var validShareRoles = []ShareRole{
	ShareRoleViewer,
	ShareRoleEditor,
}

func (r ShareRole) String() string {
	return string(r)
}

func (r ShareRole) IsValid() bool {
	for _, candidate := range validShareRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseShareRole defaults blank input to viewer.
func ParseShareRole(value string) (ShareRole, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return ShareRoleViewer, nil
	}
	for _, candidate := range validShareRoles {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid share role %q", value)
}
