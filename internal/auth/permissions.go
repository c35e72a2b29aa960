package auth

import "github.com/visonai/visonai-gateway/internal/db/models"

// Capabilities checked by the admin surface.
const (
	// CapManageOptions allows editing the gateway settings.
	CapManageOptions = "manage_options"
	// CapEditPosts allows writing posts.
	CapEditPosts = "edit_posts"
	// CapRead allows signing in.
	CapRead = "read"
)

var roleCapabilities = map[string][]string{ //nolint:gochecknoglobals
	models.RoleAdministrator: {CapManageOptions, CapEditPosts, CapRead},
	models.RoleEditor:        {CapEditPosts, CapRead},
	models.RoleAuthor:        {CapEditPosts, CapRead},
}

// Can reports whether any of roles grants capability.
func Can(roles []string, capability string) bool {
	for _, role := range roles {
		for _, c := range roleCapabilities[role] {
			if c == capability {
				return true
			}
		}
	}

	return false
}
