package membership

import "github.com/hugh/go-collab/internal/database/models"

// CanContribute: any member may edit a project and its documents.
func CanContribute(role models.Role) bool {
	return role.Valid()
}

// CanDelete: owners carry admin rights, so both may delete.
func CanDelete(role models.Role) bool {
	return role == models.RoleOwner || role == models.RoleAdmin
}
