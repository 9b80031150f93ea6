package roles

// Role is the access level attached to a user by the upstream auth
// provider. The service never manages sessions itself; it only enforces
// the capability a role grants.
type Role string

const (
	RoleViewer Role = "VIEWER"
	RoleEditor Role = "EDITOR"
	RoleAdmin  Role = "ADMIN"
)

type Permission string

const (
	PermView         Permission = "canView"
	PermEdit         Permission = "canEdit"
	PermDelete       Permission = "canDelete"
	PermManageUsers  Permission = "canManageUsers"
	PermSendMessages Permission = "canSendMessages"
)

var rolePermissions = map[Role]map[Permission]bool{
	RoleViewer: {
		PermView: true,
	},
	RoleEditor: {
		PermView:         true,
		PermEdit:         true,
		PermSendMessages: true,
	},
	RoleAdmin: {
		PermView:         true,
		PermEdit:         true,
		PermDelete:       true,
		PermManageUsers:  true,
		PermSendMessages: true,
	},
}

// Parse maps a raw header value to a known role, defaulting to VIEWER so
// an absent or unknown role never gains write access.
func Parse(raw string) Role {
	switch Role(raw) {
	case RoleEditor:
		return RoleEditor
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleViewer
	}
}

func HasPermission(role Role, permission Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[permission]
}
