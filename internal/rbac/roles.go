package rbac

// Role names. Keep these stable; they are part of auth contracts and are
// stored verbatim on agent rows.
const (
	RoleAdmin = "ADMIN"
	RoleAgent = "AGENT"
)

func IsAdmin(role string) bool { return role == RoleAdmin }

func IsKnownRole(role string) bool {
	return role == RoleAdmin || role == RoleAgent
}
