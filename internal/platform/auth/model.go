package auth

const (
	RoleAdmin  = "Administrador"
	RoleUser   = "Usuario"
	RoleViewer = "Visor"

	// DefaultAdminUsername is the bootstrap account; it cannot be deleted.
	DefaultAdminUsername = "admin"

	MinPasswordLength = 6
)

// Writers are the roles allowed to create and move assets.
var Writers = []string{RoleAdmin, RoleUser}

func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleViewer:
		return true
	}
	return false
}

type User struct {
	ID           uint64
	Username     string
	PasswordHash string
	Role         string
	Active       bool
}

// Principal is the authenticated caller as carried by the bearer token.
type Principal struct {
	ID       uint64
	Username string
	Role     string
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
