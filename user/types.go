// Package user defines user accounts, roles, and the manager hierarchy.
//
// A user has at most one manager; a manager has zero or more direct reports.
// The relation is kept as an explicit id reference plus store-side lookups
// (manager-id to reports), never as an in-memory back-pointer graph, so
// ownership stays acyclic and queries stay explicit.
package user

// Role controls what a user may do. Roles are strictly ordered:
// admin > manager > user.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// rank orders roles for AtLeast. Unknown roles rank below user.
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// AtLeast returns true when r grants everything `required` grants.
func (r Role) AtLeast(required Role) bool {
	return r.rank() >= required.rank()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.rank() > 0
}

// User is a registered account that owns missions and expenses.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	FirstName string
	LastName  string

	// Email is unique and used for login.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	Role Role

	// ManagerID references the user's manager, empty for top-level users.
	ManagerID string
}

// FullName returns the display name used in expense reports.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
