package identity

import (
	"github.com/google/uuid"
)

// Role is the business role an authenticated actor acts under
type Role string

const (
	RoleRestaurant Role = "restaurant"
	RoleSupplier   Role = "supplier"
)

// DefaultRole is used when neither the token nor the stored preference
// carries a role
const DefaultRole = RoleRestaurant

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	return r == RoleRestaurant || r == RoleSupplier
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Counterpart returns the opposite party's role
func (r Role) Counterpart() Role {
	if r == RoleRestaurant {
		return RoleSupplier
	}
	return RoleRestaurant
}

// Principal is the authenticated actor as supplied by the identity
// collaborator. The core never authenticates; it only consumes this.
type Principal struct {
	ID          uuid.UUID
	Role        Role
	DisplayName string
}

// IsRestaurant returns true if the principal acts as a restaurant
func (p Principal) IsRestaurant() bool {
	return p.Role == RoleRestaurant
}

// IsSupplier returns true if the principal acts as a supplier
func (p Principal) IsSupplier() bool {
	return p.Role == RoleSupplier
}

// ResolveActiveRole resolves the role a session acts under. Resolution is
// principal role, then stored preference, then the default. Pure function,
// resolved once per authenticated session.
func ResolveActiveRole(principalRole Role, storedPreference Role) Role {
	if principalRole.IsValid() {
		return principalRole
	}
	if storedPreference.IsValid() {
		return storedPreference
	}
	return DefaultRole
}
