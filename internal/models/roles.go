package models

// User roles.
const (
	RoleAdmin       = "admin"
	RoleContributor = "contributor"
)

// ContributorGenerationCap is the number of generations a contributor
// account may run before further requests are rejected.
const ContributorGenerationCap = 2

// HasUnlimitedGenerations reports whether the role is exempt from the
// generation cap.
func HasUnlimitedGenerations(role string) bool {
	return role == RoleAdmin
}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleContributor
}
