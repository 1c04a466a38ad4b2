package users

import "time"

// Roles a shop member can hold.
const (
	RoleTechnician = "technician"
	RoleAdvisor    = "advisor"
	RoleOwner      = "owner"
)

// User is a technician or service advisor belonging to one shop.
type User struct {
	ID        string    `json:"id"`
	ShopID    string    `json:"shopId"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	switch role {
	case RoleTechnician, RoleAdvisor, RoleOwner:
		return true
	}
	return false
}
