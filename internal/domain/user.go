package domain

import (
	"time"
)

// Role is a closed enumeration of the role kinds known to the system.
type Role string

// Define constants for roles
const (
	RoleUser         Role = "user"
	RoleProfessional Role = "professional"
	RoleGym          Role = "gym"
	RoleAdmin        Role = "admin"
)

// ownershipBypass is the capability table for roles that skip ownership
// checks entirely. Admins and professionals can act on any resource.
var ownershipBypass = map[Role]bool{
	RoleAdmin:        true,
	RoleProfessional: true,
}

// BypassesOwnership reports whether the role alone grants access to
// resources owned by other users.
func (r Role) BypassesOwnership() bool {
	return ownershipBypass[r]
}

// RoleSet is the set of roles resolved for a caller.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from role records.
func NewRoleSet(roles []RoleRecord) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[Role(r.Name)] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the given role.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// BypassesOwnership reports whether any role in the set bypasses ownership.
func (s RoleSet) BypassesOwnership() bool {
	for role := range s {
		if role.BypassesOwnership() {
			return true
		}
	}
	return false
}

// Names returns the role names as plain strings (JWT claims, responses).
func (s RoleSet) Names() []string {
	names := make([]string, 0, len(s))
	for role := range s {
		names = append(names, string(role))
	}
	return names
}

// RoleRecord is a named role assignable to users (admin, professional, ...).
type RoleRecord struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:50" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

// TableName keeps the conventional table name for role records.
func (RoleRecord) TableName() string { return "roles" }

// User represents a registered account with authentication details.
type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"uniqueIndex;size:255;not null" json:"email"` // Should be unique
	FullName     string       `gorm:"size:255" json:"fullName,omitempty"`
	PasswordHash string       `gorm:"size:255;not null" json:"-"` // Never expose this via JSON
	IsActive     bool         `gorm:"default:true" json:"isActive"`
	IsSuperuser  bool         `gorm:"default:false" json:"isSuperuser"`
	Roles        []RoleRecord `gorm:"many2many:user_roles" json:"roles,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// RoleSet returns the user's assigned roles as a set.
func (u *User) RoleSet() RoleSet {
	return NewRoleSet(u.Roles)
}
