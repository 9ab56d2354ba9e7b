package models

import "strings"

// Role is the closed set of ERP roles the calendar engine distinguishes.
type Role string

const (
	RoleAdmin             Role = "ADMIN"
	RoleGeneralDirector   Role = "GENERAL_DIRECTOR"
	RoleServiceManager    Role = "SERVICE_MANAGER"
	RoleEmployee          Role = "EMPLOYEE"
	RoleAccountant        Role = "ACCOUNTANT"
	RolePurchasingManager Role = "PURCHASING_MANAGER"
	RoleTechnician        Role = "TECHNICIAN"
	RoleUnknown           Role = "UNKNOWN"
)

// KnownRoles lists every role with deliberate handling, RoleUnknown excluded.
func KnownRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleGeneralDirector,
		RoleServiceManager,
		RoleEmployee,
		RoleAccountant,
		RolePurchasingManager,
		RoleTechnician,
	}
}

// ParseRole maps a raw role claim onto the enum. Anything unrecognised becomes RoleUnknown.
func ParseRole(raw string) Role {
	candidate := Role(strings.ToUpper(strings.TrimSpace(raw)))
	for _, role := range KnownRoles() {
		if role == candidate {
			return role
		}
	}
	return RoleUnknown
}

// Actor is the authenticated caller for one request. It is built once by the auth
// middleware and never mutated afterwards.
type Actor struct {
	ID        int64  `json:"id"`
	Role      Role   `json:"role"`
	ServiceID *int64 `json:"serviceId,omitempty"`
}

// HasService reports whether the actor belongs to a service.
func (a Actor) HasService() bool {
	return a.ServiceID != nil && *a.ServiceID > 0
}

// UserRef is the display identity of a user joined onto a source record.
type UserRef struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName joins first and last name.
func DisplayName(firstName, lastName string) string {
	return strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
}
