package user

import (
	"context"
	"slices"
)

type Role string

const (
	RoleAdmin    Role = "admin"    // Platform administrator - every department
	RoleOwner    Role = "owner"    // Department owner
	RoleManager  Role = "manager"  // Schedules and corrects attendance in own departments
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Principal is the authenticated caller, resolved once per request from the access token.
type Principal struct {
	UserID      string
	Role        Role
	EmployeeID  string
	Departments []string
}

// IsAdmin checks if the caller is a platform administrator
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsManager checks if the caller is manager or owner
func (p Principal) IsManager() bool {
	return p.Role == RoleManager || p.Role == RoleOwner
}

// CanManageDepartment checks if the caller may schedule or correct attendance in department
func (p Principal) CanManageDepartment(department string) bool {
	if p.IsAdmin() {
		return true
	}
	return p.IsManager() && slices.Contains(p.Departments, department)
}

// CanActFor checks if the caller may read or write data of an employee
// belonging to the given departments.
func (p Principal) CanActFor(employeeID string, departments []string) bool {
	if p.IsAdmin() || (p.EmployeeID != "" && p.EmployeeID == employeeID) {
		return true
	}
	if !p.IsManager() {
		return false
	}
	for _, d := range departments {
		if slices.Contains(p.Departments, d) {
			return true
		}
	}
	return false
}

type principalCtxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFromContext returns the principal stored by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalCtxKey{}).(Principal)
	if !ok {
		return Principal{}, ErrPrincipalMissing
	}
	return p, nil
}
