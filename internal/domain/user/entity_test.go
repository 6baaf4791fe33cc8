package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_CanManageDepartment(t *testing.T) {
	cases := []struct {
		name string
		p    Principal
		dept string
		want bool
	}{
		{"admin any department", Principal{Role: RoleAdmin}, "Kitchen", true},
		{"manager own department", Principal{Role: RoleManager, Departments: []string{"Kitchen"}}, "Kitchen", true},
		{"manager other department", Principal{Role: RoleManager, Departments: []string{"Kitchen"}}, "Bar", false},
		{"owner own department", Principal{Role: RoleOwner, Departments: []string{"Bar"}}, "Bar", true},
		{"employee never", Principal{Role: RoleEmployee, Departments: []string{"Kitchen"}}, "Kitchen", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.p.CanManageDepartment(c.dept))
		})
	}
}

func TestPrincipal_CanActFor(t *testing.T) {
	employee := Principal{Role: RoleEmployee, EmployeeID: "emp-1"}
	assert.True(t, employee.CanActFor("emp-1", nil))
	assert.False(t, employee.CanActFor("emp-2", []string{"Kitchen"}))

	manager := Principal{Role: RoleManager, EmployeeID: "mgr-1", Departments: []string{"Kitchen"}}
	assert.True(t, manager.CanActFor("emp-2", []string{"Bar", "Kitchen"}))
	assert.False(t, manager.CanActFor("emp-3", []string{"Bar"}))

	assert.True(t, Principal{Role: RoleAdmin}.CanActFor("anyone", nil))
}

func TestPrincipalContext(t *testing.T) {
	_, err := PrincipalFromContext(context.Background())
	assert.ErrorIs(t, err, ErrPrincipalMissing)

	ctx := WithPrincipal(context.Background(), Principal{UserID: "u-1", Role: RoleManager})
	p, err := PrincipalFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.UserID)
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleManager, PermissionScheduleAssign))
	assert.False(t, HasPermission(RoleEmployee, PermissionScheduleAssign))
	assert.False(t, HasPermission(RoleManager, PermissionAttendanceReconcile))
	assert.True(t, HasPermission(RoleAdmin, PermissionAttendanceReconcile))
	assert.False(t, HasPermission(Role("pending"), PermissionAttendanceSignal))
}
