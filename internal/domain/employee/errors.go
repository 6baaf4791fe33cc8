package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeInactive   = errors.New("employee is not active")
	ErrNotInDepartment    = errors.New("employee does not belong to this department")
	ErrEmployeeIDRequired = errors.New("employee ID is required")
)
