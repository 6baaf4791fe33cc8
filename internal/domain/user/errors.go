package user

import "errors"

var (
	ErrPrincipalMissing        = errors.New("authenticated principal missing from context")
	ErrInvalidRole             = errors.New("invalid role")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrOutOfScope              = errors.New("employee or department is outside your scope")
)
