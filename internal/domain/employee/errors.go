package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeNotInScope = errors.New("employee does not belong to this company")
)
