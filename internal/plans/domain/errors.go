package domain

import "errors"

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrLineNotFound = errors.New("plan line not found")
	ErrForbidden    = errors.New("not allowed for this plan")
	ErrPlanClosed   = errors.New("plan day is closed")
	ErrValidation   = errors.New("validation failed")
)
