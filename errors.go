package mealcompanion

import "errors"

var (
	ErrProfileNotFound       = errors.New("profile not found")
	ErrProfileDecode         = errors.New("profile record could not be decoded")
	ErrGatewayCallFailed     = errors.New("model gateway call failed")
	ErrToolInvocationMissing = errors.New("model did not invoke the expected tool")
	ErrEmptyExtraction       = errors.New("ingredient extraction returned no items")
)
