package exam

import "errors"

var (
	// ErrTransitionDenied covers both "no legal next state" and "actor
	// not authorized for the target status".
	ErrTransitionDenied = errors.New("transition denied")

	// ErrJustificationRequired blocks reversions submitted without
	// justification text.
	ErrJustificationRequired = errors.New("justification required")

	// ErrValidationFailed blocks registration or opinion edits with
	// missing required fields.
	ErrValidationFailed = errors.New("validation failed")

	ErrNotFound = errors.New("exam not found")
)
