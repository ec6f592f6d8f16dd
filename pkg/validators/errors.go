// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

// ValidationError is a client-fixable input problem. Its text is sent back
// to the client as is
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingEmail    ValidationError = "Missing email"
	ErrMissingPassword ValidationError = "Missing password"
	ErrPasswordTooLong ValidationError = "Password is too long"

	ErrMissingName     ValidationError = "Missing name"
	ErrNameTooLong     ValidationError = "Name is too long"
	ErrMissingType     ValidationError = "Missing type"
	ErrMissingData     ValidationError = "Missing data"
	ErrParentNotFound  ValidationError = "Parent not found"
	ErrParentNotFolder ValidationError = "Parent is not a folder"
)
