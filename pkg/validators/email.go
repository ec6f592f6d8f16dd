package validators

// EmailValidator only checks presence. Any non-empty string is accepted as
// the account identifier
func EmailValidator(e string) error {
	if e == "" {
		return ErrMissingEmail
	}

	return nil
}
