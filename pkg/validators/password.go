package validators

// Argon hashes anything, the cap only keeps request bodies sane
const maxPasswordSize = 255

func PasswordValidator(p string) error {
	if p == "" {
		return ErrMissingPassword
	}

	if len(p) > maxPasswordSize {
		return ErrPasswordTooLong
	}

	return nil
}
