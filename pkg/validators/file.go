package validators

import (
	"bitwise74/files-api/internal/model"
	"encoding/base64"
)

const maxFileNameSize = 245 // Leaves room for the _<width> thumbnail suffix

// FileValidator checks the fields of a new file record and decodes its
// base64 content. Parent checks need the store and happen in the
// repository
func FileValidator(name string, t model.FileType, data string) ([]byte, error) {
	if name == "" {
		return nil, ErrMissingName
	}

	if len(name) > maxFileNameSize {
		return nil, ErrNameTooLong
	}

	if !t.Valid() {
		return nil, ErrMissingType
	}

	if !t.HasContent() {
		return nil, nil
	}

	if data == "" {
		return nil, ErrMissingData
	}

	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil || len(b) == 0 {
		return nil, ErrMissingData
	}

	return b, nil
}
