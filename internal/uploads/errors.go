package uploads

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFileType is the single rejection kind for files whose
// extension and MIME type are both outside the allowed set.
var ErrUnsupportedFileType = errors.New("only image and PDF files are allowed")

// StorageError reports a failed write on a backend. It is never retried and
// never falls back to the other backend.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s storage: %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
