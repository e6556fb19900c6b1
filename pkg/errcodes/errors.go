package errcodes

import (
	"net/http"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		http.StatusNotFound,
		resource + " not found.",
		"not_found",
	}
}

// PathNotFound returns a 404 error for a filesystem path that doesn't exist.
// Distinct from NotFound so that a missing scan root can be told apart from a
// missing database row.
func PathNotFound(path string) error {
	return &Error{
		http.StatusNotFound,
		"Path " + path + " does not exist.",
		"path_not_found",
	}
}

// Conflict returns a 409 error indicating the resource already exists.
func Conflict(resource string) error {
	return &Error{
		http.StatusConflict,
		resource + " already exists.",
		"conflict",
	}
}

// NothingToIngest indicates a scan root that exists but holds no archives.
func NothingToIngest() error {
	return &Error{
		http.StatusUnprocessableEntity,
		"No comic archives found in the data directory.",
		"nothing_to_ingest",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_error",
	}
}
