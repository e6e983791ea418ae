package weblate

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteError is returned for any non-2xx response.
type RemoteError struct {
	StatusCode int
	Message    string
	Path       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("failed to fetch data: %d, url: %s: %s", e.StatusCode, e.Path, e.Message)
}

// IsNotFound reports whether err carries a 404 from Weblate.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}

// DecodeError is returned when a successful response body is not the
// expected JSON shape.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response of %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
