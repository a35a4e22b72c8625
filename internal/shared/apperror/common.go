package apperror

import "net/http"

// ErrInternal is the fallback for errors that carry no domain mapping; it is
// what clients see so internals never leak.
var ErrInternal = New(
	CodeInternalError,
	"An unexpected error occurred",
	http.StatusInternalServerError,
)
