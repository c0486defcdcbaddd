package errmsg

import "net/http"

// InternalServerError never carries the underlying error; that goes to the logs.
var InternalServerError = NewStatusError(
	http.StatusInternalServerError,
	"An error occurred, check logs for more information",
)

type _InternalServerError struct {
	StatusCode int    `json:"statusCode" example:"500"`
	Message    string `json:"message" example:"An error occurred, check logs for more information"`
}
