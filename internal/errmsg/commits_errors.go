package errmsg

import "net/http"

var (
	APIKeyMissing = NewStatusError(
		http.StatusUnauthorized,
		"Please pass a valid API Key as a X-Authorization header",
	)
	APIKeyInvalid = NewStatusError(
		http.StatusUnauthorized,
		"API Key not valid",
	)
)

type _APIKeyMissing struct {
	StatusCode int    `json:"statusCode" example:"401"`
	Message    string `json:"message" example:"Please pass a valid API Key as a X-Authorization header"`
}

type _APIKeyInvalid struct {
	StatusCode int    `json:"statusCode" example:"401"`
	Message    string `json:"message" example:"API Key not valid"`
}
