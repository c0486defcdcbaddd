package errmsg

import "net/http"

// GitHub webhook specific StatusError helpers surfaced by the handler.
var (
	GitHubSignatureInvalid = NewStatusError(http.StatusUnauthorized, "Generated HMAC and X-Hub-Signature do not match")
	GitHubInvalidPayload   = NewStatusError(http.StatusBadRequest, "invalid webhook payload")
	GitHubFetchFailed      = NewStatusError(http.StatusBadGateway, "failed to fetch commit diffs, check logs for more information")
	GitHubSaveFailed       = NewStatusError(http.StatusInternalServerError, "failed to save word counts, check logs for more information")
)

type _GitHubSignatureInvalid struct {
	StatusCode int    `json:"statusCode" example:"401"`
	Message    string `json:"message" example:"Generated HMAC and X-Hub-Signature do not match"`
}

type _GitHubInvalidPayload struct {
	StatusCode int    `json:"statusCode" example:"400"`
	Message    string `json:"message" example:"invalid webhook payload"`
}

type _GitHubFetchFailed struct {
	StatusCode int    `json:"statusCode" example:"502"`
	Message    string `json:"message" example:"failed to fetch commit diffs, check logs for more information"`
}

type _GitHubSaveFailed struct {
	StatusCode int    `json:"statusCode" example:"500"`
	Message    string `json:"message" example:"failed to save word counts, check logs for more information"`
}
