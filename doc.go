// Package wordmeter provides top-level metadata for the wordmeter API.
//
// @title wordmeter API
// @version 0.1.0
// @description Counts the words added and deleted by every commit pushed to a GitHub repository.
// @BasePath /
// @securityDefinitions.apikey APIKeyAuth
// @in header
// @name X-Authorization
// @description Provide the read API key.
package wordmeter
