package swagger

import "embed"

// swaggerDocs holds the generated swagger document.
//
//go:embed docs/*
var swaggerDocs embed.FS
