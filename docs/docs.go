// Package docs embeds the OpenAPI document so the server can serve it
// without depending on the process working directory.
package docs

import "embed"

//go:embed openapi.yaml
var FS embed.FS
