// Package docs содержит OpenAPI-описание HTTP API, раздаваемое swagger UI.
package docs

import _ "embed"

//go:embed swagger.json
var SwaggerJSON []byte
