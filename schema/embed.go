// Package schema embeds the JSON schema of the mimic-exec manifest.
package schema

import "embed"

// FS contains the embedded schema files.
//
//go:embed *.schema.json
var FS embed.FS

// Manifest is the file name of the manifest schema within FS.
const Manifest = "manifest.schema.json"
