package keyframe

import _ "embed"

// Version is the library version reported by the CLI and the HTTP API.
//
//go:embed VERSION
var Version string
