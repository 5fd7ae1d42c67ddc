// Package web holds the dashboard templates and static assets.
package web

import "embed"

// EmbeddedFS is compiled into the binary and served in release mode.
//
//go:embed templates static
var EmbeddedFS embed.FS
