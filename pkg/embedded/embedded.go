// Package embedded provides the HTML templates and static assets compiled
// into the server binary.
package embedded

import (
	"embed"
)

// Files contains all files embedded in the Go binary:
//   - templates/ - html/template sources, one named template per file
//   - static/ - stylesheet and images served under /static/
//
//go:embed templates static
var Files embed.FS
