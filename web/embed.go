// Package web provides the embedded game hub frontend.
package web

import "embed"

// FS contains the embedded webapp files (index.html, static/css,
// static/js). The HTTP handler serves these under /webapp/.
//
//go:embed index.html static
var FS embed.FS
