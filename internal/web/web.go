// Package web serves the browser client bundled into the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var files embed.FS

// Handler serves index.html, app.js and style.css. Routing happens client
// side on the URL fragment, so no fallback rewrites are needed.
func Handler() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
