// Package assets embeds the browser front-end served by the sketch server.
package assets

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web
var content embed.FS

// FS returns the embedded front-end files rooted at the web directory.
func FS() fs.FS {
	sub, err := fs.Sub(content, "web")
	if err != nil {
		// The tree is embedded at build time, so this cannot fail at runtime.
		panic(err)
	}
	return sub
}

// Handler serves the embedded front-end.
func Handler() http.Handler {
	return http.FileServer(http.FS(FS()))
}
