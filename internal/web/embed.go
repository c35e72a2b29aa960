package web

import (
	"embed"
	"io/fs"
	"net/http"
)

var (
	//go:embed static
	embeddedStaticFiles embed.FS

	//go:embed templates
	embeddedTemplates embed.FS
)

// subFS roots an embedded tree at dir. The directories are embedded at
// build time, so a failure here is a programming error.
func subFS(fsys embed.FS, dir string) http.FileSystem {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}
