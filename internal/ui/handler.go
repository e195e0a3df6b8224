// Package ui embeds the static assets served under /static/: the stylesheet,
// the WebAssembly form controller and its loader.
package ui

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed dist/*
var content embed.FS

// Assets returns the embedded asset tree rooted at dist.
func Assets() fs.FS {
	sub, err := fs.Sub(content, "dist")
	if err != nil {
		return content
	}
	return sub
}

// Handler serves the embedded UI assets. Paths are relative to the asset
// root; directories are never listed.
func Handler() http.Handler {
	fsys := http.FS(Assets())
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		p := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if p == "" || p == "." {
			http.NotFound(w, r)
			return
		}
		file, err := fsys.Open(p)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer file.Close()
		info, err := file.Stat()
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		if path.Ext(p) == ".wasm" {
			w.Header().Set("Content-Type", "application/wasm")
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeContent(w, r, info.Name(), info.ModTime(), file)
	})
}
