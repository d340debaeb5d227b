package static

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static/*
var StaticFS embed.FS

// Assets returns the embedded static files rooted at the static directory.
func Assets() fs.FS {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		// the directory is embedded at compile time
		panic(err)
	}
	return sub
}

// GetIndexPage reads and returns the landing page from the embedded static files.
func GetIndexPage() ([]byte, error) {
	page, err := StaticFS.ReadFile("static/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read index page from embedded files: %w", err)
	}
	return page, nil
}
