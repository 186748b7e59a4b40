package resources

import (
	"embed"
	"fmt"
	"io/fs"
)

const (
	siteFile = "site.yaml"
	logoDir  = "logo/"
)

//go:embed site.yaml
var siteFS embed.FS

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

//go:embed logo/*.svg
var logoFS embed.FS

// SiteYAML returns the compiled-in site configuration.
func SiteYAML() []byte {
	data, err := siteFS.ReadFile(siteFile)
	if err != nil {
		panic(fmt.Errorf("load resource %s: %w", siteFile, err))
	}
	return data
}

// Templates returns the page templates rooted at templates/.
func Templates() fs.FS {
	return mustSub(templateFS, "templates")
}

// Static returns the stylesheet and script assets rooted at static/.
func Static() fs.FS {
	return mustSub(staticFS, "static")
}

// Logo returns the raw bytes of the given logo file.
func Logo(fileName string) ([]byte, error) {
	data, err := logoFS.ReadFile(logoDir + fileName)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", logoDir+fileName, err)
	}
	return data, nil
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(fmt.Errorf("sub %s: %w", dir, err))
	}
	return sub
}
