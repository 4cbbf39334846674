// Package render turns [ref.Node] trees into plain text, HTML or JSON.
package render

import (
	"embed"
	"sync"
)

//go:embed assets/*
var content embed.FS

// MustAsset returns the embedded asset, it panics if the asset does not exist.
func MustAsset(name string) []byte {
	b, err := content.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return b
}

// Assets tracks whether the HTML styles and scripts were already written.
// They are only needed once per page, every subsequent [HTMLRenderer.Render]
// call sharing the same Assets omits them until [Assets.Reset] is called.
type Assets struct {
	mu      sync.Mutex
	emitted bool
}

// DefaultAssets is the process wide [Assets] used by [HTML].
var DefaultAssets = &Assets{}

// claim reports whether the caller is the first one to write the assets since the last reset.
func (a *Assets) claim() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.emitted {
		return false
	}
	a.emitted = true
	return true
}

// Reset makes the next render write the assets again, e.g. when starting a new page.
func (a *Assets) Reset() {
	a.mu.Lock()
	a.emitted = false
	a.mu.Unlock()
}
