package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/catalog.toml
var defaultCatalog []byte

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog. It is parsed once and shared;
// a parse failure here is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		var doc catalogDoc
		if err := toml.Unmarshal(defaultCatalog, &doc); err != nil {
			panic(fmt.Sprintf("embedded catalog is malformed: %v", err))
		}

		c, err := New(doc.Groups)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
		}

		defaultCat = c
	})

	return defaultCat
}

// DefaultTOML returns the raw embedded catalog document
func DefaultTOML() string {
	return string(defaultCatalog)
}
