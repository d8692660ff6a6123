package embedded

import (
	_ "embed"
)

// Built-in genre catalog, overridable at runtime via GENRE_CATALOG_PATH
//
//go:embed data/genres.json
var GenreCatalogJSON []byte
