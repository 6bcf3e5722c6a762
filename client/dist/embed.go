package clientdist

import _ "embed"

// RecipesJS is the thin client served at "/_recipes/client.js".
//
//go:embed recipes.js
var RecipesJS []byte
