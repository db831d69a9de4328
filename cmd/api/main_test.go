package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The swagger middleware loads the spec file at construction and panics when
// it is missing, which would kill main before the server listens. The file
// must ship with the tree and be valid JSON.
func TestSwaggerSpecShipsWithTree(t *testing.T) {
	// swaggerSpecPath is relative to the repo root the binary runs from.
	path := filepath.Join("..", "..", filepath.FromSlash(swaggerSpecPath))
	raw, err := os.ReadFile(path)
	require.NoError(t, err, "swagger spec file must exist at %s", swaggerSpecPath)

	var spec struct {
		Swagger string                     `json:"swagger"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(raw, &spec))
	assert.Equal(t, "2.0", spec.Swagger)

	for _, route := range []string{"/api/bookings", "/api/transactions", "/api/import", "/api/export"} {
		assert.Contains(t, spec.Paths, route)
	}
}
