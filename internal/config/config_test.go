package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/view"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "config")
	require.NoError(t, err)

	assert.Equal(t, 8095, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "keys", cfg.Spellcheck.FilterName)
	assert.True(t, cfg.Spellcheck.HideOnResult)
	assert.Equal(t, "none", cfg.PubSub.Driver)

	defs := cfg.ViewDefinitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "search", defs[0].ID)
	assert.Equal(t, []view.FulltextFilter{{ID: "search_api_fulltext", Identifier: "keys"}}, defs[0].Filters)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
cache:
  driver: memory
  ttl: 30s
spellcheck:
  filter_name: q
  hide_on_result: false
views:
  docs:
    index: documentation
    fields: [title]
    filters:
      - id: fulltext
        identifier: q
    tags: [docs]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadFrom(dir, "config")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "q", cfg.Spellcheck.FilterName)
	assert.False(t, cfg.Spellcheck.HideOnResult)

	// Configured views are merged with the bundled default view.
	defs := cfg.ViewDefinitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "search", defs[1].ID)
	assert.Equal(t, view.Definition{
		ID:      "docs",
		Index:   "documentation",
		Fields:  []string{"title"},
		Filters: []view.FulltextFilter{{ID: "fulltext", Identifier: "q"}},
		Tags:    []string{"docs"},
	}, defs[0])
}
