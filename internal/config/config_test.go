package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
mongo:
  uri: mongodb://localhost:27017
  database: hostelDB
  collection: hostels
embedding:
  model: text-embedding-3-small
  dimensions: 768
index:
  vector_path: data/index.bin
  mapping_path: data/ids.json
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedding.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedding.APIKeyEnv)
	assert.Equal(t, 30, cfg.Embedding.TimeoutSecs)
	assert.Equal(t, 4, cfg.Index.Workers)
	assert.Equal(t, 5, cfg.Search.DefaultK)
	assert.Equal(t, 10, cfg.Search.FilterK)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
search:
  default_k: 7
  filter_k: 20
server:
  addr: :9090
`))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.DefaultK)
	assert.Equal(t, 20, cfg.Search.FilterK)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadMissingRequiredValues(t *testing.T) {
	cases := map[string]string{
		"mongo uri": `
mongo:
  database: hostelDB
  collection: hostels
embedding:
  model: m
  dimensions: 768
index:
  vector_path: a
  mapping_path: b
`,
		"embedding model": `
mongo:
  uri: mongodb://localhost:27017
  database: hostelDB
  collection: hostels
embedding:
  dimensions: 768
index:
  vector_path: a
  mapping_path: b
`,
		"dimensions": `
mongo:
  uri: mongodb://localhost:27017
  database: hostelDB
  collection: hostels
embedding:
  model: m
index:
  vector_path: a
  mapping_path: b
`,
		"index paths": `
mongo:
  uri: mongodb://localhost:27017
  database: hostelDB
  collection: hostels
embedding:
  model: m
  dimensions: 768
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "mongo: [not a map"))
	assert.Error(t, err)
}
