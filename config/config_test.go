package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "a missing config file must not be fatal")

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "openai", cfg.AIProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, "text-embedding-ada-002", cfg.EmbeddingModel)
	assert.Equal(t, "research_papers", cfg.WeaviateStoreConfig.Collection)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
port: "9090"
upload_dir: /data/uploads
ai_provider: gemini
model: gemini-1.5-pro
reranker_url: http://reranker:8000
weaviate_store_config:
  host: http://weaviate:8080
  collection: papers
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/data/uploads", cfg.UploadDir)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, "gemini-1.5-pro", cfg.Model)
	assert.Equal(t, "http://reranker:8000", cfg.RerankerURL)
	assert.Equal(t, "http://weaviate:8080", cfg.WeaviateStoreConfig.Host)
	assert.Equal(t, "papers", cfg.WeaviateStoreConfig.Collection)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestGeminiKeys(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "", want: nil},
		{raw: "key1", want: []string{"key1"}},
		{raw: "key1,key2", want: []string{"key1", "key2"}},
		{raw: " key1 , ,key2, ", want: []string{"key1", "key2"}},
	}
	for _, tt := range tests {
		cfg := &Config{GeminiAPIKeys: tt.raw}
		assert.Equal(t, tt.want, cfg.GeminiKeys())
	}
}
