package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full configuration surface of the service. Credentials may
// be absent at load time; calls that need them fail when attempted, not
// here.
type Config struct {
	Port       string `mapstructure:"port"`
	UploadDir  string `mapstructure:"upload_dir"`
	AIProvider string `mapstructure:"ai_provider"`
	AIEndpoint string `mapstructure:"ai_endpoint"`
	Model      string `mapstructure:"model"`

	OpenAIAPIKey  string `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys string `mapstructure:"GEMINI_API_KEYS"` // comma separated

	EmbeddingModel string `mapstructure:"embedding_model"`
	RerankerURL    string `mapstructure:"reranker_url"`

	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
}

type WeaviateStoreConfig struct {
	Host       string `mapstructure:"host"`
	APIKey     string `mapstructure:"WEAVIATE_APIKEY"`
	Collection string `mapstructure:"collection"`
}

// GeminiKeys splits the comma-separated key list, dropping empty entries.
func (c *Config) GeminiKeys() []string {
	var keys []string
	for _, k := range strings.Split(c.GeminiAPIKeys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// LoadConfig reads the YAML config file and overlays environment variables.
// A missing config file is tolerated: everything has a default or comes
// from the environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("ai_provider", "openai")
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("embedding_model", "text-embedding-ada-002")
	v.SetDefault("weaviate_store_config.host", "http://localhost:8080")
	v.SetDefault("weaviate_store_config.collection", "research_papers")

	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEYS")
	v.BindEnv("ai_endpoint", "OPENAI_BASE_URL")
	v.BindEnv("model", "OPENAI_MODEL")
	v.BindEnv("reranker_url", "RERANKER_URL")
	v.BindEnv("weaviate_store_config.host", "WEAVIATE_URL")
	v.BindEnv("weaviate_store_config.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")
	v.BindEnv("weaviate_store_config.collection", "WEAVIATE_COLLECTION")

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
