// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// RouterMode selects the turn routing policy.
type RouterMode string

const (
	RouterInstruction RouterMode = "instruction"
	RouterSelector    RouterMode = "selector"
)

type Config struct {
	Addr string

	Provider  string
	Model     string
	OllamaURL string
	OpenAIKey string

	Router        RouterMode
	MaxToolRounds int

	ModelPath string

	JinaKey      string
	PineconeKey  string
	PineconeHost string

	ChunkSize    int
	ChunkOverlap int
}

// Load reads .env (if present) and the environment, then validates.
// Missing required keys fail here, at process start, not at first use.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:          envOr("MEDICHAT_ADDR", ":8003"),
		Provider:      envOr("MEDICHAT_PROVIDER", "openai"),
		Model:         envOr("MEDICHAT_MODEL", "gpt-5-nano-2025-08-07"),
		OllamaURL:     os.Getenv("MEDICHAT_OLLAMA_URL"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		Router:        RouterMode(envOr("MEDICHAT_ROUTER", string(RouterInstruction))),
		MaxToolRounds: envInt("MEDICHAT_MAX_TOOL_ROUNDS", 8),
		ModelPath:     envOr("MEDICHAT_MODEL_PATH", "diabetes_model.json"),
		JinaKey:       os.Getenv("JINA_API_KEY"),
		PineconeKey:   os.Getenv("PINECONE_API_KEY"),
		PineconeHost:  os.Getenv("PINECONE_INDEX_HOST"),
		ChunkSize:     envInt("MEDICHAT_CHUNK_SIZE", 500),
		ChunkOverlap:  envInt("MEDICHAT_CHUNK_OVERLAP", 100),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.Provider == "openai" && c.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.JinaKey == "" {
		missing = append(missing, "JINA_API_KEY")
	}
	if c.PineconeKey == "" {
		missing = append(missing, "PINECONE_API_KEY")
	}
	if c.PineconeHost == "" {
		missing = append(missing, "PINECONE_INDEX_HOST")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	switch c.Router {
	case RouterInstruction, RouterSelector:
	default:
		return fmt.Errorf("invalid MEDICHAT_ROUTER %q (want %q or %q)", c.Router, RouterInstruction, RouterSelector)
	}
	if c.MaxToolRounds <= 0 {
		return fmt.Errorf("MEDICHAT_MAX_TOOL_ROUNDS must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
