// Package config loads platform configuration from config.yaml and
// IVW_-prefixed environment variables.
package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   ServerConfig    `koanf:"server"`
	Agent    AgentServer     `koanf:"agent"`
	Storage  StorageConfig   `koanf:"storage"`
	LLM      LLMConfig       `koanf:"llm"`
	Payment  PaymentConfig   `koanf:"payment"`
	Catalogs []CatalogConfig `koanf:"catalogs"`
	Agents   []AgentConfig   `koanf:"agents"`
}

// ServerConfig configures the orchestrator HTTP listener.
type ServerConfig struct {
	Port int `koanf:"port"`
}

// AgentServer configures the peer agent daemon's HTTP listener.
type AgentServer struct {
	Port int `koanf:"port"`
	// Company and InterviewType select which catalog an agentd instance serves.
	Company       string `koanf:"company"`
	InterviewType string `koanf:"interview_type"`
}

type StorageConfig struct {
	Type   string       `koanf:"type"` // sqlite, memory, none
	SQLite SQLiteConfig `koanf:"sqlite"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// LLMConfig configures the conversational collaborator. The endpoint is any
// OpenAI-compatible chat completions API.
type LLMConfig struct {
	BaseURL          string `koanf:"base_url"`
	APIKey           string `koanf:"api_key"`
	Model            string `koanf:"model"`
	MaxContextTokens int    `koanf:"max_context_tokens"`
}

type PaymentConfig struct {
	// BaseURL of the payment peer. Empty means the in-memory stub.
	BaseURL string `koanf:"base_url"`
}

// CatalogConfig defines one interview track: the ordered phases for a
// (company, interview_type) pair plus evaluation tuning.
type CatalogConfig struct {
	Company       string `koanf:"company"`
	InterviewType string `koanf:"interview_type"`
	MaxTurns      int    `koanf:"max_turns"`
	// CoverageSource selects which transcript messages feed keyword coverage:
	// "user" (candidate messages only, the default) or "all".
	CoverageSource string        `koanf:"coverage_source"`
	Phases         []PhaseConfig `koanf:"phases"`
}

type PhaseConfig struct {
	ID       string   `koanf:"id"`
	Name     string   `koanf:"name"`
	Context  string   `koanf:"context"`
	Keywords []string `koanf:"keywords"`
}

// AgentConfig maps a (company, interview_type) pair to a remote agent
// endpoint. Presence of an entry selects the remote provider for sessions
// routed to that pair.
type AgentConfig struct {
	Company       string `koanf:"company"`
	InterviewType string `koanf:"interview_type"`
	BaseURL       string `koanf:"base_url"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads config.yaml (if present) and applies IVW_ environment overrides.
func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Environment variables override file config: IVW_SERVER__PORT=9090
	if err := k.Load(env.Provider("IVW_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "IVW_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	applyDefaults(k)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	cfg.LLM.APIKey = substituteEnvVars(cfg.LLM.APIKey)

	for i := range cfg.Catalogs {
		if cfg.Catalogs[i].MaxTurns <= 0 {
			cfg.Catalogs[i].MaxTurns = DefaultMaxTurns
		}
		if cfg.Catalogs[i].CoverageSource == "" {
			cfg.Catalogs[i].CoverageSource = DefaultCoverageSource
		}
	}

	return &cfg, nil
}

// Defaults applied before unmarshal.
const (
	DefaultServerPort       = 8080
	DefaultAgentPort        = 8081
	DefaultMaxTurns         = 10
	DefaultCoverageSource   = "user"
	DefaultLLMModel         = "gpt-4o-mini"
	DefaultMaxContextTokens = 8000
)

func applyDefaults(k *koanf.Koanf) {
	if !k.Exists("server.port") {
		k.Set("server.port", DefaultServerPort)
	}
	if !k.Exists("agent.port") {
		k.Set("agent.port", DefaultAgentPort)
	}
	if !k.Exists("storage.type") {
		k.Set("storage.type", "memory")
	}
	if !k.Exists("llm.model") {
		k.Set("llm.model", DefaultLLMModel)
	}
	if !k.Exists("llm.max_context_tokens") {
		k.Set("llm.max_context_tokens", DefaultMaxContextTokens)
	}
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
