package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir    string `json:"data_dir"`
	LogLevel   string `json:"log_level"`
	ListenAddr string `json:"listen_addr"`
	LLM        struct {
		Provider       string  `json:"provider"`
		BaseURL        string  `json:"base_url"`
		APIKey         string  `json:"api_key"`
		Model          string  `json:"model"`
		MaxTokens      int     `json:"max_tokens"`
		Temperature    float32 `json:"temperature"`
		TimeoutSeconds int     `json:"timeout_seconds"`
	} `json:"llm"`
	Debate struct {
		Rounds          []string `json:"rounds"`
		Judges          int      `json:"judges"`
		EloK            float64  `json:"elo_k"`
		KnowledgeTokens int      `json:"knowledge_tokens"`
	} `json:"debate"`
	Arena struct {
		CodeLength    int    `json:"code_length"`
		CodeAttempts  int    `json:"code_attempts"`
		RoomTTLMin    int    `json:"room_ttl_minutes"`
		SweepSchedule string `json:"sweep_schedule"`
	} `json:"arena"`
	Telegram struct {
		Token  string `json:"token"`
		ChatID int64  `json:"chat_id"`
	} `json:"telegram"`
}

func Load(path string) (*Config, error) {
	// .env discovery: current dir first, then up to two parents.
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	cfg := &Config{
		DataDir:    filepath.Join(os.Getenv("HOME"), ".debatearena"),
		LogLevel:   "info",
		ListenAddr: ":4000",
	}
	cfg.LLM.Provider = "openai"
	cfg.LLM.BaseURL = "https://api.openai.com/v1"
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.LLM.MaxTokens = 1000
	cfg.LLM.Temperature = 0.7
	cfg.LLM.TimeoutSeconds = 60
	cfg.Debate.Rounds = []string{"opening", "rebuttal", "crossfire", "closing"}
	cfg.Debate.Judges = 3
	cfg.Debate.EloK = 32
	cfg.Debate.KnowledgeTokens = 2000
	cfg.Arena.CodeLength = 6
	cfg.Arena.CodeAttempts = 5
	cfg.Arena.RoomTTLMin = 120
	cfg.Arena.SweepSchedule = "@every 10m"

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeDefaults(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if tgToken := os.Getenv("TELEGRAM_BOT_TOKEN"); tgToken != "" {
		cfg.Telegram.Token = tgToken
	}
	if addr := os.Getenv("DEBATEARENA_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}

	return cfg, nil
}

func writeDefaults(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename default config: %w", err)
	}
	return nil
}

// ListValues returns all config values as a flat dot-separated key map.
// When mask is true, secret values are replaced with a masked form.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	flat := Flatten(nested)
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}
