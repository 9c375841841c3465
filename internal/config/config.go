package config

import (
	"fmt"
	"time"

	coreconfig "github.com/go-core-fx/config"
)

type Config struct {
	ServerURL string `koanf:"server_url"`
	Login     string `koanf:"login"`
	Password  string `koanf:"password"`

	AuthTimeout       time.Duration `koanf:"auth_timeout"`
	DictionaryTimeout time.Duration `koanf:"dictionary_timeout"`
	WriteoffTimeout   time.Duration `koanf:"writeoff_timeout"`
	ReportTimeout     time.Duration `koanf:"report_timeout"`

	SettingsFile string `koanf:"settings_file"`
	LogFile      string `koanf:"log_file"`
	Debug        bool   `koanf:"debug"`

	LLMBaseURL string        `koanf:"llm_base_url"`
	LLMAPIKey  string        `koanf:"llm_api_key"`
	LLMModel   string        `koanf:"llm_model"`
	LLMTimeout time.Duration `koanf:"llm_timeout"`
}

// Default returns the configuration used when nothing is set in the environment.
func Default() Config {
	return Config{
		AuthTimeout:       15 * time.Second,
		DictionaryTimeout: 15 * time.Second,
		WriteoffTimeout:   30 * time.Second,
		ReportTimeout:     120 * time.Second,
		SettingsFile:      "./config.json",
		LogFile:           "./olap.log",
		LLMTimeout:        60 * time.Second,
		Debug:             false,
	}
}

func New() (Config, error) {
	cfg := Default()

	if err := coreconfig.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}
