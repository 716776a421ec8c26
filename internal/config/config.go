package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort int `mapstructure:"APP_PORT"`

	OpenAIAPIKey  string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL string `mapstructure:"OPENAI_BASE_URL"`

	CompletionModel  string  `mapstructure:"COMPLETION_MODEL"`
	Temperature      float32 `mapstructure:"TEMPERATURE"`
	MaxTokens        int     `mapstructure:"MAX_TOKENS"`
	PresencePenalty  float32 `mapstructure:"PRESENCE_PENALTY"`
	FrequencyPenalty float32 `mapstructure:"FREQUENCY_PENALTY"`
	TokenBudget      int     `mapstructure:"TOKEN_BUDGET"`

	RealtimeURL   string `mapstructure:"REALTIME_URL"`
	RealtimeModel string `mapstructure:"REALTIME_MODEL"`

	TTSModel  string `mapstructure:"TTS_MODEL"`
	TTSVoice  string `mapstructure:"TTS_VOICE"`
	TTSFormat string `mapstructure:"TTS_FORMAT"`
	STTModel  string `mapstructure:"STT_MODEL"`

	DocsPath     string `mapstructure:"DOCS_PATH"`
	ChunkSize    int    `mapstructure:"CHUNK_SIZE"`
	HintTopK     int    `mapstructure:"HINT_TOP_K"`
	BroadTopK    int    `mapstructure:"BROAD_TOP_K"`
	HistoryLimit int    `mapstructure:"HISTORY_LIMIT"`

	SystemPrompt string `mapstructure:"SYSTEM_PROMPT"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
}

func Load() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("COMPLETION_MODEL", "gpt-4o-mini")
	viper.SetDefault("TEMPERATURE", 0.4)
	viper.SetDefault("MAX_TOKENS", 150)
	viper.SetDefault("PRESENCE_PENALTY", 0.5)
	viper.SetDefault("FREQUENCY_PENALTY", 0.4)
	viper.SetDefault("TOKEN_BUDGET", 3500)
	viper.SetDefault("REALTIME_URL", "wss://api.openai.com/v1/realtime")
	viper.SetDefault("REALTIME_MODEL", "gpt-realtime-mini")
	viper.SetDefault("TTS_MODEL", "gpt-4o-mini-tts")
	viper.SetDefault("TTS_VOICE", "sage")
	viper.SetDefault("TTS_FORMAT", "mp3")
	viper.SetDefault("STT_MODEL", "whisper-1")
	viper.SetDefault("DOCS_PATH", "docs")
	viper.SetDefault("CHUNK_SIZE", 500)
	viper.SetDefault("HINT_TOP_K", 3)
	viper.SetDefault("BROAD_TOP_K", 2)
	viper.SetDefault("HISTORY_LIMIT", 20)
	viper.SetDefault("SYSTEM_PROMPT", "")
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
