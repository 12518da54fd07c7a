package confx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const DefaultBaseURL = "https://ai-personal-assistant-9xpq.onrender.com"

type Config struct {
	API     APIConfig     `koanf:"api"`
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type APIConfig struct {
	BaseURL    string        `koanf:"base_url" validate:"required,url"`
	MaxRetries int           `koanf:"max_retries" validate:"min=0,max=10"`
	Timeout    time.Duration `koanf:"timeout" validate:"gt=0"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level   string `koanf:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Dir     string `koanf:"dir"`
	Console bool   `koanf:"console"`
	Colored bool   `koanf:"colored"`
}

type MetricsConfig struct {
	Namespace string `koanf:"namespace" validate:"required"`
}

// SlogLevel 非法值按 info 处理
func (c LogConfig) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// 环境变量名 -> koanf key
var envKeys = map[string]string{
	"API_BASE_URL":            "api.base_url",
	"API_MAX_RETRIES":         "api.max_retries",
	"API_TIMEOUT":             "api.timeout",
	"SERVER_ADDR":             "server.addr",
	"SERVER_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
	"LOG_LEVEL":               "log.level",
	"LOG_DIR":                 "log.dir",
	"LOG_CONSOLE":             "log.console",
	"LOG_COLORED":             "log.colored",
	"METRICS_NAMESPACE":       "metrics.namespace",
}

func defaults() map[string]any {
	return map[string]any{
		"api.base_url":            DefaultBaseURL,
		"api.max_retries":         3,
		"api.timeout":             "10s",
		"server.addr":             ":8080",
		"server.shutdown_timeout": "10s",
		"log.level":               "info",
		"log.dir":                 "",
		"log.console":             true,
		"log.colored":             true,
		"metrics.namespace":       "assistdash",
	}
}

type Options struct {
	ConfigFile string // yaml，不存在时跳过
	EnvFile    string // .env，不存在时跳过
}

type Option func(*Options)

func WithConfigFile(p string) Option { return func(o *Options) { o.ConfigFile = p } }
func WithEnvFile(p string) Option    { return func(o *Options) { o.EnvFile = p } }

// Load 优先级：环境变量 > yaml > 默认值
func Load(opts ...Option) (*Config, error) {
	o := Options{ConfigFile: "config.yaml", EnvFile: ".env"}
	for _, opt := range opts {
		opt(&o)
	}

	// .env 不覆盖已有环境变量
	if o.EnvFile != "" {
		if err := godotenv.Load(o.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", o.EnvFile, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if o.ConfigFile != "" {
		if _, err := os.Stat(o.ConfigFile); err == nil {
			if err := k.Load(file.Provider(o.ConfigFile), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", o.ConfigFile, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", o.ConfigFile, err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			name, ok := envKeys[key]
			if !ok || strings.TrimSpace(value) == "" {
				return "", nil
			}
			return name, strings.TrimSpace(value)
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
