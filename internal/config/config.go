package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/medchat/internal/client"
)

// AI provider names accepted by AI_PROVIDER.
const (
	ProviderAuto   = ""
	ProviderGemini = "gemini"
	ProviderArk    = "ark"
	ProviderNone   = "none"
)

var ErrUnknownProvider = errors.New("unknown AI provider")

// Config 聚合后端服务的配置项。
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Data   DataConfig
	Log    LogConfig
}

// Load 从环境变量加载后端配置。
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	addr, err := listenAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	switch cfg.AI.Provider {
	case ProviderAuto, ProviderGemini, ProviderArk, ProviderNone:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.AI.Provider)
	}
	if cfg.AI.HistoryLimit < 1 {
		cfg.AI.HistoryLimit = 1
	}

	return &cfg, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port        string `env:"PORT" envDefault:"8000"`
	FrontendDir string `env:"FRONTEND_DIR"`
	Addr        string `env:"-"`
}

// listenAddr 解析服务器监听地址。
func listenAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// 允许直接传入 ":8000" 或 "127.0.0.1:8000"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// DataConfig points at the medical dataset.
type DataConfig struct {
	DatasetPath string `env:"DATASET_PATH" envDefault:"data/medical_dataset.json"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider     string `env:"AI_PROVIDER"`
	HistoryLimit int    `env:"AI_HISTORY_LIMIT" envDefault:"10"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	APIKey      string   `env:"ARK_API_KEY"`
	AccessKey   string   `env:"ARK_ACCESS_KEY"`
	SecretKey   string   `env:"ARK_SECRET_KEY"`
	Model       string   `env:"ARK_MODEL"`
	BaseURL     string   `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region      string   `env:"ARK_REGION" envDefault:"cn-beijing"`
	Temperature *float64 `env:"ARK_TEMPERATURE"`
	TopP        *float64 `env:"ARK_TOP_P"`
	MaxTokens   *int     `env:"ARK_MAX_TOKENS"`
}

// GeminiEnabled 表示是否提供了 Gemini 密钥。
func (c AIConfig) GeminiEnabled() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// ArkEnabled 表示是否提供了 Ark 必需的密钥与模型。
func (c AIConfig) ArkEnabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// ActiveProvider resolves which generator to build. With no explicit
// provider Gemini wins over Ark; with no credentials it is ProviderNone.
func (c AIConfig) ActiveProvider() string {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiEnabled() {
			return ProviderGemini
		}
		return ProviderNone
	case ProviderArk:
		if c.ArkEnabled() {
			return ProviderArk
		}
		return ProviderNone
	case ProviderNone:
		return ProviderNone
	}

	switch {
	case c.GeminiEnabled():
		return ProviderGemini
	case c.ArkEnabled():
		return ProviderArk
	default:
		return ProviderNone
	}
}

// NewChatModel 使用配置创建一个 Ark 模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.ArkEnabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

// ClientConfig configures the terminal chat client.
type ClientConfig struct {
	// APIBase, when set, is used verbatim.
	APIBase string `env:"MEDCHAT_API_BASE"`
	// Origin stands in for the page location when APIBase is empty.
	Origin   string        `env:"MEDCHAT_ORIGIN" envDefault:"http://localhost"`
	Rich     bool          `env:"MEDCHAT_RICH"`
	Timeout  time.Duration `env:"MEDCHAT_TIMEOUT"`
	LogFile  string        `env:"MEDCHAT_LOG_FILE" envDefault:"medchat.log"`
	LogLevel string        `env:"MEDCHAT_LOG_LEVEL" envDefault:"info"`
}

// LoadClient 从环境变量加载客户端配置。
func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("invalid MEDCHAT_TIMEOUT value: %s", cfg.Timeout)
	}
	return &cfg, nil
}

// ResolveAPIBase returns the explicit base when configured, otherwise the
// base derived from Origin's hostname.
func (c ClientConfig) ResolveAPIBase() (string, error) {
	if base := strings.TrimSpace(c.APIBase); base != "" {
		return strings.TrimRight(base, "/"), nil
	}
	return client.ResolveAPIBase(c.Origin)
}
