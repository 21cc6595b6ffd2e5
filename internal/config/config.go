package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Analysis   AnalysisConfig
	Classifier ClassifierConfig
	AI         AIConfig
	Events     EventsConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	analysis, err := loadAnalysisConfig()
	if err != nil {
		return nil, err
	}

	classifier, err := loadClassifierConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	if classifier.Backend == "ark" && !ai.Enabled() {
		return nil, fmt.Errorf("CLASSIFIER_BACKEND=ark requires ARK_MODEL and ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY")
	}

	return &Config{
		Server:     server,
		Log:        loadLogConfig(),
		Analysis:   analysis,
		Classifier: classifier,
		AI:         ai,
		Events:     loadEventsConfig(),
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	CORSOrigins    []string
	MetricsEnabled bool
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	addr, err := parseAddr(os.Getenv("PORT"))
	if err != nil {
		return ServerConfig{}, err
	}

	metricsEnabled, err := parseBoolEnv("METRICS_ENABLED", true)
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Addr:           addr,
		CORSOrigins:    parseListEnv("CORS_ORIGINS", []string{"*"}),
		MetricsEnabled: metricsEnabled,
	}, nil
}

func parseAddr(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// LogConfig 日志级别与格式。
type LogConfig struct {
	Level  string
	Format string
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// AnalysisConfig 描述历史容量、趋势窗口与输入长度限制。
type AnalysisConfig struct {
	HistoryCapacity int
	TrendWindow     int
	MaxTextLength   int
}

func loadAnalysisConfig() (AnalysisConfig, error) {
	capacity, err := parsePositiveIntEnv("HISTORY_CAPACITY", 100)
	if err != nil {
		return AnalysisConfig{}, err
	}

	window, err := parsePositiveIntEnv("TREND_WINDOW", 10)
	if err != nil {
		return AnalysisConfig{}, err
	}

	maxLength, err := parsePositiveIntEnv("MAX_TEXT_LENGTH", 5000)
	if err != nil {
		return AnalysisConfig{}, err
	}

	return AnalysisConfig{
		HistoryCapacity: capacity,
		TrendWindow:     window,
		MaxTextLength:   maxLength,
	}, nil
}

// ClassifierConfig 描述情感极性分类器。
type ClassifierConfig struct {
	Backend string
	Timeout time.Duration
}

func loadClassifierConfig() (ClassifierConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("CLASSIFIER_BACKEND", "vader"))
	if backend != "vader" && backend != "ark" {
		return ClassifierConfig{}, fmt.Errorf("invalid CLASSIFIER_BACKEND value %q: want vader or ark", backend)
	}

	seconds, err := parseOptionalFloatEnv("CLASSIFIER_TIMEOUT")
	if err != nil {
		return ClassifierConfig{}, err
	}
	timeout := 5 * time.Second
	if seconds != nil {
		if *seconds < 0 {
			return ClassifierConfig{}, fmt.Errorf("invalid CLASSIFIER_TIMEOUT value %v: must not be negative", *seconds)
		}
		timeout = time.Duration(*seconds * float64(time.Second))
	}

	return ClassifierConfig{Backend: backend, Timeout: timeout}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	MaxTokens   *int
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + ARK_MODEL 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
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
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, nil
}

// EventsConfig 描述分析事件的外部投递。
type EventsConfig struct {
	NATSURL     string
	NATSSubject string
}

// NATSEnabled 表示是否配置了 NATS。
func (c EventsConfig) NATSEnabled() bool {
	return c.NATSURL != ""
}

func loadEventsConfig() EventsConfig {
	return EventsConfig{
		NATSURL:     strings.TrimSpace(os.Getenv("NATS_URL")),
		NATSSubject: getEnvOrDefault("NATS_SUBJECT", "emotion.analyzed"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseListEnv(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parsePositiveIntEnv(key string, defaultValue int) (int, error) {
	val, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return defaultValue, nil
	}
	if *val < 1 {
		return 0, fmt.Errorf("invalid %s value %d: must be positive", key, *val)
	}
	return *val, nil
}
