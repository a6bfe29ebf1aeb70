package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"vision-inspector/internal/domain/entity"
	"vision-inspector/internal/infrastructure/vision"
)

type Config struct {
	TelegramToken       string        `yaml:"telegram_token"`
	HTTPAddr            string        `yaml:"http_addr"`
	DetectorBackend     string        `yaml:"detector_backend"`
	ModelSize           string        `yaml:"model_size"`
	ModelDir            string        `yaml:"model_dir"`
	DefectLabels        []string      `yaml:"defect_labels"`
	ConfidenceThreshold float64       `yaml:"confidence_threshold"`
	NMSThreshold        float64       `yaml:"nms_threshold"`
	DetectTimeout       time.Duration `yaml:"detect_timeout"`
	MaxUploadBytes      int64         `yaml:"max_upload_bytes"`
	MaxImagePixels      int64         `yaml:"max_image_pixels"`
	KeepAliveURL        string        `yaml:"keepalive_url"`
	KeepAliveInterval   time.Duration `yaml:"keepalive_interval"`
	LogLevel            string        `yaml:"log_level"`
	Minio               MinioConfig   `yaml:"minio"`
}

// MinioConfig параметры архива отчётов; архив выключен, пока не заданы endpoint и bucket
type MinioConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	UseSSL          bool   `yaml:"use_ssl"`
}

// Enabled архив настроен
func (m MinioConfig) Enabled() bool {
	return m.Endpoint != "" && m.Bucket != ""
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		HTTPAddr:            ":8080",
		DetectorBackend:     "yolo",
		ModelSize:           "nano",
		ModelDir:            "models",
		DefectLabels:        []string{"scratch", "dent", "crack", "stain", "discoloration"},
		ConfidenceThreshold: 0.5,
		NMSThreshold:        0.45,
		DetectTimeout:       30 * time.Second,
		MaxUploadBytes:      10 << 20,
		MaxImagePixels:      89_478_485,
		KeepAliveInterval:   14 * time.Minute,
		LogLevel:            "info",
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML из VISION_CONFIG_FILE,
// затем переменные окружения (в том числе из .env).
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("VISION_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения, которые иначе всплыли бы только при первой инспекции
func (c *Config) Validate() error {
	if err := entity.ValidateThreshold(c.ConfidenceThreshold); err != nil {
		return fmt.Errorf("CONFIDENCE_THRESHOLD: %w", err)
	}
	if !(c.NMSThreshold >= 0 && c.NMSThreshold <= 1) {
		return fmt.Errorf("NMS_THRESHOLD must be within [0,1], got %v", c.NMSThreshold)
	}
	if _, err := vision.ParseBackend(c.DetectorBackend); err != nil {
		return fmt.Errorf("DETECTOR_BACKEND: %w", err)
	}
	if _, err := vision.ParseModelSize(c.ModelSize); err != nil {
		return fmt.Errorf("MODEL_SIZE: %w", err)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be positive")
	}
	if c.DetectTimeout < 0 {
		return fmt.Errorf("DETECT_TIMEOUT must not be negative")
	}
	if c.KeepAliveURL != "" && c.KeepAliveInterval <= 0 {
		return fmt.Errorf("KEEPALIVE_INTERVAL must be positive when KEEPALIVE_URL is set")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	str("TELEGRAM_TOKEN", &cfg.TelegramToken)
	str("HTTP_ADDR", &cfg.HTTPAddr)
	str("DETECTOR_BACKEND", &cfg.DetectorBackend)
	str("MODEL_SIZE", &cfg.ModelSize)
	str("MODEL_DIR", &cfg.ModelDir)
	str("KEEPALIVE_URL", &cfg.KeepAliveURL)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("MINIO_ENDPOINT", &cfg.Minio.Endpoint)
	str("MINIO_ACCESS_KEY_ID", &cfg.Minio.AccessKeyID)
	str("MINIO_SECRET_ACCESS_KEY", &cfg.Minio.SecretAccessKey)
	str("MINIO_BUCKET_NAME", &cfg.Minio.Bucket)
	str("MINIO_REGION", &cfg.Minio.Region)

	if v, ok := os.LookupEnv("DEFECT_LABELS"); ok {
		cfg.DefectLabels = splitList(v)
	}

	var err error
	if v, ok := os.LookupEnv("CONFIDENCE_THRESHOLD"); ok {
		if cfg.ConfidenceThreshold, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("parse CONFIDENCE_THRESHOLD: %w", err)
		}
	}
	if v, ok := os.LookupEnv("NMS_THRESHOLD"); ok {
		if cfg.NMSThreshold, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("parse NMS_THRESHOLD: %w", err)
		}
	}
	if v, ok := os.LookupEnv("MAX_UPLOAD_BYTES"); ok {
		if cfg.MaxUploadBytes, err = strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("parse MAX_UPLOAD_BYTES: %w", err)
		}
	}
	if v, ok := os.LookupEnv("MAX_IMAGE_PIXELS"); ok {
		if cfg.MaxImagePixels, err = strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("parse MAX_IMAGE_PIXELS: %w", err)
		}
	}
	if v, ok := os.LookupEnv("DETECT_TIMEOUT"); ok {
		if cfg.DetectTimeout, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("parse DETECT_TIMEOUT: %w", err)
		}
	}
	if v, ok := os.LookupEnv("KEEPALIVE_INTERVAL"); ok {
		if cfg.KeepAliveInterval, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("parse KEEPALIVE_INTERVAL: %w", err)
		}
	}
	if v, ok := os.LookupEnv("MINIO_USE_SSL"); ok && v != "" {
		if cfg.Minio.UseSSL, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("parse MINIO_USE_SSL: %w", err)
		}
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
