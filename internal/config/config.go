package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig       `toml:"app"`
	DB        DBConfig        `toml:"db"`
	Inference InferenceConfig `toml:"inference"`
	Redis     RedisConfig     `toml:"redis"`
	RabbitMQ  RabbitMQConfig  `toml:"rabbitmq"`
	Upload    UploadConfig    `toml:"upload"`
	CORS      CORSConfig      `toml:"cors"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type DBConfig struct {
	Driver     string `toml:"driver"` // "sqlite" or "mysql"
	SQLitePath string `toml:"sqlite_path"`
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	User       string `toml:"user"`
	Password   string `toml:"password"`
	DB         string `toml:"db"`
	Params     string `toml:"params"`
}

type InferenceConfig struct {
	APIURL         string `toml:"api_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type RedisConfig struct {
	Addr               string `toml:"addr"` // empty = settings cache disabled
	Password           string `toml:"password"`
	DB                 int    `toml:"db"`
	SettingsTTLSeconds int    `toml:"settings_ttl_seconds"`
}

type RabbitMQConfig struct {
	URL             string `toml:"url"` // empty = transcript log disabled
	TranscriptQueue string `toml:"transcript_queue"`
}

type UploadConfig struct {
	MaxFileSize int64  `toml:"max_file_size"`
	TmpDir      string `toml:"tmp_dir"` // empty = os.TempDir
}

type CORSConfig struct {
	AllowOrigins []string `toml:"allow_origins"`
}

func Load() (*Config, error) {
	// Load .env first so its values are visible to the env overrides below.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env failed: %w", err)
		}
	}

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DB,
		c.DB.Params,
	)
}

// InferenceEnabled reports whether the external inference step should run.
// A missing credential disables it without failing startup.
func (c *Config) InferenceEnabled() bool {
	return strings.TrimSpace(c.Inference.APIKey) != ""
}

func (c *Config) InferenceTimeout() time.Duration {
	if c.Inference.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.Inference.TimeoutSeconds) * time.Second
}

func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

func (c *Config) RabbitMQEnabled() bool {
	return strings.TrimSpace(c.RabbitMQ.URL) != ""
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "botdeck",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
		},
		DB: DBConfig{
			Driver:     "sqlite",
			SQLitePath: "data/botdeck.db",
			Host:       "127.0.0.1",
			Port:       3306,
			User:       "root",
			Password:   "",
			DB:         "botdeck",
			Params:     "parseTime=true&loc=Local&charset=utf8mb4",
		},
		Inference: InferenceConfig{
			APIURL:         "https://api-inference.huggingface.co/models/google/flan-t5-large",
			APIKey:         "",
			TimeoutSeconds: 120,
		},
		Redis: RedisConfig{
			Addr:               "",
			Password:           "",
			DB:                 0,
			SettingsTTLSeconds: 60,
		},
		RabbitMQ: RabbitMQConfig{
			URL:             "",
			TranscriptQueue: "chat.transcript.persist",
		},
		Upload: UploadConfig{
			MaxFileSize: 20 << 20, // 20MB
			TmpDir:      "",
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.DB.Driver = getEnv("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.SQLitePath = getEnv("SQLITE_PATH", cfg.DB.SQLitePath)
	cfg.DB.Host = getEnv("MYSQL_HOST", cfg.DB.Host)
	cfg.DB.Port = getEnvAsInt("MYSQL_PORT", cfg.DB.Port)
	cfg.DB.User = getEnv("MYSQL_USER", cfg.DB.User)
	cfg.DB.Password = getEnv("MYSQL_PASSWORD", cfg.DB.Password)
	cfg.DB.DB = getEnv("MYSQL_DB", cfg.DB.DB)
	cfg.DB.Params = getEnv("MYSQL_PARAMS", cfg.DB.Params)

	cfg.Inference.APIURL = getEnv("INFERENCE_API_URL", cfg.Inference.APIURL)
	cfg.Inference.APIKey = getEnv("INFERENCE_API_KEY", cfg.Inference.APIKey)
	cfg.Inference.TimeoutSeconds = getEnvAsInt("INFERENCE_TIMEOUT_SECONDS", cfg.Inference.TimeoutSeconds)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.SettingsTTLSeconds = getEnvAsInt("REDIS_SETTINGS_TTL_SECONDS", cfg.Redis.SettingsTTLSeconds)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.TranscriptQueue = getEnv("RABBITMQ_TRANSCRIPT_QUEUE", cfg.RabbitMQ.TranscriptQueue)

	cfg.Upload.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", cfg.Upload.MaxFileSize)
	cfg.Upload.TmpDir = getEnv("UPLOAD_TMP_DIR", cfg.Upload.TmpDir)

	if origins := getEnv("CORS_ORIGINS", ""); origins != "" {
		cfg.CORS.AllowOrigins = strings.Split(origins, ",")
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsInt64(key string, fallback int64) int64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
