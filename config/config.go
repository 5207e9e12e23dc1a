package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Storage       StorageConfig       `yaml:"storage"`
	JWT           JWTConfig           `yaml:"jwt"`
	Bootstrap     BootstrapConfig     `yaml:"bootstrap"`
	LoginThrottle LoginThrottleConfig `yaml:"login_throttle"`
	LogLevel      string              `yaml:"log_level"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig selects the backing store. Driver "sqlite" uses Path,
// driver "mysql" uses the host/credential fields.
type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	Path         string `yaml:"path"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	Charset      string `yaml:"charset"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StorageConfig struct {
	Root string `yaml:"root"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

// BootstrapConfig describes the admin account created on first start so the
// service is usable before any other user exists.
type BootstrapConfig struct {
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

type LoginThrottleConfig struct {
	Enabled       bool `yaml:"enabled"`
	MaxAttempts   int  `yaml:"max_attempts"`
	WindowSeconds int  `yaml:"window_seconds"`
}

var AppConfig *Config

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	AppConfig = &cfg
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "database.db"
	}
	if cfg.Database.Charset == "" {
		cfg.Database.Charset = "utf8mb4"
	}
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = "./data"
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "default-s-drive-sk"
	}
	if cfg.JWT.ExpireHours == 0 {
		cfg.JWT.ExpireHours = 1
	}
	if cfg.Bootstrap.AdminUsername == "" {
		cfg.Bootstrap.AdminUsername = "admin"
	}
	if cfg.Bootstrap.AdminPassword == "" {
		cfg.Bootstrap.AdminPassword = "admin"
	}
	if cfg.LoginThrottle.MaxAttempts == 0 {
		cfg.LoginThrottle.MaxAttempts = 10
	}
	if cfg.LoginThrottle.WindowSeconds == 0 {
		cfg.LoginThrottle.WindowSeconds = 300
	}
}
