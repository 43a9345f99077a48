package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = 3320
	DefaultAPIURL       = "http://localhost:3000"
	DefaultDatabaseURL  = "file:formguard.db"
	DefaultDatabaseType = "sqlite"
)

type Config struct {
	Port          int    `yaml:"port"`
	APIURL        string `yaml:"api_url"`
	DatabaseURL   string `yaml:"database_url"`
	DatabaseType  string `yaml:"database_type"`
	DeviceSalt    string `yaml:"device_salt"`
	SecureCookies bool   `yaml:"secure_cookies"`
}

// ParseFlags resolves configuration from CLI flags, then environment
// variables (including a .env file), then an optional YAML file, then defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var configFile, envFile, secure string

	flags := flag.NewFlagSet("formguard-web", flag.ContinueOnError)

	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.APIURL, "api", "", "FormGuard API base URL")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Token store database URL")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	flags.StringVar(&secure, "secure-cookies", "", "Mark cookies Secure (true/false)")
	flags.StringVar(&configFile, "c", "", "Optional YAML config file")
	flags.StringVar(&envFile, "env", ".env", "Optional dotenv file")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.DeviceSalt, "device-salt", "", "Device cookie signing salt (prefer env)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	var file Config
	if configFile != "" {
		loaded, err := LoadFile(configFile)
		if err != nil {
			return Config{}, err
		}
		file = loaded
	}

	// Fall back to environment variables, then the config file
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else if file.Port != 0 {
			cfg.Port = file.Port
		} else {
			cfg.Port = DefaultPort
		}
	}

	cfg.APIURL = firstNonEmpty(cfg.APIURL, os.Getenv("API_URL"), file.APIURL, DefaultAPIURL)
	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"), file.DatabaseURL, DefaultDatabaseURL)
	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), file.DatabaseType, DefaultDatabaseType)
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	secure = firstNonEmpty(secure, os.Getenv("SECURE_COOKIES"))
	if secure != "" {
		b, err := strconv.ParseBool(secure)
		if err != nil {
			return Config{}, errors.New("invalid SECURE_COOKIES value")
		}
		cfg.SecureCookies = b
	} else {
		cfg.SecureCookies = file.SecureCookies
	}

	// Secrets - MUST be provided
	cfg.DeviceSalt = firstNonEmpty(cfg.DeviceSalt, os.Getenv("DEVICE_COOKIE_SALT"), file.DeviceSalt)
	if cfg.DeviceSalt == "" {
		return Config{}, errors.New("DEVICE_COOKIE_SALT required")
	}

	return cfg, nil
}

// LoadFile reads a YAML config file. Missing keys stay zero.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
