package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	BookingModeOverwrite   = "overwrite"
	BookingModeClaimIfFree = "claim_if_free"
)

type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name  string
	Port  string
	Debug bool
}

type LogConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	SSLMode     string
	MaxConns    int32
	AutoMigrate bool
}

type AuthConfig struct {
	CookieName   string
	CookieSecure bool
	LoginURL     string
}

type BookingConfig struct {
	Mode string
}

// LoadConfig reads .env when present and lets the environment override it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "cinephile")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("LOG_MAX_SIZE_MB", 10)
	v.SetDefault("LOG_MAX_BACKUPS", 7)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("AUTH_COOKIE_NAME", "auth_token")
	v.SetDefault("AUTH_COOKIE_SECURE", false)
	v.SetDefault("LOGIN_URL", "/login/")
	v.SetDefault("BOOKING_MODE", BookingModeOverwrite)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Port:  v.GetString("PORT"),
			Debug: v.GetBool("DEBUG"),
		},
		Log: LogConfig{
			Path:       v.GetString("LOG_PATH"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(v.GetString("DB_DRIVER")),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Auth: AuthConfig{
			CookieName:   v.GetString("AUTH_COOKIE_NAME"),
			CookieSecure: v.GetBool("AUTH_COOKIE_SECURE"),
			LoginURL:     v.GetString("LOGIN_URL"),
		},
		Booking: BookingConfig{
			Mode: strings.ToLower(v.GetString("BOOKING_MODE")),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return errors.New("DB_DRIVER must be postgres or memory")
	}

	switch c.Booking.Mode {
	case BookingModeOverwrite, BookingModeClaimIfFree:
	default:
		return errors.New("BOOKING_MODE must be overwrite or claim_if_free")
	}

	return nil
}

// DefaultConfig is what LoadConfig yields without .env or environment, with the
// in-memory store selected.
func DefaultConfig() *Config {
	return &Config{
		App:      AppConfig{Name: "cinephile", Port: "8080"},
		Log:      LogConfig{MaxSizeMB: 10, MaxBackups: 7, MaxAgeDays: 28},
		Database: DatabaseConfig{Driver: DriverMemory},
		Auth:     AuthConfig{CookieName: "auth_token", LoginURL: "/login/"},
		Booking:  BookingConfig{Mode: BookingModeOverwrite},
	}
}
