// Package config loads process-wide settings once at startup. Values come from
// the environment (a local .env file is honoured) and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port    string
	Mode    string
	BaseURL string
}

type DatabaseConfig struct {
	DSN         string
	AutoMigrate bool
}

type AuthConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	EmailTokenTTL    time.Duration
	BcryptCost       int
	DefaultAvatarURL string
}

type MailConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	From        string
	TemplateDir string
}

type MediaConfig struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	PublicURL         string
	ThumbnailMaxWidth int
	MaxVideoBytes     int64
	// LocalDir stores media on disk when no bucket is configured.
	LocalDir          string
}

// AdminSeed describes an optional administrator created at migration time.
type AdminSeed struct {
	Email    string
	Username string
	Password string
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Mail     MailConfig
	Media    MediaConfig
	Admin    AdminSeed
	LogLevel string
}

const defaultAvatarURL = "https://static.tikclone.dev/avatar/default.png"

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8081")
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "http://localhost:3000")
	v.SetDefault("db_auto_migrate", true)
	v.SetDefault("jwt_access_secret", "dev-insecure-access-secret")
	v.SetDefault("jwt_refresh_secret", "dev-insecure-refresh-secret")
	v.SetDefault("access_token_ttl", "24h")
	v.SetDefault("refresh_token_ttl", "168h")
	v.SetDefault("email_token_ttl", "15m")
	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("default_avatar_url", defaultAvatarURL)
	v.SetDefault("smtp_port", 587)
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("thumbnail_max_width", 720)
	v.SetDefault("max_video_bytes", 100<<20)
	v.SetDefault("upload_base", "uploads")
}

// Load reads .env (without overriding variables already set), then config.yaml
// if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	setDefaults(v)
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:    v.GetString("port"),
			Mode:    v.GetString("gin_mode"),
			BaseURL: strings.TrimRight(v.GetString("base_url"), "/"),
		},
		Database: DatabaseConfig{
			DSN:         v.GetString("db_dsn"),
			AutoMigrate: v.GetBool("db_auto_migrate"),
		},
		Auth: AuthConfig{
			AccessSecret:     v.GetString("jwt_access_secret"),
			RefreshSecret:    v.GetString("jwt_refresh_secret"),
			AccessTokenTTL:   v.GetDuration("access_token_ttl"),
			RefreshTokenTTL:  v.GetDuration("refresh_token_ttl"),
			EmailTokenTTL:    v.GetDuration("email_token_ttl"),
			BcryptCost:       v.GetInt("bcrypt_cost"),
			DefaultAvatarURL: v.GetString("default_avatar_url"),
		},
		Mail: MailConfig{
			Host:        v.GetString("smtp_host"),
			Port:        v.GetInt("smtp_port"),
			User:        v.GetString("smtp_user"),
			Password:    v.GetString("smtp_pass"),
			From:        v.GetString("mail_from"),
			TemplateDir: v.GetString("mail_template_dir"),
		},
		Media: MediaConfig{
			Endpoint:          v.GetString("s3_endpoint"),
			Region:            v.GetString("s3_region"),
			Bucket:            v.GetString("s3_bucket"),
			AccessKey:         v.GetString("s3_access_key"),
			SecretKey:         v.GetString("s3_secret_key"),
			PublicURL:         strings.TrimRight(v.GetString("s3_public_url"), "/"),
			ThumbnailMaxWidth: v.GetInt("thumbnail_max_width"),
			MaxVideoBytes:     v.GetInt64("max_video_bytes"),
			LocalDir:          v.GetString("upload_base"),
		},
		Admin: AdminSeed{
			Email:    v.GetString("admin_email"),
			Username: v.GetString("admin_username"),
			Password: v.GetString("admin_password"),
		},
		LogLevel: v.GetString("log_level"),
	}
}

// Validate checks invariants the identity core relies on.
func (c *Config) Validate() error {
	a := c.Auth
	switch {
	case a.AccessSecret == "" || a.RefreshSecret == "":
		return errors.New("jwt secrets must be set")
	case a.AccessSecret == a.RefreshSecret:
		return errors.New("access and refresh tokens must use distinct secrets")
	case a.AccessTokenTTL <= 0 || a.RefreshTokenTTL <= 0 || a.EmailTokenTTL <= 0:
		return errors.New("token lifetimes must be positive")
	case a.BcryptCost < 4 || a.BcryptCost > 31:
		return fmt.Errorf("bcrypt cost %d out of range", a.BcryptCost)
	}
	return nil
}

// MailFrom falls back to the SMTP user when no explicit sender is configured.
func (c *Config) MailFrom() string {
	if c.Mail.From != "" {
		return c.Mail.From
	}
	return c.Mail.User
}
