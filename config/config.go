package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	OAuth    OAuthConfig
	Steam    SteamConfig
	Storage  StorageConfig
	Payment  PaymentConfig
	Frontend FrontendConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURL  string
}

// SteamConfig drives the optional account-linking flow. Steam identity is
// informational only and never used for download authorization.
type SteamConfig struct {
	APIKey    string
	RealmURL  string // e.g. https://store.example.com
	ReturnURL string // RealmURL + /api/v1/auth/steam/callback
}

type StorageConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	AuthKey   string // hex key for expiring delivery tokens
	Folder    string // top-level folder holding mod artifacts
	URLExpiry time.Duration
}

type PaymentConfig struct {
	ClientID      string // payment widget client id, passed through to the frontend
	WebhookSecret string
}

type FrontendConfig struct {
	BaseURL     string
	SignInPath  string
	StorePath   string
	AccountPath string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8080"),
			Env:          envOr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DATABASE_DSN", "modstore:modstore@tcp(localhost:3306)/modstore?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  envOr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envOr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  time.Hour,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "modstore",
		},
		OAuth: OAuthConfig{
			DiscordClientID:     os.Getenv("DISCORD_CLIENT_ID"),
			DiscordClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
			DiscordRedirectURL:  envOr("DISCORD_REDIRECT_URL", "http://localhost:8080/api/v1/auth/discord/callback"),
		},
		Steam: func() SteamConfig {
			realm := envOr("STEAM_REALM_URL", "http://localhost:8080")
			return SteamConfig{
				APIKey:    os.Getenv("STEAM_API_KEY"),
				RealmURL:  realm,
				ReturnURL: realm + "/api/v1/auth/steam/callback",
			}
		}(),
		Storage: StorageConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			AuthKey:   os.Getenv("CLOUDINARY_AUTH_KEY"),
			Folder:    envOr("STORAGE_FOLDER", "mods"),
			URLExpiry: time.Duration(envOrInt("STORAGE_URL_EXPIRY_SECONDS", 300)) * time.Second,
		},
		Payment: PaymentConfig{
			ClientID:      os.Getenv("PAYMENT_CLIENT_ID"),
			WebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		},
		Frontend: FrontendConfig{
			BaseURL:     envOr("FRONTEND_BASE_URL", "http://localhost:3000"),
			SignInPath:  "/auth/signin",
			StorePath:   "/store",
			AccountPath: "/account",
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
