package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type StorageMode string

const (
	StorageModeImageKit StorageMode = "imagekit"
	StorageModeR2       StorageMode = "r2"
)

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
	Audience  string
}

type ImageKitConfig struct {
	PrivateKey    string
	PublicKey     string
	URLEndpoint   string // e.g. https://ik.imagekit.io/nkpol
	UploadBaseURL string // override for tests; defaults to the public API
	APIBaseURL    string // override for tests; defaults to the public API
	Folder        string
}

type R2Config struct {
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // https://<account-id>.r2.cloudflarestorage.com
	PublicDomain    string // custom domain or r2.dev URL
	Folder          string
}

type StorageConfig struct {
	Mode     StorageMode
	ImageKit ImageKitConfig
	R2       R2Config
}

type Config struct {
	MongoURI       string
	DatabaseName   string
	AllowedOrigins []string
	AdminUsername  string
	AdminPassword  string
	Auth           AuthConfig
	Storage        StorageConfig
}

// Load builds the configuration from the process environment. Unknown
// storage modes fail here so a misconfigured backend never silently
// defaults and misroutes uploads.
func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:      os.Getenv("MONGODB_URI"),
		DatabaseName:  os.Getenv("DATABASE_NAME"),
		AdminUsername: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  tokenTTL(),
			Issuer:    "nk-pol-api",
			Audience:  "nk-pol-admin",
		},
		Storage: StorageConfig{
			Mode: StorageMode(strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_MODE")))),
			ImageKit: ImageKitConfig{
				PrivateKey:  os.Getenv("IMAGEKIT_PRIVATE_KEY"),
				PublicKey:   os.Getenv("IMAGEKIT_PUBLIC_KEY"),
				URLEndpoint: strings.TrimRight(os.Getenv("IMAGEKIT_URL_ENDPOINT"), "/"),
				Folder:      getenvDefault("IMAGEKIT_FOLDER", "nkpol"),
			},
			R2: R2Config{
				Bucket:          os.Getenv("R2_BUCKET"),
				AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
				Endpoint:        os.Getenv("R2_ENDPOINT"),
				PublicDomain:    strings.TrimRight(os.Getenv("R2_PUBLIC_DOMAIN"), "/"),
				Folder:          getenvDefault("R2_FOLDER", "nkpol"),
			},
		},
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET env var")
	}
	switch cfg.Storage.Mode {
	case StorageModeImageKit, StorageModeR2:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_MODE %q (expected %q or %q)",
			cfg.Storage.Mode, StorageModeImageKit, StorageModeR2)
	}

	return cfg, nil
}

func tokenTTL() time.Duration {
	days, _ := strconv.Atoi(os.Getenv("TOKEN_TTL_DAYS"))
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
