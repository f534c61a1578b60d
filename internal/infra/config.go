package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv              string
	Port                string
	MongoURI            string
	MongoDatabase       string
	OpenAIAPIKey        string
	OpenAIImageModel    string
	OpenAIBaseURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryBaseURL   string
	AllowedOrigins      []string
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPIdleTimeout     time.Duration
	GenerationTimeout   time.Duration
	RateLimitPerMin     int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		MongoURI:            os.Getenv("MONGODB_URI"),
		MongoDatabase:       getEnv("MONGODB_DATABASE", "fashion-generation"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIImageModel:    getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
		OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryBaseURL:   os.Getenv("CLOUDINARY_BASE_URL"),
		AllowedOrigins:      getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		GenerationTimeout:   time.Second * time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 120)),
		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
