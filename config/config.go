// Package config builds the process configuration once at start-up. Nothing
// else in the module reads the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the server needs
type Config struct {
	Port               string
	MongoURI           string
	MongoDatabase      string
	StoreDriver        string
	JWTSecret          string
	TokenTTL           time.Duration
	EmailProvider      string
	PostmarkToken      string
	SendgridAPIKey     string
	EmailSender        string
	UploadDir          string
	PublicBaseURL      string
	RedisURL           string
	RateLimitPerMinute int
	RequestTimeout     time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "campus_connect")
	v.SetDefault("STORE_DRIVER", "mongo")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("EMAIL_PROVIDER", "log")
	v.SetDefault("EMAIL_SENDER", "no-reply@campusconnect.local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8000")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("REQUEST_TIMEOUT", "10s")
}

// Load reads .env (if present) and the process environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:               v.GetString("PORT"),
		MongoURI:           v.GetString("MONGO_URI"),
		MongoDatabase:      v.GetString("MONGO_DATABASE"),
		StoreDriver:        strings.ToLower(v.GetString("STORE_DRIVER")),
		JWTSecret:          v.GetString("JWT_SECRET"),
		TokenTTL:           v.GetDuration("TOKEN_TTL"),
		EmailProvider:      strings.ToLower(v.GetString("EMAIL_PROVIDER")),
		PostmarkToken:      v.GetString("POSTMARK_API_TOKEN"),
		SendgridAPIKey:     v.GetString("SENDGRID_API_KEY"),
		EmailSender:        v.GetString("EMAIL_SENDER"),
		UploadDir:          v.GetString("UPLOAD_DIR"),
		PublicBaseURL:      strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		RedisURL:           v.GetString("REDIS_URL"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		RequestTimeout:     v.GetDuration("REQUEST_TIMEOUT"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every setting that prevents the server from starting
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.StoreDriver {
	case "mongo":
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo store"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	switch c.EmailProvider {
	case "postmark":
		if c.PostmarkToken == "" {
			errs = append(errs, errors.New("POSTMARK_API_TOKEN is required for the postmark provider"))
		}
	case "sendgrid":
		if c.SendgridAPIKey == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY is required for the sendgrid provider"))
		}
	case "log":
	default:
		errs = append(errs, fmt.Errorf("unknown EMAIL_PROVIDER %q", c.EmailProvider))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE cannot be negative"))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return ":" + c.Port
}
