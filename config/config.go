package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every recognized environment option with its default.
// One instance is built at startup and handed to the services that need
// it; nothing reads os.Getenv after Load returns.
type Config struct {
	OTPLength       int
	OTPExpiry       time.Duration
	OTPMaxAttempts  int
	RateLimitMax    int
	RateLimitWindow time.Duration

	CookieName   string
	CookieMaxAge int // seconds

	// OTPSecret keys the OTP code digest. Rotating it invalidates every
	// outstanding code.
	OTPSecret []byte

	AppEnv string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	FirebaseProjectID   string
	FirebaseCredentials string
}

func Load() (*Config, error) {
	// โหลด .env เฉพาะตอนรัน local (เมื่อ ENV "RENDER" ว่าง)
	if os.Getenv("RENDER") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not loaded, fallback to OS env vars")
		}
	}

	secret := os.Getenv("OTP_SECRET")
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		log.Println("Warning: OTP_SECRET is not set, using fallback secret")
		secret = "fallback-secret"
	}

	cfg := &Config{
		OTPLength:           envInt("OTP_LENGTH", 6),
		OTPExpiry:           time.Duration(envInt("OTP_EXPIRY_SECONDS", 300)) * time.Second,
		OTPMaxAttempts:      envInt("OTP_MAX_ATTEMPTS", 5),
		RateLimitMax:        envInt("RATE_LIMIT_MAX", 3),
		RateLimitWindow:     time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 600)) * time.Second,
		CookieName:          envString("COOKIE_NAME", "appointment_auth_token"),
		CookieMaxAge:        envInt("COOKIE_MAX_AGE_SECONDS", 86400),
		OTPSecret:           []byte(secret),
		AppEnv:              envString("APP_ENV", "development"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            os.Getenv("SMTP_PORT"),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		EmailFrom:           envString("EMAIL_FROM", ""),
		FirebaseProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	}

	if cfg.OTPLength <= 0 {
		return nil, fmt.Errorf("OTP_LENGTH must be greater than 0")
	}

	return cfg, nil
}

// SecureCookies reports whether session cookies should carry the Secure
// flag. Only plain-HTTP local development turns it off.
func (c *Config) SecureCookies() bool {
	return c.AppEnv != "development"
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}
