package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort      string // Application port
	DBUser       string // Database user
	DBPassword   string // Database password
	DBHost       string // Database host
	DBPort       string // Database port
	DBName       string // Database name
	JWTSecret    string // Secret for access and password reset tokens
	RedisAddr    string // Redis server address
	RedisPass    string // Redis password
	RedisDB      int    // Redis database number
	SMTPHost     string // SMTP server host; empty disables real email delivery
	SMTPPort     string // SMTP server port
	SMTPUser     string // SMTP username
	SMTPPassword string // SMTP password
	EmailsFrom   string // From address for outgoing mail
	IsProd       bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:      os.Getenv("APP_PORT"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBHost:       os.Getenv("DB_HOST"),
		DBPort:       os.Getenv("DB_PORT"),
		DBName:       os.Getenv("DB_NAME"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		RedisDB:      redisDB,
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     os.Getenv("SMTP_PORT"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailsFrom:   os.Getenv("EMAILS_FROM"),
		IsProd:       os.Getenv("IS_PROD") == "true",
	}
}
