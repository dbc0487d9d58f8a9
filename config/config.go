package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDBName   string
	CassandraHost string
	JWTSecret     string
	Pepper        string
	TokenExpiry   time.Duration
	AllowedOrigin string
}

func Load() *Config {
	_ = godotenv.Load()

	expiry, err := time.ParseDuration(getEnv("TOKEN_EXPIRY", "4h"))
	if err != nil {
		expiry = 4 * time.Hour
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "ram_planner"),
		CassandraHost: getEnv("CASS_DB", "127.0.0.1"),
		JWTSecret:     getEnvOrPanic("JWT_SECRET"),
		Pepper:        getEnvOrPanic("PEPPER"),
		TokenExpiry:   expiry,
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
