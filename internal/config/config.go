package config

import (
	"os"
	"time"
)

type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Rabbit  RabbitConfig
	Catalog CatalogConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RabbitConfig struct {
	URI      string
	Exchange string
}

type CatalogConfig struct {
	Path string
}

// Load reads configuration from the environment. MONGO_URI is the only
// required value; main treats its absence as fatal.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			CORSOrigins:  []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnv("MONGO_DATABASE", "exam_service"),
		},
		Rabbit: RabbitConfig{
			URI:      os.Getenv("RABBITMQ_URI"),
			Exchange: os.Getenv("RABBITMQ_EXCHANGE"),
		},
		Catalog: CatalogConfig{
			Path: getEnv("CATALOG_PATH", "questions.json"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
