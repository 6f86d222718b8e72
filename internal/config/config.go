package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все настройки приложения
type Config struct {
	// Server
	Port string
	Host string

	// Database
	DBPath string

	// Security
	JWTSecret     string
	JWTExpiration time.Duration

	// Учетная запись корневого администратора, создается при старте
	AdminLogin    string
	AdminPassword string

	// Logging
	LogMode string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		Port:          getEnv("PORT", "8080"),
		Host:          getEnv("HOST", "0.0.0.0"),
		DBPath:        getEnv("DB_PATH", "/tmp/onboard.db"),
		JWTSecret:     getEnv("JWT_SECRET", "onboard_secret_key"),
		JWTExpiration: 24 * time.Hour,
		AdminLogin:    getEnv("ADMIN_LOGIN", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),
		LogMode:       getEnv("LOG_MODE", "dev"),
	}

	return config, nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
