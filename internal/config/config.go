package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Downstream microservices fronted by the gateway's health registry.
	NotificationsURL string `mapstructure:"NOTIFICATIONS_URL"`
	MediaURL         string `mapstructure:"MEDIA_URL"`

	// Circuit breaker tuning, shared by all registered services.
	HealthInterval   time.Duration `mapstructure:"HEALTH_INTERVAL"`
	HealthTimeout    time.Duration `mapstructure:"HEALTH_TIMEOUT"`
	FailureThreshold int           `mapstructure:"FAILURE_THRESHOLD"`
	BreakerCooldown  time.Duration `mapstructure:"BREAKER_COOLDOWN"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("HEALTH_INTERVAL", 10*time.Second)
	viper.SetDefault("HEALTH_TIMEOUT", 2*time.Second)
	viper.SetDefault("FAILURE_THRESHOLD", 3)
	viper.SetDefault("BREAKER_COOLDOWN", 30*time.Second)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
