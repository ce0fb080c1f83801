package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`

	GatewayURL      string `env:"GATEWAY_URL" envDefault:"http://mock-gateway:8081"`
	GatewaySecret   string `env:"GATEWAY_SECRET,required"`
	GatewayTimeoutS int    `env:"GATEWAY_TIMEOUT_S" envDefault:"5"`

	TournamentServiceURL string `env:"TOURNAMENT_SERVICE_URL" envDefault:"http://mock-gateway:8081"`

	DefaultCurrency string `env:"DEFAULT_CURRENCY" envDefault:"INR"`

	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
