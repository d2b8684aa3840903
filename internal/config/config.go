// Package config содержит логику чтения конфигурации сервиса планирования конвертаций.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/fxplanner-system/internal/model"
)

// Config содержит параметры конфигурации сервиса.
type Config struct {
	RunAddress         string `env:"RUN_ADDRESS"`
	RatesSystemAddress string `env:"RATES_SYSTEM_ADDRESS"`
	HomeCurrency       string `env:"HOME_CURRENCY"`
	ApprovalThreshold  string `env:"APPROVAL_THRESHOLD"`
	DemoSeed           bool   `env:"DEMO_SEED"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Значения из окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envRatesAddress := cfg.RatesSystemAddress
	envHomeCurrency := cfg.HomeCurrency
	envApprovalThreshold := cfg.ApprovalThreshold
	envDemoSeed := cfg.DemoSeed

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.RatesSystemAddress, "r", "", "external rates system address")
	flag.StringVar(&cfg.HomeCurrency, "c", "EUR", "home currency code")
	flag.StringVar(&cfg.ApprovalThreshold, "t", "25000", "approval threshold for planner self-activation")
	flag.BoolVar(&cfg.DemoSeed, "s", false, "seed demo plans on startup")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envRatesAddress != "" {
		cfg.RatesSystemAddress = envRatesAddress
	}
	if envHomeCurrency != "" {
		cfg.HomeCurrency = envHomeCurrency
	}
	if envApprovalThreshold != "" {
		cfg.ApprovalThreshold = envApprovalThreshold
	}
	if envDemoSeed {
		cfg.DemoSeed = true
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	if _, err := decimal.NewFromString(cfg.ApprovalThreshold); err != nil {
		return nil, fmt.Errorf("parse approval threshold %q: %w", cfg.ApprovalThreshold, err)
	}

	return cfg, nil
}

// Settings строит настройки авторизации из конфигурации.
func (c *Config) Settings() model.Settings {
	threshold, err := decimal.NewFromString(c.ApprovalThreshold)
	if err != nil {
		// Parse уже проверил значение.
		threshold = decimal.NewFromInt(25000)
	}

	return model.Settings{
		HomeCurrency:      c.HomeCurrency,
		ApprovalThreshold: threshold,
	}
}
