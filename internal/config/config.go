package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string   `mapstructure:"PORT"`
	Env                 string   `mapstructure:"ENV"`
	ClinicAPIURL        string   `mapstructure:"CLINIC_API_URL"`
	ClinicAPITimeoutSec int      `mapstructure:"CLINIC_API_TIMEOUT"`
	BillableVisitTypes  []string `mapstructure:"BILLABLE_VISIT_TYPES"`
	CORSOrigins         []string `mapstructure:"CORS_ORIGINS"`
	AuthSecret          string   `mapstructure:"AUTH_SECRET"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8090")
	v.SetDefault("ENV", "development")
	v.SetDefault("CLINIC_API_TIMEOUT", 15)
	v.SetDefault("BILLABLE_VISIT_TYPES", "implant,kontrol,muayene")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("CLINIC_API_URL")
	v.BindEnv("CLINIC_API_TIMEOUT")
	v.BindEnv("BILLABLE_VISIT_TYPES")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_SECRET")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	if cfg.BillableVisitTypes == nil {
		if types := v.GetString("BILLABLE_VISIT_TYPES"); types != "" {
			cfg.BillableVisitTypes = strings.Split(types, ",")
		}
	}

	if cfg.IsDev() && cfg.AuthSecret == "" {
		log.Println("WARNING: running in development mode without AUTH_SECRET; dashboard routes are unauthenticated")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the gateway is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ClinicAPITimeout returns the upstream request timeout as a duration.
func (c *Config) ClinicAPITimeout() time.Duration {
	return time.Duration(c.ClinicAPITimeoutSec) * time.Second
}

// Validate checks that the configuration is safe to run. The upstream API
// address is always required; outside development a bearer secret must be
// set so the dashboard routes are not left open.
func (c *Config) Validate() error {
	if c.ClinicAPIURL == "" {
		return fmt.Errorf("CLINIC_API_URL is required")
	}
	if c.ClinicAPITimeoutSec <= 0 {
		return fmt.Errorf("CLINIC_API_TIMEOUT must be positive, got %d", c.ClinicAPITimeoutSec)
	}
	if len(c.BillableVisitTypes) == 0 {
		return fmt.Errorf("BILLABLE_VISIT_TYPES must name at least one visit type")
	}
	if !c.IsDev() && c.AuthSecret == "" {
		return fmt.Errorf("AUTH_SECRET is required when ENV=%q. Refusing to start without authentication configuration", c.Env)
	}
	return nil
}
