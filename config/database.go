package config

import "fmt"

// DBConfig contains PostgreSQL database configuration for the settings store.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"authgate"`
	Password string `env:"PASSWORD" envDefault:"authgate"`
	Name     string `env:"NAME"     envDefault:"authgate"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
}

// DSN returns the pgx connection string for this configuration.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// RedisConfig contains Redis configuration for the settings cache.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// Enabled toggles the settings cache. When false the service reads and
	// writes the database directly.
	Enabled bool `env:"ENABLED" envDefault:"false"`
}
