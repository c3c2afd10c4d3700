package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/vncsmyrnk/tally/internal/core/domain"
)

type Config struct {
	Addr      string        `env:"ADDR" envDefault:"0.0.0.0:8080"`
	JWTSecret string        `env:"JWT_SECRET" envDefault:""`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"12h"`

	ParticipationWarnRatio float64 `env:"PARTICIPATION_WARN_RATIO" envDefault:"0.70"`
	SkewWarnPoints         float64 `env:"SKEW_WARN_POINTS" envDefault:"15"`

	DB DBConfig
}

type DBConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:""`
	Name     string `env:"POSTGRES_DB" envDefault:"tally"`
}

func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

func (c Config) Rules() domain.Rules {
	return domain.Rules{
		ParticipationWarnRatio: c.ParticipationWarnRatio,
		SkewWarnPoints:         c.SkewWarnPoints,
	}
}

func (d DBConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
}
