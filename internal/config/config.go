package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "LAWN"

// Drivers de almacenamiento soportados.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	DB       DBConfig       `mapstructure:"db"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Expiry   ExpiryConfig   `mapstructure:"expiry"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Log      LogConfig      `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	// DSN de postgres o ruta del archivo sqlite.
	DSN string `mapstructure:"dsn"`
}

type ScheduleConfig struct {
	UpcomingDays int `mapstructure:"upcoming_days"`
	BackfillDays int `mapstructure:"backfill_days"`
}

type ExpiryConfig struct {
	// Spec de robfig/cron; vacío desactiva el barrido.
	Schedule  string `mapstructure:"schedule"`
	GraceDays int    `mapstructure:"grace_days"`
}

type AuthConfig struct {
	JWTSecret    string `mapstructure:"jwt_secret"`
	Audience     string `mapstructure:"audience"`
	GoTrueURL    string `mapstructure:"gotrue_url"`
	GoTrueAPIKey string `mapstructure:"gotrue_api_key"`
}

type CatalogConfig struct {
	// YAML de plantillas a importar al arrancar (opcional).
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registra todas las claves: viper solo resuelve variables de
// entorno en Unmarshal para claves conocidas.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 5*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)

	v.SetDefault("db.driver", DriverMemory)
	v.SetDefault("db.dsn", "")

	v.SetDefault("schedule.upcoming_days", 10)
	v.SetDefault("schedule.backfill_days", 60)

	v.SetDefault("expiry.schedule", "@every 1h")
	v.SetDefault("expiry.grace_days", 3)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.gotrue_url", "")
	v.SetDefault("auth.gotrue_api_key", "")

	v.SetDefault("catalog.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// New arma un viper con defaults y entorno LAWN_* (p.ej. LAWN_DB_DRIVER).
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load lee el archivo (si path no es vacío) y el entorno.
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.DB.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if strings.TrimSpace(c.DB.DSN) == "" {
			errs = append(errs, fmt.Errorf("db.dsn required for driver %q", c.DB.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown db.driver %q", c.DB.Driver))
	}

	if c.Schedule.UpcomingDays < 0 {
		errs = append(errs, errors.New("schedule.upcoming_days must be >= 0"))
	}
	if c.Schedule.BackfillDays < 0 {
		errs = append(errs, errors.New("schedule.backfill_days must be >= 0"))
	}
	if c.Expiry.GraceDays < 0 {
		errs = append(errs, errors.New("expiry.grace_days must be >= 0"))
	}
	if c.Auth.JWTSecret != "" && c.Auth.GoTrueURL != "" {
		errs = append(errs, errors.New("auth.jwt_secret and auth.gotrue_url are mutually exclusive"))
	}

	return errors.Join(errs...)
}
