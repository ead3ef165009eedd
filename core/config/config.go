package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"copy-environment/core/database"
	"copy-environment/core/logger"
	"copy-environment/core/server"
	"copy-environment/core/storage"
	"copy-environment/feature/world"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full application configuration, one section per concern.
type Config struct {
	Server   server.Config   `mapstructure:"server"`
	Storage  storage.Config  `mapstructure:"storage"`
	Log      logger.Config   `mapstructure:"log"`
	Database database.Config `mapstructure:"database"`
	// World configures the destination world the environment is read from and applied to.
	World world.Config `mapstructure:"world"`
}

// LoadConfig reads configuration from the environment, after loading an
// optional .env file from dir. Environment keys are the upper-cased,
// underscore separated section paths, e.g. WORLD_ACTOR or DATABASE_DRIVER.
func LoadConfig(dir string) (*Config, error) {
	// Missing .env is fine outside development.
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	bindValues(v, Config{}, "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports configuration values that can never work.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case database.DriverMySQL, database.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}
	if c.World.Actor == "" {
		errs = append(errs, errors.New("world.actor must not be empty"))
	}
	if c.World.DiffLength < 0 {
		errs = append(errs, errors.New("world.diff_length must not be negative"))
	}
	if port, err := strconv.Atoi(c.Server.Port); c.Server.Port != "" && (err != nil || port <= 0 || port > 65535) {
		errs = append(errs, fmt.Errorf("server.port %q is invalid", c.Server.Port))
	}
	return errors.Join(errs...)
}

// bindValues registers every mapstructure key with its `default` tag so that
// AutomaticEnv can resolve it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Set even when empty, unregistered keys are invisible to AutomaticEnv.
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
