package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"seed-manager/core/database"
	"seed-manager/core/identity"
	"seed-manager/core/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SeedConfig holds defaults for the provisioning run.
type SeedConfig struct {
	// DefaultPassword is assigned to every seeded account unless the
	// operator overrides it in the interactive plan.
	DefaultPassword string `mapstructure:"default_password" default:"Seed@12345"`
}

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Supabase holds the identity provider endpoint and credentials.
	Supabase identity.Config `mapstructure:"supabase"`
	// Database holds configuration for the relational store connection.
	Database database.Config `mapstructure:"database"`
	// Seed holds defaults for the provisioning run.
	Seed SeedConfig `mapstructure:"seed"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SUPABASE_URL -> supabase.url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// The dashboard deployments export the identity URL under its public
	// name; accept it as a fallback.
	if config.Supabase.URL == "" {
		config.Supabase.URL = os.Getenv("NEXT_PUBLIC_SUPABASE_URL")
	}
	if config.Database.URL == "" {
		config.Database.URL = os.Getenv("SUPABASE_DB_URL")
	}

	return &config, nil
}

// Validate returns an error naming every required value that is missing.
func (c *Config) Validate() error {
	var missing []string
	if c.Supabase.URL == "" {
		missing = append(missing, "SUPABASE_URL (or NEXT_PUBLIC_SUPABASE_URL)")
	}
	if c.Supabase.ServiceRoleKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_ROLE_KEY")
	}
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL (or SUPABASE_DB_URL)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
