// Package config provides configuration management for the seed manager.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Supabase: identity provider URL, service role key, list page size
//   - Database: relational store connection details
//   - Seed: provisioning defaults (seeded account password)
//   - Log: logging level and format
//
// Environment names follow the nested keys with underscores, so
// SUPABASE_SERVICE_ROLE_KEY maps to supabase.service_role_key and
// SEED_DEFAULT_PASSWORD maps to seed.default_password.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
