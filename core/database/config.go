package database

// Config holds configuration for the database connection.
type Config struct {
	// URL is the full connection string. For postgres this is the Supabase
	// pooler DSN (postgresql://...); for sqlite it is a file path or DSN.
	URL string `mapstructure:"url" default:""`
	// Driver is the database driver (postgres, sqlite).
	Driver string `mapstructure:"driver" default:"postgres"`
	// TimeoutSeconds bounds connection setup and the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
