package identity

// Config holds the identity provider endpoint and credentials.
type Config struct {
	// URL is the Supabase project URL (https://<ref>.supabase.co).
	URL string `mapstructure:"url" default:""`
	// ServiceRoleKey is the service-role API key used for admin calls.
	ServiceRoleKey string `mapstructure:"service_role_key" default:""`
	// PageSize is the page size for admin user listing.
	PageSize int `mapstructure:"page_size" default:"100"`
	// TimeoutSeconds bounds each admin API call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
