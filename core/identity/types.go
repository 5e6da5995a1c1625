package identity

import "time"

// Account is an identity provider account as returned by the admin API.
type Account struct {
	// ID is the provider-assigned account id (uuid).
	ID string `json:"id"`

	// Email is the account email.
	Email string `json:"email"`

	// UserMetadata is free-form metadata attached to the account. The
	// seeder stores the platform role under the "role" key.
	UserMetadata map[string]any `json:"user_metadata"`

	// AppMetadata is provider-managed metadata.
	AppMetadata map[string]any `json:"app_metadata"`

	// EmailConfirmedAt is set once the email is confirmed.
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`

	// CreatedAt is the account creation time.
	CreatedAt *time.Time `json:"created_at"`
}

// Role returns the platform role stored in the account metadata, or "" when
// none is set.
func (a *Account) Role() string {
	if a.UserMetadata == nil {
		return ""
	}
	role, _ := a.UserMetadata["role"].(string)
	return role
}

// Action describes what CreateOrUpdate did to an account.
type Action string

const (
	// ActionCreated means a new account was created.
	ActionCreated Action = "created"
	// ActionUpdated means an existing account was updated in place.
	ActionUpdated Action = "updated"
)

// UpsertInput describes the desired state for one account.
type UpsertInput struct {
	// Email is the account email (natural key).
	Email string
	// Password is the plaintext password to assign.
	Password string
	// Role is stored under metadata key "role" and always overrides the
	// existing value.
	Role string
	// Metadata is merged into the existing account metadata; existing keys
	// not named here are preserved.
	Metadata map[string]any
}

// UpsertResult reports the account id and the action taken.
type UpsertResult struct {
	ID     string
	Action Action
}

// DeleteReport summarizes a DeleteNonAdmin pass.
type DeleteReport struct {
	// Deleted counts removed accounts.
	Deleted int
	// Preserved counts accounts skipped because of the preserve set or an
	// admin role.
	Preserved int
	// Failed counts per-account delete errors (logged, never raised).
	Failed int
}
