// Package identity wraps the Supabase GoTrue admin API.
//
// The seeder talks to the identity store exclusively through Client:
// paginated listing, lookup by email, idempotent create-or-update, and
// preserve-aware bulk deletion. CreateOrUpdate merges account metadata
// rather than replacing it, so repeated runs never erase keys accumulated
// between runs.
package identity
