// Package seeder executes one provisioning plan against the identity store
// and the relational store. Phases run in dependency order: cleanup, catalog
// upserts, center provisioning, per-role user creation, link-table
// reconciliation, and finally the dependent relational rows. Every phase is
// idempotent; re-running with the same plan converges to the same state.
package seeder
