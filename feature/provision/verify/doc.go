// Package verify inspects the domain store around a provisioning run: a
// precheck snapshot of table counts before anything mutates, and a postcheck
// that cross-references the run's seeded accounts against their domain rows.
package verify
