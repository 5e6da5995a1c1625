// Package store implements the relational store adapter used by the seeder.
//
// All destructive operations are guarded by the schema capability descriptor
// (an absent table is a logged skip), large id deletions are chunked, and
// upserts key on natural columns so repeated runs are idempotent.
package store
