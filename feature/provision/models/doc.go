// Package models defines the relational row types the seeder provisions.
//
// Natural keys: users and centers are unique by email, specialties by name,
// lab test types by code. Join and sample rows (services, schedules, doctor
// links, appointments, bookings, billing) reference their parents by uuid
// and are deleted child-first during cleanup.
package models
