// Package logger provides the zap logger factory for the seed manager.
//
// The CLI defaults to console encoding with colored levels; json encoding
// is available for non-interactive use (e.g. running the seeder from CI).
package logger
