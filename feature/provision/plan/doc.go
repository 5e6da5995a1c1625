// Package plan defines the execution plan for a seeding run and the
// interactive collector that gathers it.
//
// The collector is the only gate between the operator and mutation: every
// destructive run ends with the literal confirmation phrase, and declining
// at any point yields ErrAborted with nothing changed.
package plan
