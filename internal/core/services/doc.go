// Package services implements the driving port interfaces.
// Services contain the core business logic - prompt construction,
// response recovery parsing, option shuffling and the generation
// pipeline - and orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO or external dependencies.
package services
