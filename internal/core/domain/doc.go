// Package domain contains the core business types for quizgen.
// It has no dependencies on adapters or external services.
package domain
