// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The text sanitizer, similarity scorer, record builder and retrieval
// functions are pure and have no dependencies beyond domain.
package services
