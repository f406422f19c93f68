// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Upstream model failures are converted to their documented fallbacks
// here and nowhere else.
package services
