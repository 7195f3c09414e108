// Package forms holds the built-in intake form definitions (the Ideal Customer
// Profile form and the agent configuration form), a registry keyed by form ID,
// and a loader for additional definitions stored as YAML or JSON files.
package forms
