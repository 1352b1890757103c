// Package core defines the shared language of dbtstyle.
//
// This package contains:
//   - Domain entities (Project, Model, PropertiesFile)
//   - Rule metadata and severities
//   - Configuration types shared by the CLI and the linter
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
