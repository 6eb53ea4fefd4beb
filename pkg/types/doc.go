// Package types defines the error taxonomy shared by the configuration
// editor, the command protocol and the CLI.
//
// Design goals:
//   - Typed errors with stable categories (not found/ambiguous/shape/format/...).
//   - A short wire code per category for narrow transport channels.
//   - errors.Is matches by category, so located copies still match sentinels.
//
// Wire codes ML and SL name the shape a key was expected to have. ML is
// sent when a single-line edit hits a multi-line key and SL when a
// multi-line edit hits a single-line key. Earlier releases sent ML for
// both mismatches, so callers that only matched ML must also accept SL.
//
// This package has no dependencies beyond the standard library.
package types
