// Package ir provides the intermediate representation shared by every
// vislens package: intents, clauses, scalar values and visualizations.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Attribute and value specs are sealed variants, never bare interface{}
//   - A clause with a bound value is a filter; without one it is a visual attribute
//   - Visualization identity is content addressed (canonical JSON + SHA-256)
//   - All JSON tags use snake_case
package ir
