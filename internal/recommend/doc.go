// Package recommend suggests visualization collections around an intent.
//
// An Engine owns a compiler and an ordered list of Actions. For each run
// it compiles the current intent, asks every applicable action for the
// intents it wants to explore, compiles those into collections and
// returns one ActionResult per non-empty collection.
//
// ACTIONS:
//
// Without a visual attribute in the intent (filters only, or nothing):
//   - Correlation: every unordered pair of measures
//   - Distribution: every measure on its own
//   - Occurrence: every nominal dimension on its own
//   - Temporal: every temporal dimension on its own
//
// With at least one visual attribute:
//   - Enhance: the intent plus one more attribute
//   - Filter: the intent under each value of a low-cardinality dimension,
//     or, when the intent already filters, under every other value
//   - Generalize: the intent with one clause removed
//
// Existing filters are carried into every generated intent.
//
// DETERMINISM:
//
// Actions run in registration order and each action emits intents in
// column order, so two runs over the same source return identical
// results apart from the run ID. Visualizations with an unknown mark are
// never returned.
package recommend
