// Package harness provides conformance testing for intent compilation.
//
// The harness loads a data source, compiles a scenario's intent (or runs
// the recommendation engine around it), and validates the visualizations
// against the scenario's assertions and an optional golden snapshot.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	source:
//	  fixture: cars        # or driver/db/table for an existing database
//	  driver: duckdb       # optional: load the fixture into this driver
//	mode: build            # or recommend
//	intent:
//	  - "origin=?"
//	  - attribute: milespergal
//	    channel: y
//	compiler:
//	  nominal_cardinality: 10
//	assertions:
//	  - type: count
//	    count: 3
//	  - type: marks
//	    marks: [histogram, histogram, histogram]
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - count: Verifies the number of visualizations
//   - marks: Verifies the ordered marks
//   - titles: Verifies the ordered titles
//   - channel: Verifies every visualization encodes an attribute on a channel
//   - contains: Verifies some visualization shows exactly the given attributes
//   - warning: Verifies a warning contains a substring
//   - error: Verifies the run failed with an error containing a substring
//   - actions: Verifies the recommendation action order
//
// count, marks, titles, channel and contains take an optional action to
// check one recommendation collection instead of the build output.
//
// # Deterministic Testing
//
// Every scenario runs against a fresh copy of its source, and recommend
// mode uses a fixed run ID (scenario.run_id or "test-run-default"), so
// snapshots are identical across runs. Snapshots leave out visualization
// IDs; the resolved clauses identify each chart.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/histogram_per_origin.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
//
// Run a directory, comparing against golden files:
//
//	paths, _ := harness.FindScenarios("testdata/scenarios", "")
//	suite := harness.RunSuite(ctx, paths, harness.SuiteOptions{})
package harness
