package testutil

// FixedRunIDGenerator returns the same run ID every time.
//
// Recommendation runs are keyed by a UUIDv7 in production; tests and golden
// snapshots need the ID to be stable so output is byte-identical across
// runs.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator for id.
// If id is empty, Generate returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
//
// Implements recommend.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
