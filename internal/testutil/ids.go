package testutil

// FixedIDGenerator generates the same run ID every time.
//
// This enables deterministic store contents and golden comparison of
// `runloop history` output.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a fixed ID generator.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed ID.
//
// Implements store.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
