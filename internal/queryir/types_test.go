package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/vislens/internal/ir"
)

func TestQuerySealed(t *testing.T) {
	var _ Query = Select{}
	var _ Query = &Select{}
	var _ Query = Count{}
	var _ Query = &Count{}

	var _ Predicate = Compare{}
	var _ Predicate = &Compare{}
	var _ Predicate = And{}
	var _ Predicate = &And{}
}

func TestEq(t *testing.T) {
	assert.Equal(t,
		Compare{Field: "origin", Op: "=", Value: ir.String("USA")},
		Eq("origin", ir.String("USA")),
	)
}
