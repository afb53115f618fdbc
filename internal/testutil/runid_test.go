package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunIDGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedRunIDGenerator("run-1")

	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-1", gen.Generate())
}

func TestFixedRunIDGenerator_EmptyDefault(t *testing.T) {
	assert.Equal(t, "test-run-default", NewFixedRunIDGenerator("").Generate())
}

func TestFixedRunIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedRunIDGenerator("run-concurrent")

	var wg sync.WaitGroup
	results := make([]string, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = gen.Generate()
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "run-concurrent", r)
	}
}
