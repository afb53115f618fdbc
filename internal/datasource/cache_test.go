package datasource

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/vislens/internal/ir"
)

func TestClassificationCache_PutGetInvalidate(t *testing.T) {
	c := NewClassificationCache()

	_, ok := c.Get("weight")
	assert.False(t, ok)

	want := Classification{Model: ir.ModelMeasure, Type: ir.TypeQuantitative, Kind: KindInt, Cardinality: 31}
	c.Put("weight", want)

	got, ok := c.Get("weight")
	assert.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, c.Len())

	c.Invalidate()
	_, ok = c.Get("weight")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestClassificationCache_Concurrent(t *testing.T) {
	c := NewClassificationCache()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("col%d", i%5)
			c.Put(name, Classification{Cardinality: i})
			c.Get(name)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, c.Len())
}

func TestSourcesOwnTheirCache(t *testing.T) {
	a := newCarsTable(t)
	b := newCarsTable(t)

	a.Cache().Put("weight", Classification{Model: ir.ModelMeasure})

	_, ok := b.Cache().Get("weight")
	assert.False(t, ok, "caches are per source")
}
