package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_NextID_Monotonic(t *testing.T) {
	r := New()

	assert.Equal(t, int64(1), r.NextID(KindChapter))
	assert.Equal(t, int64(2), r.NextID(KindChapter))
	assert.Equal(t, int64(3), r.NextID(KindChapter))

	// Counters are independent per kind.
	assert.Equal(t, int64(1), r.NextID(KindSection))
	assert.Equal(t, int64(3), r.Count(KindChapter))
}

func TestRegistry_GetOrCreateDrug_Dedupes(t *testing.T) {
	r := New()

	id1, created := r.GetOrCreateDrug("ibuprofen")
	require.True(t, created)

	id2, created := r.GetOrCreateDrug("ibuprofen")
	assert.False(t, created)
	assert.Equal(t, id1, id2)

	// Casing and punctuation variants resolve to the same id.
	id3, created := r.GetOrCreateDrug("Ibuprofen")
	assert.False(t, created)
	assert.Equal(t, id1, id3)

	id4, created := r.GetOrCreateDrug("acetaminophen")
	assert.True(t, created)
	assert.NotEqual(t, id1, id4)
	assert.Equal(t, int64(2), r.Count(KindDrug))
}

func TestRegistry_DrugsAndConditionsSeparate(t *testing.T) {
	r := New()

	drugID, _ := r.GetOrCreateDrug("asthma") // nonsense, but namespaces must not collide
	condID, _ := r.GetOrCreateCondition("asthma")

	assert.Equal(t, int64(1), drugID)
	assert.Equal(t, int64(1), condID)

	got, ok := r.LookupCondition("Asthma")
	require.True(t, ok)
	assert.Equal(t, condID, got)

	_, ok = r.LookupCondition("pneumonia")
	assert.False(t, ok)
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	r := New()

	var wg sync.WaitGroup
	ids := make([]int64, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], _ = r.GetOrCreateDrug("amoxicillin")
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, int64(1), r.Count(KindDrug))
}
