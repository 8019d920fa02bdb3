package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NotNil(t, r)
	assert.Zero(t, r.Count())
}

func TestRegistry_Add_FirstWins(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	added := r.Add(Metadata{Kind: KindExecutor, ID: "X", Source: "a.so"})
	require.True(t, added)

	// A second entry with the same (kind, identity) pair must be rejected.
	added = r.Add(Metadata{Kind: KindExecutor, ID: "X", Source: "b.so"})
	assert.False(t, added)

	m, ok := r.Lookup(KindExecutor, "X")
	require.True(t, ok)
	assert.Equal(t, "a.so", m.Source)

	// Same identity under a different kind is a distinct entry.
	added = r.Add(Metadata{Kind: KindLogger, ID: "X", Source: "c.so"})
	assert.True(t, added)
	assert.Equal(t, 2, r.Count())
}

func TestRegistry_Merge_FirstBatchWinsOnCollision(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Two discovery batches each produce an executor with identity "X".
	first := NewRegistry()
	first.Add(Metadata{Kind: KindExecutor, ID: "X", Source: "first.so"})

	second := NewRegistry()
	second.Add(Metadata{Kind: KindExecutor, ID: "X", Source: "second.so"})
	second.Add(Metadata{Kind: KindExecutor, ID: "Y", Source: "second.so"})

	// --- Act ---
	merged := NewRegistry()
	merged.Merge(first)
	merged.Merge(second)

	// --- Assert ---
	m, ok := merged.Lookup(KindExecutor, "X")
	require.True(t, ok)
	assert.Equal(t, "first.so", m.Source, "first discovered entry must win the collision")

	_, ok = merged.Lookup(KindExecutor, "Y")
	assert.True(t, ok, "non-colliding entries from the second batch must still merge")
	assert.Equal(t, 2, merged.Count())
}

func TestRegistry_Merge_NilIsNoop(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Add(Metadata{Kind: KindLogger, ID: "console"})
	r.Merge(nil)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_ByKind_SortedByIdentity(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Add(Metadata{Kind: KindDiscoverer, ID: "b"})
	r.Add(Metadata{Kind: KindDiscoverer, ID: "a"})
	r.Add(Metadata{Kind: KindDiscoverer, ID: "c"})

	got := r.ByKind(KindDiscoverer)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "c", got[2].ID)
}

func TestRegistry_ForModule_CaseInsensitive(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Add(Metadata{Kind: KindExecutor, ID: "X", Source: "/opt/ext/A.so"})
	r.Add(Metadata{Kind: KindLogger, ID: "L", Source: "/opt/ext/a.SO"})
	r.Add(Metadata{Kind: KindLogger, ID: "other", Source: "/opt/ext/b.so"})

	sub := r.ForModule("/opt/ext/a.so")
	assert.Equal(t, 2, sub.Count())
	_, ok := sub.Lookup(KindLogger, "other")
	assert.False(t, ok)
}

func TestRegistry_Clone_Independent(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Add(Metadata{Kind: KindExecutor, ID: "X"})

	c := r.Clone()
	c.Add(Metadata{Kind: KindExecutor, ID: "Y"})

	assert.Equal(t, 1, r.Count(), "mutating the clone must not affect the original")
	assert.Equal(t, 2, c.Count())
}

func TestKind_Valid(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds() {
		assert.True(t, k.Valid(), "kind %q should be valid", k)
	}
	assert.False(t, Kind("frobnicator").Valid())
}
