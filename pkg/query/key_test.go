package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquers-go/liquers/pkg/query"
)

func TestKeyEncodeParse(t *testing.T) {
	k := query.NewKey("a", "b", "c")
	assert.Equal(t, "a/b/c", k.Encode())

	parsed, err := query.ParseKey("a/b/c")
	require.NoError(t, err)
	assert.True(t, k.Equal(parsed))
}

func TestKeyParentJoinPrefix(t *testing.T) {
	k := query.NewKey("a", "b", "c")
	assert.True(t, k.Parent().Equal(query.NewKey("a", "b")))
	assert.True(t, k.HasKeyPrefix(query.NewKey("a", "b")))
	assert.False(t, k.HasKeyPrefix(query.NewKey("a", "x")))

	joined := query.NewKey("a").Join(query.NewKey("b", "c"))
	assert.True(t, joined.Equal(k))
}

func TestKeyAbsoluteResolution(t *testing.T) {
	cwd := query.NewKey("home", "user")

	cases := []struct {
		rel  query.Key
		want query.Key
	}{
		{query.NewKey(".", "docs"), query.NewKey("home", "user", "docs")},
		{query.NewKey("..", "sibling"), query.NewKey("sibling")},
		{query.NewKey(".", "..", "x"), query.NewKey("home", "x")},
		{query.NewKey("..", "..", "..", "x"), query.NewKey("x")},
		{query.NewKey("plain"), query.NewKey("plain")},
	}

	for _, c := range cases {
		got := c.rel.Absolute(cwd)
		assert.Truef(t, got.Equal(c.want), "Absolute(%v) = %v, want %v", c.rel, got, c.want)
	}
}

// Resolving an already-resolved key against the same cwd is a no-op.
func TestKeyAbsoluteIdempotent(t *testing.T) {
	cwd := query.NewKey("home", "user")
	rels := []query.Key{
		query.NewKey(".", "docs"),
		query.NewKey("..", "x"),
		query.NewKey("a", "b", "c"),
		query.NewKey(".", ".", "y"),
	}

	for _, rel := range rels {
		once := rel.Absolute(cwd)
		twice := once.Absolute(cwd)
		assert.Truef(t, twice.Equal(once), "idempotence failed for %v: once=%v twice=%v", rel, once, twice)
	}
}
