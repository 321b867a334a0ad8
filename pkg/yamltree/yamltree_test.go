package yamltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesMapOrder(t *testing.T) {
	tree, err := Decode("c: 1\na: 2\nb: 3\n")
	require.NoError(t, err)
	m, ok := AsMap(tree)
	require.True(t, ok)
	assert.Equal(t, []string{"c", "a", "b"}, MapKeys(m))
}

func TestDecode_Sequence(t *testing.T) {
	tree, err := Decode("- a\n- b\n- c\n")
	require.NoError(t, err)
	seq, ok := AsSequence(tree)
	require.True(t, ok)
	assert.Len(t, seq, 3)
}

func TestKind(t *testing.T) {
	cases := []struct {
		src  string
		kind string
	}{
		{"a: 1\n", "map"},
		{"- 1\n- 2\n", "sequence"},
		{"hello\n", "string"},
		{"true\n", "boolean"},
		{"42\n", "number"},
		{"null\n", "null"},
	}
	for _, c := range cases {
		tree, err := Decode(c.src)
		require.NoError(t, err)
		assert.Equal(t, c.kind, Kind(tree), "src=%q", c.src)
	}
}

func TestAsStringLike(t *testing.T) {
	cases := []struct {
		v    any
		want string
	}{
		{"hi", "hi"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{3.5, "3.5"},
	}
	for _, c := range cases {
		s, ok := AsStringLike(c.v)
		assert.True(t, ok)
		assert.Equal(t, c.want, s)
	}
}

func TestAsStringLike_Idempotent(t *testing.T) {
	for _, v := range []any{"hi", true, 42, 3.5} {
		once, _ := AsStringLike(v)
		twice, _ := AsStringLike(once)
		assert.Equal(t, once, twice)
	}
}

func TestMapGet_Missing(t *testing.T) {
	tree, err := Decode("a: 1\n")
	require.NoError(t, err)
	m, _ := AsMap(tree)
	_, ok := MapGet(m, "missing")
	assert.False(t, ok)
}
