package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_NestingAttachesChildren(t *testing.T) {
	var b Builder
	b.Open("A")
	b.Open("B")
	b.Fail("t", "boom")
	b.Close()
	b.Close()

	roots := b.Roots()
	require.Len(t, roots, 1)
	require.Equal(t, "A", roots[0].Title)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "B", roots[0].Children[0].Title)
	assert.Equal(t, "t", roots[0].Children[0].Failures[0].Title)
}

func TestBuilder_SiblingRootsInClosingOrder(t *testing.T) {
	var b Builder
	b.Open("first")
	b.Close()
	b.Open("second")
	b.Close()
	roots := b.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "first", roots[0].Title)
	assert.Equal(t, "second", roots[1].Title)
}

func TestBuilder_FailOutsideSuite_GoesToUntitledRoot(t *testing.T) {
	var b Builder
	b.Fail("orphan", "m")
	b.Fail("orphan2", "m2")
	roots := b.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, "", roots[0].Title)
	assert.Len(t, roots[0].Failures, 2)
}

func TestBuilder_CloseOnEmptyStackIsNoOp(t *testing.T) {
	var b Builder
	b.Close()
	assert.Empty(t, b.Roots())
	assert.Equal(t, 0, b.Depth())
}

func TestBuilder_Depth(t *testing.T) {
	var b Builder
	b.Open("a")
	b.Open("b")
	assert.Equal(t, 2, b.Depth())
	b.Close()
	assert.Equal(t, 1, b.Depth())
}
