package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContains(t *testing.T) {
	r := NewRect(10, 10, 100, 50)
	require.True(t, r.Contains(50, 30))
	require.False(t, r.Contains(10, 30), "edges are exclusive")
	require.False(t, r.Contains(200, 30))
}

func TestContainsRect(t *testing.T) {
	outer := NewRect(0, 0, 100, 100)
	require.True(t, outer.ContainsRect(NewRect(10, 10, 50, 50)))
	require.True(t, outer.ContainsRect(outer))
	require.False(t, outer.ContainsRect(NewRect(60, 60, 50, 50)))
}

func TestSplitVertical(t *testing.T) {
	r := NewRect(0, 0, 100, 60)
	first, second := r.Split(true, 0.5, 0)
	require.Equal(t, NewRect(0, 0, 50, 60), first)
	require.Equal(t, NewRect(50, 0, 50, 60), second)
}

func TestSplitHorizontalWithGap(t *testing.T) {
	r := NewRect(0, 0, 100, 60)
	first, second := r.Split(false, 0.5, 4)
	require.Equal(t, NewRect(0, 0, 100, 28), first)
	require.Equal(t, NewRect(0, 32, 100, 28), second)
	// the panes plus the gap tile the region exactly
	require.Equal(t, int(r.H), int(first.H)+int(second.H)+4)
}

func TestSplitRatio(t *testing.T) {
	r := NewRect(0, 0, 1000, 100)
	first, second := r.Split(true, 0.3, 0)
	require.Equal(t, uint16(300), first.W)
	require.Equal(t, uint16(700), second.W)
	require.Equal(t, int16(300), second.X)
}

func TestReposition(t *testing.T) {
	old := NewRect(0, 0, 1000, 500)
	updated := NewRect(1000, 0, 2000, 1000)
	r := NewRect(100, 50, 300, 200)
	moved := r.Reposition(old, updated)
	require.Equal(t, int16(1200), moved.X)
	require.Equal(t, int16(100), moved.Y)
	// size is preserved
	require.Equal(t, uint16(300), moved.W)
	require.Equal(t, uint16(200), moved.H)
}

func TestShrink(t *testing.T) {
	r := NewRect(0, 0, 100, 100)
	require.Equal(t, NewRect(8, 8, 84, 84), r.Shrink(8, 8, 8, 8))
	// shrinking below zero clamps to a unit size
	tiny := r.Shrink(60, 60, 60, 60)
	require.Equal(t, uint16(1), tiny.W)
}
