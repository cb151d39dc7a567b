package stack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushAndIterate(t *testing.T) {
	s := New[string]()
	s.PushBack("b")
	s.PushFront("a")
	s.PushBack("c")

	require.Equal(t, 3, s.Len())
	require.Equal(t, []string{"a", "b", "c"}, s.Items())

	var backward []string
	s.DoBackward(func(v string) { backward = append(backward, v) })
	require.Equal(t, []string{"c", "b", "a"}, backward)
}

func TestHandlesStayStableAcrossChurn(t *testing.T) {
	s := New[int]()
	h1 := s.PushBack(1)
	h2 := s.PushBack(2)
	h3 := s.PushBack(3)

	s.Remove(h2)
	// h1 and h3 survive the removal untouched
	v, ok := s.Get(h1)
	require.True(t, ok)
	require.Equal(t, 1, v)
	v, ok = s.Get(h3)
	require.True(t, ok)
	require.Equal(t, 3, v)

	// the freed slot is recycled without invalidating live handles
	h4 := s.PushFront(4)
	require.Equal(t, h2, h4)
	require.Equal(t, []int{4, 1, 3}, s.Items())
}

func TestRemoveEnds(t *testing.T) {
	s := New[int]()
	h1 := s.PushBack(1)
	h2 := s.PushBack(2)

	s.Remove(h1)
	front, ok := s.Front()
	require.True(t, ok)
	require.Equal(t, 2, front)

	s.Remove(h2)
	_, ok = s.Front()
	require.False(t, ok)
	require.Equal(t, 0, s.Len())
	require.Equal(t, None, s.FrontHandle())
	require.Equal(t, None, s.BackHandle())
}

func TestMoveFrontBack(t *testing.T) {
	s := New[int]()
	h1 := s.PushBack(1)
	s.PushBack(2)
	h3 := s.PushBack(3)

	s.MoveFront(h3)
	require.Equal(t, []int{3, 1, 2}, s.Items())
	s.MoveBack(h1)
	require.Equal(t, []int{3, 2, 1}, s.Items())
}

func TestRemoveDeadHandleIsNoop(t *testing.T) {
	s := New[int]()
	h := s.PushBack(1)
	s.Remove(h)
	s.Remove(h)
	s.Remove(None)
	require.Equal(t, 0, s.Len())
}
