package wm

import (
	"github.com/cwm-x11/cwm/internal/ipc"
	"github.com/cwm-x11/cwm/internal/stack"
)

// The layer table has 9 slots: three user bands (below, normal, above)
// times three content layers (tiling, floating, fullscreen). The table
// collapses to a single X11 stacking order; every layer change costs one
// ConfigureWindow with a sibling and a stack mode.
const (
	subTiling     = 0
	subFloating   = 1
	subFullscreen = 2
	subCount      = 3
	layerCount    = 9
)

// LayerSlot is one cell of the table. Fullscreen slots hold at most one
// occupant; tiling and floating slots keep a stack in front-to-back
// order (front = top of the on-screen stack).
type LayerSlot struct {
	single bool
	occ    int
	st     *stack.Stack[int]
}

func newLayerSlot(single bool) LayerSlot {
	if single {
		return LayerSlot{single: true, occ: -1}
	}
	return LayerSlot{st: stack.New[int]()}
}

// push inserts a client at the front or back of the slot, returning the
// evicted occupant of a single slot (or -1).
func (s *LayerSlot) push(client int, front bool) (stack.Handle, int) {
	if s.single {
		old := s.occ
		s.occ = client
		return stack.None, old
	}
	if front {
		return s.st.PushFront(client), -1
	}
	return s.st.PushBack(client), -1
}

func (s *LayerSlot) remove(client int, pos stack.Handle) {
	if s.single {
		if s.occ == client {
			s.occ = -1
		}
		return
	}
	s.st.Remove(pos)
}

func (s *LayerSlot) frontMost(skip int) int {
	if s.single {
		if s.occ != skip {
			return s.occ
		}
		return -1
	}
	out := -1
	s.st.Do(func(c int) {
		if out < 0 && c != skip {
			out = c
		}
	})
	return out
}

func (s *LayerSlot) backMost(skip int) int {
	if s.single {
		if s.occ != skip {
			return s.occ
		}
		return -1
	}
	out := -1
	s.st.DoBackward(func(c int) {
		if out < 0 && c != skip {
			out = c
		}
	})
	return out
}

func (s *LayerSlot) members() []int {
	if s.single {
		if s.occ >= 0 {
			return []int{s.occ}
		}
		return nil
	}
	return s.st.Items()
}

// layerIndex maps a user band and a flag set to a table slot.
func layerIndex(band ipc.StackLayer, f Flags) int {
	return band.Index()*subCount + f.contentLayer()
}

// boundAbove finds the client to slide under: the back-most member of
// the nearest non-empty slot at or above from, ignoring self.
func (t *Tag) boundAbove(from, self int) int {
	for l := from; l < layerCount; l++ {
		if c := t.layers[l].backMost(self); c >= 0 {
			return c
		}
	}
	return -1
}

// boundBelow finds the client to sit on top of: the front-most member of
// the nearest non-empty slot below from, ignoring self.
func (t *Tag) boundBelow(from, self int) int {
	for l := from - 1; l >= 0; l-- {
		if c := t.layers[l].frontMost(self); c >= 0 {
			return c
		}
	}
	return -1
}

// setLayer inserts the client into its slot and emits the one configure
// that places it in the X11 stack. A fullscreen occupant evicted from a
// single slot drops its fullscreen flag and is restacked recursively.
func (t *Tag) setLayer(x *Aux, idx int, focus bool) {
	c := &t.clients[idx]
	layer := layerIndex(c.Layer, c.Flags)
	pos, evicted := t.layers[layer].push(idx, focus)
	c.layerIdx = layer
	c.layerPos = pos

	searchFrom := layer
	if focus {
		searchFrom = layer + 1
	}
	var sibling WinID
	mode := StackAbove
	if above := t.boundAbove(searchFrom, idx); above >= 0 {
		sibling = t.clients[above].Frame
		mode = StackBelow
	} else if below := t.boundBelow(layer, idx); below >= 0 {
		sibling = t.clients[below].Frame
		mode = StackAbove
	}
	t.applyPosSizeStacked(x, idx, sibling, &mode)

	if evicted >= 0 && evicted != idx {
		e := &t.clients[evicted]
		e.Flags.Fullscreen = false
		if !e.Flags.Floating {
			t.setAbsent(x, evicted, e.Flags.Absent())
		}
		t.setLayer(x, evicted, true)
	}
}

// switchLayer moves a client between slots after a flag change, updating
// tree absence when it crosses the tiling boundary.
func (t *Tag) switchLayer(x *Aux, idx int) {
	c := &t.clients[idx]
	if c.Flags.Hidden {
		// hidden clients sit outside the layer table; the new slot is
		// applied when they come back
		return
	}
	wasTiling := c.layerIdx%subCount == subTiling
	t.layers[c.layerIdx].remove(idx, c.layerPos)
	isTiling := c.Flags.contentLayer() == subTiling
	switch {
	case !wasTiling && isTiling:
		t.setAbsent(x, idx, c.Flags.Absent())
	case wasTiling && !isTiling:
		t.setAbsent(x, idx, true)
	}
	t.setLayer(x, idx, true)
}

// viewLayers snapshots the window ids in each slot, front to back.
func (t *Tag) viewLayers() [9][]uint32 {
	var out [9][]uint32
	for i := range t.layers {
		for _, c := range t.layers[i].members() {
			out[i] = append(out[i], t.clients[c].Win)
		}
	}
	return out
}
