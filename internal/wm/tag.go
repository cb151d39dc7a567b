package wm

import (
	"fmt"

	"github.com/cwm-x11/cwm/internal/config"
	"github.com/cwm-x11/cwm/internal/geom"
	"github.com/cwm-x11/cwm/internal/ipc"
	"github.com/cwm-x11/cwm/internal/stack"
)

// Tag owns one group of clients: their BSP tree, stacking layers, focus
// stack and hidden queue. At most one monitor displays a tag at a time.
type Tag struct {
	ID   Atom
	Name string
	temp bool

	nodes       []Node
	freeNodes   []int
	clients     []Client
	freeClients []int

	focus        *stack.Stack[int]
	hiddenQ      *stack.Stack[int]
	urgent       map[int]struct{}
	pseudoUrgent map[int]struct{}
	layers       [layerCount]LayerSlot

	tiling  geom.Rect
	total   geom.Rect
	monitor Atom
	monocle bool
}

func newTag(id Atom, name string, temp bool) *Tag {
	t := &Tag{
		ID:           id,
		Name:         name,
		temp:         temp,
		nodes:        []Node{{kind: nodeEmpty, parent: -1}},
		focus:        stack.New[int](),
		hiddenQ:      stack.New[int](),
		urgent:       make(map[int]struct{}),
		pseudoUrgent: make(map[int]struct{}),
	}
	for i := range t.layers {
		t.layers[i] = newLayerSlot(i%subCount == subFullscreen)
	}
	return t
}

// Empty reports whether the tag holds no clients.
func (t *Tag) Empty() bool {
	return len(t.clients) == len(t.freeClients)
}

// Urgent reports whether any client demands attention.
func (t *Tag) Urgent() bool {
	return len(t.urgent) > 0 || len(t.pseudoUrgent) > 0
}

// FocusedClient returns the index of the focused client, or -1.
func (t *Tag) FocusedClient() int {
	if c, ok := t.focus.Front(); ok {
		return c
	}
	return -1
}

// Client returns the client at idx.
func (t *Tag) Client(idx int) *Client {
	return &t.clients[idx]
}

func (t *Tag) liveClients() []int {
	out := make([]int, 0, len(t.clients))
	for i := range t.clients {
		if t.clients[i].live {
			out = append(out, i)
		}
	}
	return out
}

// setMonitor attaches the tag to a monitor, rescaling all client
// geometry from the previous frame into the monitor's.
func (t *Tag) setMonitor(x *Aux, mon *Monitor) {
	if mon.focusedTag == t.ID {
		return
	}
	available := tilingRegion(mon.freeRect(), x.Theme)
	oldTotal := t.total
	t.monitor = mon.ID
	mon.prevTag = mon.focusedTag
	mon.focusedTag = t.ID
	t.total = mon.rect
	t.tiling = available
	t.resizeAll(x, available, oldTotal)
	for _, id := range t.liveClients() {
		if !t.clients[id].Flags.Hidden {
			t.showClient(x, id)
		}
	}
	name := t.focusedName()
	t.setActiveWindow(name, x.Hooks)
}

// hide detaches the tag from its monitor and unmaps every visible client.
func (t *Tag) hide(x *Aux) {
	t.monitor = 0
	for _, id := range t.liveClients() {
		if !t.clients[id].Flags.Hidden {
			t.hideClient(x, id)
		}
	}
}

func (t *Tag) focusedName() *string {
	if c, ok := t.focus.Front(); ok {
		if name := t.clients[c].Name; name != "" {
			return &name
		}
	}
	return nil
}

func (t *Tag) setActiveWindow(name *string, hooks *Hooks) {
	if t.monitor != 0 {
		hooks.monitorFocus(t.monitor, name)
	}
}

// tilingRegion shaves the gap and margins off a monitor's free rect.
func tilingRegion(free geom.Rect, theme *config.Theme) geom.Rect {
	return free.Shrink(
		int16(theme.Gap)+theme.MarginLeft,
		int16(theme.Gap)+theme.MarginTop,
		int16(theme.Gap)+theme.MarginRight,
		int16(theme.Gap)+theme.MarginBottom,
	)
}

// setTilingRect applies a changed tiling region to the whole tree.
func (t *Tag) setTilingRect(x *Aux, free geom.Rect) {
	tiling := tilingRegion(free, x.Theme)
	if tiling == t.tiling {
		return
	}
	t.tiling = tiling
	t.nodes[0].rect = tiling
	t.resizeTiledFrom(x, 0)
}

// setMonocle switches the tag-wide monocle mode.
func (t *Tag) setMonocle(x *Aux, arg ipc.SetArg[bool]) bool {
	if !ipc.ApplyFlag(arg, &t.monocle) {
		return false
	}
	t.nodes[0].rect = t.tiling
	t.resizeTiledFrom(x, 0)
	return true
}

// tempTagName produces the generated name for the nth temp tag.
func tempTagName(n int) string {
	return fmt.Sprintf("temp_%d", n)
}
