package wm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwm-x11/cwm/internal/geom"
	"github.com/cwm-x11/cwm/internal/ipc"
)

func treeShape(tag *Tag, node int) string {
	n := &tag.nodes[node]
	switch n.kind {
	case nodeLeaf:
		return "L"
	case nodeInner:
		s := "H"
		if n.split == SplitVertical {
			s = "V"
		}
		return "(" + s + treeShape(tag, n.first) + treeShape(tag, n.second) + ")"
	default:
		return "E"
	}
}

// treeSig is treeShape with leaf identity, distinguishing layouts that
// differ only by which client sits where.
func treeSig(tag *Tag, node int) string {
	n := &tag.nodes[node]
	switch n.kind {
	case nodeLeaf:
		return fmt.Sprintf("%d", n.client)
	case nodeInner:
		s := "H"
		if n.split == SplitVertical {
			s = "V"
		}
		return "(" + s + treeSig(tag, n.first) + treeSig(tag, n.second) + ")"
	default:
		return "E"
	}
}

func TestSplitOrientationFollowsAspect(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, _ := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	// 1904x1064 region is wider than tall: vertical split
	require.Equal(t, "(VLL)", treeShape(tag, 0))

	// each pane is taller than wide now, so a third client splits
	// horizontally under whichever leaf holds focus
	mapWindow(t, manager, dpy, WindowProps{Name: "c"})
	require.Contains(t, []string{"(VL(HLL))", "(V(HLL)L)"}, treeShape(tag, 0))
}

func TestAbsentPropagation(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})
	_, _, c := mapWindow(t, manager, dpy, WindowProps{Name: "c"})

	// hide two of three: the shared inner node may become absent but the
	// root must not while one leaf remains
	tag.setHidden(&manager.aux, b, setBool(true))
	tag.setHidden(&manager.aux, c, setBool(true))
	checkInvariants(t, tag)
	require.False(t, tag.nodes[0].absent)
	require.Equal(t, geom.NewRect(8, 8, 1904, 1064), tag.clientRect(a))

	tag.setHidden(&manager.aux, a, setBool(true))
	require.True(t, tag.nodes[0].absent)
	checkInvariants(t, tag)
}

func TestRemoveLeafHoistsSibling(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, _ := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})
	mapWindow(t, manager, dpy, WindowProps{Name: "c"})

	manager.unmanageClient(tag.ID, b, true)
	require.Equal(t, "(VLL)", treeShape(tag, 0))
	checkInvariants(t, tag)
}

func TestRotateFourCycle(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, _ := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	mapWindow(t, manager, dpy, WindowProps{Name: "b"})
	mapWindow(t, manager, dpy, WindowProps{Name: "c"})

	start := treeSig(tag, 0)
	seen := map[string]struct{}{start: {}}
	for i := 0; i < 3; i++ {
		tag.rotate(&manager.aux, 0, false)
		seen[treeSig(tag, 0)] = struct{}{}
		checkInvariants(t, tag)
	}
	tag.rotate(&manager.aux, 0, false)
	require.Equal(t, start, treeSig(tag, 0))
	require.Len(t, seen, 4)

	// reverse undoes forward
	tag.rotate(&manager.aux, 0, false)
	tag.rotate(&manager.aux, 0, true)
	require.Equal(t, start, treeSig(tag, 0))
}

func TestResizeAdjustsRatioAndClamps(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	widthBefore := tag.clientRect(a).W
	tag.resizeClient(&manager.aux, a, 40, 0, false, false)
	require.InDelta(t, int(widthBefore)+40, int(tag.clientRect(a).W), 2)

	// no drag distance may push the ratio out of bounds
	tag.resizeClient(&manager.aux, a, 30000, 0, false, false)
	root := &tag.nodes[0]
	require.LessOrEqual(t, root.ratio, float32(splitMax))
	tag.resizeClient(&manager.aux, a, -30000, 0, false, false)
	require.GreaterOrEqual(t, root.ratio, float32(splitMin))
	checkInvariants(t, tag)
}

func TestFloatingResizeRespectsSizeHints(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{
		Name:    "a",
		MinSize: [2]uint16{100, 80},
		MaxSize: [2]uint16{800, 600},
	})
	tag.setFloating(&manager.aux, a, setBool(true))

	tag.resizeClient(&manager.aux, a, 5000, 5000, false, false)
	n := &tag.nodes[tag.clients[a].node]
	require.Equal(t, uint16(800), n.floating.W)
	require.Equal(t, uint16(600), n.floating.H)

	tag.resizeClient(&manager.aux, a, -5000, -5000, false, false)
	require.Equal(t, uint16(100), n.floating.W)
	require.Equal(t, uint16(80), n.floating.H)
}

func TestNeighbourSearch(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})
	_, _, c := mapWindow(t, manager, dpy, WindowProps{Name: "c"})

	// layout is a | (b over c) or a | (c over b) depending on focus
	require.Equal(t, -1, tag.neighbour(a, ipc.Left))
	right := tag.neighbour(a, ipc.Right)
	require.Contains(t, []int{b, c}, right)
	// the most recently focused candidate wins
	require.Equal(t, tag.FocusedClient(), right)

	require.Equal(t, a, tag.neighbour(b, ipc.Left))
	require.Equal(t, a, tag.neighbour(c, ipc.Left))
}

func TestMonocleGivesEveryoneTheFullRect(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	require.True(t, tag.setMonocle(&manager.aux, setBool(true)))
	full := geom.NewRect(8, 8, 1904, 1064)
	require.Equal(t, full, tag.clientRect(a))
	require.Equal(t, full, tag.clientRect(b))

	// clearing restores the split
	require.True(t, tag.setMonocle(&manager.aux, setBool(false)))
	require.NotEqual(t, tag.clientRect(a), tag.clientRect(b))
	checkInvariants(t, tag)
}

func TestPreselConsumedOnInsert(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, c := mapWindow(t, manager, dpy, WindowProps{Name: "c"})

	manager.selectClient(tag, c)
	manager.selectDir(ipc.Right)
	require.Equal(t, selPresel, manager.sel.kind)
	require.Equal(t, tag.clients[c].node, manager.sel.node)

	_, _, d := mapWindow(t, manager, dpy, WindowProps{Name: "d"})
	require.Equal(t, "(VLL)", treeShape(tag, 0))
	root := &tag.nodes[0]
	require.Equal(t, SplitVertical, root.split)
	require.InDelta(t, 0.5, root.ratio, 0.001)
	// d sits on c's right
	require.Greater(t, tag.clientRect(d).X, tag.clientRect(c).X)
	// the preselection was consumed
	require.Equal(t, selNone, manager.sel.kind)
	checkInvariants(t, tag)
}

func TestSwapLeavesExchangesRects(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	ra, rb := tag.clientRect(a), tag.clientRect(b)
	manager.moveWindow(tag, a, ipc.Right, 10)
	require.Equal(t, rb, tag.clientRect(a))
	require.Equal(t, ra, tag.clientRect(b))
	checkInvariants(t, tag)
}
