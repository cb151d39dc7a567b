package wm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwm-x11/cwm/internal/config"
	"github.com/cwm-x11/cwm/internal/geom"
	"github.com/cwm-x11/cwm/internal/ipc"
)

func testConfig() *config.Config {
	return &config.Config{
		Theme: config.Theme{
			Gap:             4,
			MarginLeft:      4,
			MarginTop:       4,
			MarginRight:     4,
			MarginBottom:    4,
			BorderWidth:     2,
			BorderFocused:   0xFF53A6E1,
			BorderUnfocused: 0xFF2B3339,
			WindowWidth:     600,
			WindowHeight:    400,
			WindowMinWidth:  60,
			WindowMinHeight: 40,
		},
		Tags:     []string{"I", "II", "III"},
		LogLevel: "error",
	}
}

func monitor1080p(id Atom) MonitorInfo {
	return MonitorInfo{ID: id, Name: "DP-1", Rect: geom.NewRect(0, 0, 1920, 1080), Primary: true}
}

func newTestWM(t *testing.T) (*WindowManager, *fakeDisplay) {
	t.Helper()
	dpy := newFakeDisplay(monitor1080p(900))
	manager, err := New(dpy, testConfig())
	require.NoError(t, err)
	return manager, dpy
}

// mapWindow simulates a client asking to be mapped and returns the model
// location.
func mapWindow(t *testing.T, wm *WindowManager, dpy *fakeDisplay, props WindowProps) (WinID, *Tag, int) {
	t.Helper()
	win := dpy.newWindow()
	dpy.props[win] = props
	wm.manageWindow(win)
	loc, ok := wm.windows[win]
	require.True(t, ok, "window was not adopted")
	require.Equal(t, LocClient, loc.Kind)
	tag := wm.tags[loc.Tag]
	require.NotNil(t, tag)
	return win, tag, loc.Client
}

func TestStartupBindsTagToMonitor(t *testing.T) {
	manager, _ := newTestWM(t)

	mon := manager.monitors[900]
	require.NotNil(t, mon)
	tag := manager.tags[mon.focusedTag]
	require.NotNil(t, tag)
	require.Equal(t, "I", tag.Name)
	require.Equal(t, mon.ID, tag.monitor)
	_, free := manager.freeTags[tag.ID]
	require.False(t, free)
}

func TestSingleClientFillsTilingRegion(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, idx := mapWindow(t, manager, dpy, WindowProps{Name: "term"})

	// gap 4 + margin 4 on every side of 1920x1080
	require.Equal(t, geom.NewRect(8, 8, 1904, 1064), tag.clientRect(idx))
}

func TestTwoClientsSplitVertically(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	ra, rb := tag.clientRect(a), tag.clientRect(b)
	require.Equal(t, ra.H, rb.H)
	require.Less(t, ra.X, rb.X)
	// widths halve minus the gap
	require.InDelta(t, 950, int(ra.W), 3)
	require.InDelta(t, 950, int(rb.W), 3)
	checkInvariants(t, tag)
}

func TestFloatingReleasesTilingSpace(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	require.True(t, tag.setFloating(&manager.aux, b, setBool(true)))
	// a expands to the full tiling rect
	require.Equal(t, geom.NewRect(8, 8, 1904, 1064), tag.clientRect(a))
	// layer table: a in [normal,tiling], b in [normal,floating]
	require.Equal(t, []int{a}, tag.layers[subCount*1+subTiling].members())
	require.Equal(t, []int{b}, tag.layers[subCount*1+subFloating].members())
	checkInvariants(t, tag)

	// toggling back restores the split
	require.True(t, tag.setFloating(&manager.aux, b, setBool(false)))
	require.Less(t, tag.clientRect(a).W, uint16(1904))
	checkInvariants(t, tag)
}

func TestSetArgIdempotence(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	// value == current, toggle off: no-op on model and wire
	before := len(dpy.configures)
	require.False(t, tag.setFloating(&manager.aux, b, setBool(false)))
	require.Equal(t, before, len(dpy.configures))

	// toggle twice returns to the start
	require.True(t, tag.setFloating(&manager.aux, b, toggleBool()))
	require.True(t, tag.clients[b].Flags.Floating)
	require.True(t, tag.setFloating(&manager.aux, b, toggleBool()))
	require.False(t, tag.clients[b].Flags.Floating)
	checkInvariants(t, tag)
}

func TestFullscreenEviction(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	require.True(t, tag.setFullscreen(&manager.aux, a, setBool(true)))
	require.True(t, tag.setFullscreen(&manager.aux, b, setBool(true)))
	// the fullscreen slot holds one occupant; a was evicted and dropped
	// its flag
	require.False(t, tag.clients[a].Flags.Fullscreen)
	require.True(t, tag.clients[b].Flags.Fullscreen)
	require.Equal(t, tag.total, tag.clientRect(b))
	checkInvariants(t, tag)
}

func TestHiddenQueueRoundTrip(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	require.True(t, tag.setHidden(&manager.aux, a, setBool(true)))
	require.Equal(t, 1, tag.hiddenQ.Len())
	require.Equal(t, 1, tag.focus.Len())
	// b has the whole region now
	require.Equal(t, geom.NewRect(8, 8, 1904, 1064), tag.clientRect(b))
	checkInvariants(t, tag)

	tag.show(&manager.aux, ipc.ShowAll)
	require.Equal(t, 0, tag.hiddenQ.Len())
	require.Equal(t, 2, tag.focus.Len())
	require.False(t, tag.clients[a].Flags.Hidden)
	checkInvariants(t, tag)
}

func TestCycleNeedsTwoClients(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, _ := mapWindow(t, manager, dpy, WindowProps{Name: "a"})

	require.False(t, tag.cycle(&manager.aux, false))

	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})
	require.Equal(t, b, tag.FocusedClient())
	require.True(t, tag.cycle(&manager.aux, false))
	checkInvariants(t, tag)
}

func TestUnmanageRecyclesSlots(t *testing.T) {
	manager, dpy := newTestWM(t)
	winA, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	manager.unmanageClient(tag.ID, a, true)
	_, ok := manager.windows[winA]
	require.False(t, ok)
	require.Equal(t, b, tag.FocusedClient())
	// b reclaims the whole region
	require.Equal(t, geom.NewRect(8, 8, 1904, 1064), tag.clientRect(b))
	checkInvariants(t, tag)

	// the freed slot is reused
	_, _, c := mapWindow(t, manager, dpy, WindowProps{Name: "c"})
	require.Equal(t, a, c)
}

// checkInvariants asserts the §8 structural invariants on a tag.
func checkInvariants(t *testing.T, tag *Tag) {
	t.Helper()
	for idx := range tag.clients {
		c := &tag.clients[idx]
		if !c.live {
			continue
		}
		n := &tag.nodes[c.node]
		require.Equal(t, nodeLeaf, n.kind, "client %d node is not a leaf", idx)
		require.Equal(t, idx, n.client, "leaf does not point back at client %d", idx)
		require.Equal(t, c.Flags.Absent(), n.absent, "leaf absence mismatch for client %d", idx)
	}
	for i := range tag.nodes {
		n := &tag.nodes[i]
		if n.kind != nodeInner {
			continue
		}
		require.Equal(t, i, tag.nodes[n.first].parent)
		require.Equal(t, i, tag.nodes[n.second].parent)
		require.True(t, tag.nodes[n.first].parentFirst)
		require.False(t, tag.nodes[n.second].parentFirst)
		require.Equal(t,
			tag.nodes[n.first].absent && tag.nodes[n.second].absent,
			n.absent, "inner node %d absence out of sync", i)
		require.GreaterOrEqual(t, n.ratio, float32(splitMin))
		require.LessOrEqual(t, n.ratio, float32(splitMax))
	}
	visible, hidden := 0, 0
	for idx := range tag.clients {
		if !tag.clients[idx].live {
			continue
		}
		if tag.clients[idx].Flags.Hidden {
			hidden++
		} else {
			visible++
		}
	}
	require.Equal(t, visible, tag.focus.Len(), "focus stack does not cover visible clients")
	require.Equal(t, hidden, tag.hiddenQ.Len(), "hidden queue does not cover hidden clients")
}
