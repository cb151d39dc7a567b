package wm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwm-x11/cwm/internal/geom"
	"github.com/cwm-x11/cwm/internal/ipc"
)

func TestFocusTagSwitchesAndToggles(t *testing.T) {
	manager, dpy := newTestWM(t)
	mon := manager.monitors[900]
	winA, tagI, _ := mapWindow(t, manager, dpy, WindowProps{Name: "a"})

	tagII := manager.tags[manager.tagOrder[1]]
	one := 1
	manager.focusTag(ipc.FocusTagArg{Tag: ipc.TagSel{Index: &one}})
	require.Equal(t, tagII.ID, mon.focusedTag)
	require.Equal(t, tagI.ID, mon.prevTag)
	// the old tag is hidden and free; its client unmapped
	require.Equal(t, Atom(0), tagI.monitor)
	_, free := manager.freeTags[tagI.ID]
	require.True(t, free)
	require.False(t, dpy.mapped[winA])

	// toggling the focused tag flips back to the previous one
	manager.focusTag(ipc.FocusTagArg{Tag: ipc.TagSel{Index: &one}, Toggle: true})
	require.Equal(t, tagI.ID, mon.focusedTag)
	require.True(t, dpy.mapped[winA])
}

func TestStickyClientMigratesOnTagSwitch(t *testing.T) {
	manager, dpy := newTestWM(t)
	mon := manager.monitors[900]
	winS, tagI, s := mapWindow(t, manager, dpy, WindowProps{Name: "s"})
	manager.setSticky(tagI, s, setBool(true))
	require.Contains(t, mon.sticky, s)

	one := 1
	manager.focusTag(ipc.FocusTagArg{Tag: ipc.TagSel{Index: &one}})
	tagII := manager.tags[mon.focusedTag]
	require.Equal(t, "II", tagII.Name)

	// the sticky client now lives on tag II
	loc := manager.windows[winS]
	require.Equal(t, tagII.ID, loc.Tag)
	c := &tagII.clients[loc.Client]
	require.True(t, c.live)
	require.True(t, c.Flags.Sticky)
	require.Equal(t, nodeLeaf, tagII.nodes[c.node].kind)
	// still registered sticky on the monitor, under its new index
	require.Contains(t, mon.sticky, loc.Client)
	// tag I is hidden and empty of it
	require.Equal(t, Atom(0), tagI.monitor)
	require.True(t, tagI.Empty())
	checkInvariants(t, tagII)
}

func TestMonitorRemovalFreesTagAndDropsSticky(t *testing.T) {
	dpy := newFakeDisplay(
		monitor1080p(900),
		MonitorInfo{ID: 901, Name: "DP-2", Rect: geom.NewRect(1920, 0, 1280, 1024)},
	)
	manager, err := New(dpy, testConfig())
	require.NoError(t, err)
	require.Len(t, manager.monitors, 2)

	mon2 := manager.monitors[901]
	tag2 := manager.tags[mon2.focusedTag]
	manager.focusMonitor(mon2)
	_, _, s := mapWindow(t, manager, dpy, WindowProps{Name: "s"})
	manager.setSticky(tag2, s, setBool(true))

	dpy.monitors = dpy.monitors[:1]
	manager.updateMonitors()

	require.Len(t, manager.monitors, 1)
	require.Equal(t, Atom(0), tag2.monitor)
	_, free := manager.freeTags[tag2.ID]
	require.True(t, free)
	// the client stays on the tag but is no longer sticky
	require.False(t, tag2.clients[s].Flags.Sticky)
}

func TestTempTagCreatedWhenMonitorsOutnumberTags(t *testing.T) {
	cfg := testConfig()
	cfg.Tags = []string{"I"}
	dpy := newFakeDisplay(
		monitor1080p(900),
		MonitorInfo{ID: 901, Name: "DP-2", Rect: geom.NewRect(1920, 0, 1280, 1024)},
	)
	manager, err := New(dpy, cfg)
	require.NoError(t, err)

	mon2 := manager.monitors[901]
	temp := manager.tags[mon2.focusedTag]
	require.NotNil(t, temp)
	require.True(t, temp.temp)
	require.Equal(t, "temp_0", temp.Name)

	// once enough user tags exist and the temp is free, it is reclaimed
	for _, name := range []string{"II", "III"} {
		ok, err := manager.AddTag(name)
		require.NoError(t, err)
		require.True(t, ok)
	}
	var ii Atom
	for id, tg := range manager.tags {
		if tg.Name == "II" {
			ii = id
		}
	}
	manager.setMonitorTag(mon2, ii)
	manager.reclaimTempTags()
	require.NotContains(t, manager.tags, temp.ID)
}

func TestMonitorResizeRescalesFloating(t *testing.T) {
	manager, dpy := newTestWM(t)
	mon := manager.monitors[900]
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	tag.setFloating(&manager.aux, a, setBool(true))
	before := tag.nodes[tag.clients[a].node].floating

	manager.resizeMonitor(mon, geom.NewRect(0, 0, 3840, 2160))
	after := tag.nodes[tag.clients[a].node].floating
	// origin rescaled into the doubled frame, size untouched
	require.InDelta(t, int(before.X)*2, int(after.X), 2)
	require.InDelta(t, int(before.Y)*2, int(after.Y), 2)
	require.Equal(t, before.W, after.W)
	require.Equal(t, before.H, after.H)
	// tiling region follows the new geometry
	require.Equal(t, geom.NewRect(8, 8, 3824, 2144), tag.tiling)
}

func TestPanelStrutsShrinkTiling(t *testing.T) {
	manager, dpy := newTestWM(t)
	mon := manager.monitors[900]
	_, tag, idx := mapWindow(t, manager, dpy, WindowProps{Name: "a"})

	panel := dpy.newWindow()
	dpy.props[panel] = WindowProps{
		Types:  []Atom{manager.atoms.typeDock},
		Struts: Struts{Top: 30},
	}
	manager.manageWindow(panel)
	require.Equal(t, LocPanel, manager.windows[panel].Kind)
	require.Equal(t, geom.NewRect(0, 30, 1920, 1050), mon.freeRect())
	require.Equal(t, geom.NewRect(8, 38, 1904, 1034), tag.clientRect(idx))

	// removing the panel restores the full region
	manager.handleDestroy(panel)
	require.Equal(t, geom.NewRect(8, 8, 1904, 1064), tag.clientRect(idx))
}

func TestTagSwapBetweenMonitors(t *testing.T) {
	dpy := newFakeDisplay(
		monitor1080p(900),
		MonitorInfo{ID: 901, Name: "DP-2", Rect: geom.NewRect(1920, 0, 1920, 1080)},
	)
	manager, err := New(dpy, testConfig())
	require.NoError(t, err)

	mon1 := manager.monitors[900]
	mon2 := manager.monitors[901]
	tag1 := manager.tags[mon1.focusedTag]
	tag2 := manager.tags[mon2.focusedTag]

	// ask mon1 for the tag mon2 is displaying: they swap
	manager.setMonitorTag(mon1, tag2.ID)
	require.Equal(t, tag2.ID, mon1.focusedTag)
	require.Equal(t, tag1.ID, mon2.focusedTag)
	require.Equal(t, mon1.ID, tag2.monitor)
	require.Equal(t, mon2.ID, tag1.monitor)
}
