package wm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnmapNotifyCountsDownBeforeUnmanaging(t *testing.T) {
	manager, dpy := newTestWM(t)
	win, tag, idx := mapWindow(t, manager, dpy, WindowProps{Name: "a"})

	// our own hide produces one pending unmap
	tag.setHidden(&manager.aux, idx, setBool(true))
	require.Equal(t, 1, tag.clients[idx].ignoreUnmaps)

	manager.handleEvent(UnmapNotifyEvent{Win: win})
	require.True(t, tag.clients[idx].live, "self-inflicted unmap must not unmanage")
	require.Equal(t, 0, tag.clients[idx].ignoreUnmaps)

	// a second unmap is the client withdrawing itself
	manager.handleEvent(UnmapNotifyEvent{Win: win})
	require.False(t, tag.clients[idx].live)
	_, ok := manager.windows[win]
	require.False(t, ok)
}

func TestEnterNotifyFocuses(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})
	require.Equal(t, b, tag.FocusedClient())

	manager.handleEvent(EnterNotifyEvent{Win: tag.clients[a].Frame})
	require.Equal(t, a, tag.FocusedClient())
	require.Equal(t, tag.clients[a].Win, dpy.focus)
}

func TestEnterNotifyGatedByPendingUnmaps(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	_, _, b := mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	tag.clients[a].ignoreUnmaps = 1
	manager.handleEvent(EnterNotifyEvent{Win: tag.clients[a].Frame})
	require.Equal(t, b, tag.FocusedClient(), "gated enter must not refocus")
}

func TestDestroyNotifyUnmanages(t *testing.T) {
	manager, dpy := newTestWM(t)
	win, tag, idx := mapWindow(t, manager, dpy, WindowProps{Name: "a"})

	manager.handleEvent(DestroyNotifyEvent{Win: win})
	require.False(t, tag.clients[idx].live)
	_, ok := manager.windows[win]
	require.False(t, ok)
	// stale follow-up events for the same window drop silently
	manager.handleEvent(PropertyNotifyEvent{Win: win, Atom: manager.atoms.wmName})
	manager.handleEvent(DestroyNotifyEvent{Win: win})
}

func TestDragResizeViaMotion(t *testing.T) {
	manager, dpy := newTestWM(t)
	winA, tag, a := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	widthBefore := tag.clientRect(a).W
	// mod+button3 in a's right half starts a right/bottom resize
	rect := tag.clientRect(a)
	manager.handleEvent(ButtonPressEvent{
		Child: winA, Button: 3, State: modMask1,
		X: rect.X + int16(rect.W) - 10, Y: rect.Y + int16(rect.H) - 10,
	})
	require.Equal(t, byte(3), manager.drag.button)
	require.False(t, manager.drag.left)
	require.False(t, manager.drag.top)

	manager.handleEvent(MotionEvent{X: rect.X + int16(rect.W) + 30, Y: rect.Y + int16(rect.H) - 10})
	require.InDelta(t, int(widthBefore)+40, int(tag.clientRect(a).W), 45)
	require.Greater(t, tag.clientRect(a).W, widthBefore)

	manager.handleEvent(ButtonReleaseEvent{Button: 3})
	require.Equal(t, byte(0), manager.drag.button)
}

func TestClientMessageFullscreenToggle(t *testing.T) {
	manager, dpy := newTestWM(t)
	win, tag, idx := mapWindow(t, manager, dpy, WindowProps{Name: "a"})

	msg := ClientMessageEvent{
		Win:  win,
		Type: manager.atoms.netWmState,
		Data: [5]uint32{netWmStateToggle, manager.atoms.fullscreen, 0, 0, 0},
	}
	manager.handleEvent(msg)
	require.True(t, tag.clients[idx].Flags.Fullscreen)
	require.Equal(t, tag.total, tag.clientRect(idx))
	manager.handleEvent(msg)
	require.False(t, tag.clients[idx].Flags.Fullscreen)
	checkInvariants(t, tag)
}

func TestDemandsAttentionSetsPseudoUrgent(t *testing.T) {
	manager, dpy := newTestWM(t)
	win, tag, idx := mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	mapWindow(t, manager, dpy, WindowProps{Name: "b"})

	// an unfocused client demanding attention becomes pseudo-urgent
	require.NotEqual(t, idx, tag.FocusedClient())
	manager.handleEvent(ClientMessageEvent{
		Win:  win,
		Type: manager.atoms.activeWindow,
	})
	require.True(t, tag.clients[idx].Flags.PseudoUrgent)
	require.True(t, tag.Urgent())

	// focusing it clears the flag
	tag.focusClient(&manager.aux, idx)
	require.False(t, tag.clients[idx].Flags.PseudoUrgent)
	require.False(t, tag.Urgent())
}
