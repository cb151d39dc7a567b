package wm

import (
	"github.com/cwm-x11/cwm/internal/geom"
	"github.com/cwm-x11/cwm/internal/ipc"
	"github.com/cwm-x11/cwm/internal/stack"
)

// Flags is the per-client state that drives layout and stacking.
type Flags struct {
	Urgent       bool
	Hidden       bool
	Floating     bool
	Fullscreen   bool
	Sticky       bool
	PseudoUrgent bool
}

// Absent reports whether the client's leaf consumes no tiling space.
func (f Flags) Absent() bool {
	return f.Floating || f.Fullscreen || f.Hidden
}

func (f Flags) contentLayer() int {
	switch {
	case f.Fullscreen:
		return subFullscreen
	case f.Floating:
		return subFloating
	default:
		return subTiling
	}
}

// Client is one managed application window.
type Client struct {
	Win   WinID
	Frame WinID

	Name     string
	netName  bool
	Class    string
	Instance string

	BorderWidth uint16
	Layer       ipc.StackLayer
	lastLayer   ipc.StackLayer

	node      int
	stackPos  stack.Handle
	hiddenPos stack.Handle
	layerIdx  int
	layerPos  stack.Handle

	Flags          Flags
	SupportsDelete bool
	ignoreUnmaps   int

	minSize      [2]uint16
	maxSize      [2]uint16
	floatingRect geom.Rect

	mapped bool
	live   bool
}

func (t *Tag) allocClient(c Client) int {
	if ln := len(t.freeClients); ln > 0 {
		idx := t.freeClients[ln-1]
		t.freeClients = t.freeClients[:ln-1]
		t.clients[idx] = c
		return idx
	}
	t.clients = append(t.clients, c)
	return len(t.clients) - 1
}

// applyPosSize configures the client's frame and window from its
// effective rect and border, leaving the stacking order alone.
func (t *Tag) applyPosSize(x *Aux, idx int) {
	t.applyPosSizeStacked(x, idx, 0, nil)
}

// applyPosSizeStacked is applyPosSize plus a stacking position, all in a
// single ConfigureWindow on the frame. A nil mode leaves stacking alone;
// a non-nil mode with no sibling stacks against the whole hierarchy.
func (t *Tag) applyPosSizeStacked(x *Aux, idx int, sibling WinID, mode *StackMode) {
	c := &t.clients[idx]
	rect := t.clientRect(idx)
	border := c.BorderWidth
	if c.Flags.Fullscreen {
		border = 0
	}
	frameRect := geom.Rect{
		X: rect.X, Y: rect.Y,
		W: shrinkBy(rect.W, border), H: shrinkBy(rect.H, border),
	}
	ch := WinChanges{Rect: &frameRect, BorderWidth: &border}
	if mode != nil {
		ch.Sibling = sibling
		ch.Stack = mode
	}
	x.Dpy.Configure(c.Frame, ch)
	inner := geom.Rect{W: frameRect.W, H: frameRect.H}
	zero := uint16(0)
	x.Dpy.Configure(c.Win, WinChanges{Rect: &inner, BorderWidth: &zero})
}

func shrinkBy(dim, border uint16) uint16 {
	if dim > border*2 {
		return dim - border*2
	}
	return 1
}

// showClient maps the client and marks it Normal per ICCCM.
func (t *Tag) showClient(x *Aux, idx int) {
	c := &t.clients[idx]
	x.Dpy.SetWMState(c.Win, false)
	x.Dpy.MapWindow(c.Frame)
	x.Dpy.MapWindow(c.Win)
	c.mapped = true
}

// hideClient unmaps the client and marks it Iconic. The pending-unmap
// counter suppresses the UnmapNotify the unmap generates.
func (t *Tag) hideClient(x *Aux, idx int) {
	c := &t.clients[idx]
	if c.mapped {
		c.ignoreUnmaps++
		x.Dpy.UnmapWindow(c.Win)
		x.Dpy.UnmapWindow(c.Frame)
		c.mapped = false
	}
	x.Dpy.SetWMState(c.Win, true)
}

// focusClient moves the client to the front of the focus stack and takes
// X input focus. Hidden clients cannot be focused.
func (t *Tag) focusClient(x *Aux, idx int) {
	c := &t.clients[idx]
	if c.Flags.Hidden {
		return
	}
	if front, ok := t.focus.Front(); ok && front != idx {
		x.Dpy.SetBorderColor(t.clients[front].Frame, x.Theme.BorderUnfocused)
	}
	t.focus.Remove(c.stackPos)
	c.stackPos = t.focus.PushFront(idx)
	x.Dpy.SetInputFocus(c.Win)
	x.Dpy.SetBorderColor(c.Frame, x.Theme.BorderFocused)
	if c.Flags.PseudoUrgent {
		c.Flags.PseudoUrgent = false
		delete(t.pseudoUrgent, idx)
	}
	name := c.Name
	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	t.setActiveWindow(namePtr, x.Hooks)
}

// setFocus focuses the front of the focus stack, or drops X focus to
// POINTER_ROOT when the tag is bare.
func (t *Tag) setFocus(x *Aux) {
	if front, ok := t.focus.Front(); ok {
		t.focusClient(x, front)
		return
	}
	x.Dpy.SetInputFocus(0)
	t.setActiveWindow(nil, x.Hooks)
}

// cycle rotates the focus stack. With fewer than two visible clients it
// is a no-op.
func (t *Tag) cycle(x *Aux, reverse bool) bool {
	if t.focus.Len() < 2 {
		return false
	}
	if reverse {
		h := t.focus.FrontHandle()
		t.focus.MoveBack(h)
	} else {
		h := t.focus.BackHandle()
		t.focus.MoveFront(h)
	}
	t.setFocus(x)
	return true
}

// setFullscreen applies a fullscreen SetArg.
func (t *Tag) setFullscreen(x *Aux, idx int, arg ipc.SetArg[bool]) bool {
	if !ipc.ApplyFlag(arg, &t.clients[idx].Flags.Fullscreen) {
		return false
	}
	t.switchLayer(x, idx)
	return true
}

// setFloating applies a floating SetArg.
func (t *Tag) setFloating(x *Aux, idx int, arg ipc.SetArg[bool]) bool {
	if !ipc.ApplyFlag(arg, &t.clients[idx].Flags.Floating) {
		return false
	}
	t.switchLayer(x, idx)
	return true
}

// setStackLayer applies a user-band SetArg, toggling back to the last
// band.
func (t *Tag) setStackLayer(x *Aux, idx int, arg ipc.SetArg[ipc.StackLayer]) bool {
	c := &t.clients[idx]
	prev := c.Layer
	if !arg.Apply(&c.Layer, c.lastLayer) {
		return false
	}
	c.lastLayer = prev
	t.switchLayer(x, idx)
	return true
}

// setHidden applies a hidden SetArg, moving the client between the focus
// stack and the hidden queue.
func (t *Tag) setHidden(x *Aux, idx int, arg ipc.SetArg[bool]) bool {
	c := &t.clients[idx]
	if !ipc.ApplyFlag(arg, &c.Flags.Hidden) {
		return false
	}
	if c.Flags.Hidden {
		t.focus.Remove(c.stackPos)
		c.stackPos = stack.None
		c.hiddenPos = t.hiddenQ.PushBack(idx)
		t.layers[c.layerIdx].remove(idx, c.layerPos)
		t.setAbsent(x, idx, true)
		t.hideClient(x, idx)
		if t.monitor != 0 {
			t.setFocus(x)
		}
	} else {
		t.hiddenQ.Remove(c.hiddenPos)
		c.hiddenPos = stack.None
		c.stackPos = t.focus.PushFront(idx)
		t.setAbsent(x, idx, c.Flags.Absent())
		t.setLayer(x, idx, true)
		if t.monitor != 0 {
			t.showClient(x, idx)
			t.focusClient(x, idx)
		}
	}
	return true
}

// show restores hidden clients per the requested mode.
func (t *Tag) show(x *Aux, mode ipc.ShowMode) {
	un := ipc.SetArg[bool]{Val: false}
	switch mode {
	case ipc.ShowFirst:
		if idx, ok := t.hiddenQ.Front(); ok {
			t.setHidden(x, idx, un)
		}
	case ipc.ShowLast:
		if idx, ok := t.hiddenQ.Back(); ok {
			t.setHidden(x, idx, un)
		}
	case ipc.ShowAll:
		for {
			idx, ok := t.hiddenQ.Front()
			if !ok {
				break
			}
			t.setHidden(x, idx, un)
		}
	}
}

// setUrgent maintains the urgency set from WM_HINTS changes. Reports
// whether tag state changed.
func (t *Tag) setUrgent(idx int, urgent bool) bool {
	c := &t.clients[idx]
	if c.Flags.Urgent == urgent {
		return false
	}
	c.Flags.Urgent = urgent
	if urgent {
		t.urgent[idx] = struct{}{}
	} else {
		delete(t.urgent, idx)
	}
	return true
}

// setPseudoUrgent flags a client that demanded attention without setting
// WM_HINTS urgency. Cleared on focus.
func (t *Tag) setPseudoUrgent(idx int) bool {
	c := &t.clients[idx]
	if front, ok := t.focus.Front(); ok && front == idx && t.monitor != 0 {
		return false
	}
	if c.Flags.PseudoUrgent {
		return false
	}
	c.Flags.PseudoUrgent = true
	t.pseudoUrgent[idx] = struct{}{}
	return true
}
