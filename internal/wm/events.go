package wm

import (
	"github.com/cwm-x11/cwm/internal/ipc"
	"github.com/cwm-x11/cwm/internal/logger"
)

// dragState tracks an in-progress pointer move or resize.
type dragState struct {
	button byte
	tag    Atom
	client int
	prevX  int16
	prevY  int16
	left   bool
	top    bool
}

// handleEvent routes one display event into the model. Stale window
// references drop silently. The tag-state diff runs after every event
// so any change it caused reaches subscribers in the same dispatch.
func (wm *WindowManager) handleEvent(ev Event) {
	defer wm.aux.Hooks.tagStateChanged(wm)
	switch e := ev.(type) {
	case MapRequestEvent:
		wm.manageWindow(e.Win)
	case DestroyNotifyEvent:
		wm.handleDestroy(e.Win)
	case UnmapNotifyEvent:
		wm.handleUnmap(e.Win)
	case ConfigureRequestEvent:
		wm.handleConfigureRequest(e)
	case EnterNotifyEvent:
		wm.handleEnter(e.Win)
	case PropertyNotifyEvent:
		wm.handleProperty(e)
	case ClientMessageEvent:
		wm.handleClientMessage(e)
	case ButtonPressEvent:
		wm.handleButtonPress(e)
	case ButtonReleaseEvent:
		wm.handleButtonRelease(e)
	case MotionEvent:
		wm.handleMotion(e)
	case ScreenChangeEvent:
		wm.updateMonitors()
	}
}

func (wm *WindowManager) handleDestroy(win WinID) {
	loc, ok := wm.windows[win]
	if !ok {
		return
	}
	switch loc.Kind {
	case LocClient:
		wm.unmanageClient(loc.Tag, loc.Client, true)
	case LocPanel:
		if mon := wm.monitors[loc.Mon]; mon != nil {
			delete(wm.windows, win)
			wm.panelUnregister(mon, win)
		}
	case LocDesktop:
		if mon := wm.monitors[loc.Mon]; mon != nil {
			delete(wm.windows, win)
			delete(mon.desktopWins, win)
		}
	}
}

func (wm *WindowManager) handleUnmap(win WinID) {
	loc, ok := wm.windows[win]
	if !ok || loc.Kind != LocClient {
		return
	}
	tag := wm.tags[loc.Tag]
	if tag == nil || !tag.clients[loc.Client].live {
		return
	}
	c := &tag.clients[loc.Client]
	if c.Win != win {
		// frame unmaps are ours
		return
	}
	if c.ignoreUnmaps > 0 {
		c.ignoreUnmaps--
		return
	}
	wm.unmanageClient(loc.Tag, loc.Client, false)
}

func (wm *WindowManager) handleConfigureRequest(e ConfigureRequestEvent) {
	loc, ok := wm.windows[e.Win]
	if !ok {
		// unmanaged windows get what they asked for
		r := e.Rect
		bw := e.BorderWidth
		wm.aux.Dpy.Configure(e.Win, WinChanges{Rect: &r, BorderWidth: &bw})
		return
	}
	switch loc.Kind {
	case LocPanel, LocDesktop:
		r := e.Rect
		wm.aux.Dpy.Configure(e.Win, WinChanges{Rect: &r})
	case LocClient:
		// clients do not pick their own geometry; reassert ours
		if tag := wm.tags[loc.Tag]; tag != nil && tag.clients[loc.Client].live {
			tag.applyPosSize(&wm.aux, loc.Client)
		}
	}
}

// handleEnter implements focus-follows-pointer. Enters generated by
// reparent/unmap churn are suppressed through the pending-unmap counter.
func (wm *WindowManager) handleEnter(win WinID) {
	loc, ok := wm.windows[win]
	if !ok {
		return
	}
	switch loc.Kind {
	case LocBackground:
		if mon := wm.monitors[loc.Mon]; mon != nil {
			wm.focusMonitor(mon)
		}
	case LocClient:
		tag := wm.tags[loc.Tag]
		if tag == nil || !tag.clients[loc.Client].live {
			return
		}
		if tag.clients[loc.Client].ignoreUnmaps != 0 {
			return
		}
		if tag.monitor != 0 && tag.monitor != wm.focusedMon {
			if mon := wm.monitors[tag.monitor]; mon != nil {
				wm.focusMonitor(mon)
			}
		}
		tag.focusClient(&wm.aux, loc.Client)
	}
}

func (wm *WindowManager) handleProperty(e PropertyNotifyEvent) {
	loc, ok := wm.windows[e.Win]
	if !ok {
		return
	}
	switch loc.Kind {
	case LocClient:
		wm.clientProperty(loc, e.Atom)
	case LocPanel:
		if e.Atom == wm.atoms.strut || e.Atom == wm.atoms.strutPartial {
			if mon := wm.monitors[loc.Mon]; mon != nil {
				props, err := wm.aux.Dpy.ReadProps(e.Win)
				if err == nil {
					mon.panels[e.Win] = props.Struts
					if tag := wm.tags[mon.focusedTag]; tag != nil {
						tag.setTilingRect(&wm.aux, mon.freeRect())
					}
				}
			}
		}
	}
}

func (wm *WindowManager) clientProperty(loc Location, atom Atom) {
	tag := wm.tags[loc.Tag]
	if tag == nil || !tag.clients[loc.Client].live {
		return
	}
	c := &tag.clients[loc.Client]
	switch atom {
	case wm.atoms.netWmName:
		if name, ok := wm.aux.Dpy.WindowName(c.Win, true); ok {
			c.netName = true
			c.Name = name
			wm.announceNameChange(tag, loc.Client)
		}
	case wm.atoms.wmName:
		if c.netName {
			return
		}
		if name, ok := wm.aux.Dpy.WindowName(c.Win, false); ok {
			c.Name = name
			wm.announceNameChange(tag, loc.Client)
		}
	case wm.atoms.wmHints:
		if tag.setUrgent(loc.Client, wm.aux.Dpy.WindowUrgent(c.Win)) {
			wm.aux.Hooks.tagStateChanged(wm)
		}
	}
}

func (wm *WindowManager) announceNameChange(tag *Tag, idx int) {
	if front, ok := tag.focus.Front(); ok && front == idx {
		name := tag.clients[idx].Name
		var ptr *string
		if name != "" {
			ptr = &name
		}
		tag.setActiveWindow(ptr, wm.aux.Hooks)
	}
}

const (
	netWmStateRemove = 0
	netWmStateAdd    = 1
	netWmStateToggle = 2
)

func (wm *WindowManager) handleClientMessage(e ClientMessageEvent) {
	loc, ok := wm.windows[e.Win]
	if !ok || loc.Kind != LocClient {
		return
	}
	tag := wm.tags[loc.Tag]
	if tag == nil || !tag.clients[loc.Client].live {
		return
	}
	switch e.Type {
	case wm.atoms.netWmState:
		action := e.Data[0]
		for _, prop := range []uint32{e.Data[1], e.Data[2]} {
			switch prop {
			case wm.atoms.fullscreen:
				switch action {
				case netWmStateAdd:
					tag.setFullscreen(&wm.aux, loc.Client, setBool(true))
				case netWmStateRemove:
					tag.setFullscreen(&wm.aux, loc.Client, setBool(false))
				case netWmStateToggle:
					tag.setFullscreen(&wm.aux, loc.Client, toggleBool())
				}
			case wm.atoms.demandsAttention:
				if action != netWmStateRemove && tag.setPseudoUrgent(loc.Client) {
					wm.aux.Hooks.tagStateChanged(wm)
				}
			}
		}
	case wm.atoms.activeWindow:
		if tag.setPseudoUrgent(loc.Client) {
			wm.aux.Hooks.tagStateChanged(wm)
		}
	}
}

func (wm *WindowManager) handleButtonPress(e ButtonPressEvent) {
	if e.Child == 0 || wm.drag.button != 0 {
		wm.aux.Dpy.ReplayPointer()
		return
	}
	loc, ok := wm.windows[e.Child]
	if !ok || loc.Kind != LocClient {
		wm.aux.Dpy.ReplayPointer()
		return
	}
	tag := wm.tags[loc.Tag]
	if tag == nil || !tag.clients[loc.Client].live {
		wm.aux.Dpy.ReplayPointer()
		return
	}
	modHeld := e.State&modMask1 != 0

	if e.Button == 1 && !modHeld {
		// click to raise and focus
		tag.switchLayer(&wm.aux, loc.Client)
		tag.focusClient(&wm.aux, loc.Client)
		wm.aux.Dpy.ReplayPointer()
		return
	}
	switch e.Button {
	case 1:
		wm.drag = dragState{button: 1, tag: loc.Tag, client: loc.Client, prevX: e.X, prevY: e.Y}
	case 3:
		rect := tag.clientRect(loc.Client)
		cx, cy := rect.Center()
		wm.drag = dragState{
			button: 3, tag: loc.Tag, client: loc.Client,
			prevX: e.X, prevY: e.Y,
			left: cx > e.X, top: cy > e.Y,
		}
	default:
		wm.aux.Dpy.ReplayPointer()
		return
	}
	if err := wm.aux.Dpy.GrabPointer(); err != nil {
		logger.WithComponent("events").Warn().Err(err).Msg("drag grab failed")
		wm.drag = dragState{}
	}
}

func (wm *WindowManager) handleMotion(e MotionEvent) {
	if wm.drag.button == 0 {
		return
	}
	tag := wm.tags[wm.drag.tag]
	if tag == nil || !tag.clients[wm.drag.client].live {
		wm.drag = dragState{}
		wm.aux.Dpy.UngrabPointer()
		return
	}
	dx := e.X - wm.drag.prevX
	dy := e.Y - wm.drag.prevY
	switch wm.drag.button {
	case 1:
		tag.moveClient(&wm.aux, wm.drag.client, dx, dy, e.X, e.Y)
	case 3:
		tag.resizeClient(&wm.aux, wm.drag.client, dx, dy, wm.drag.left, wm.drag.top)
	}
	wm.drag.prevX = e.X
	wm.drag.prevY = e.Y
}

func (wm *WindowManager) handleButtonRelease(e ButtonReleaseEvent) {
	if e.Button != wm.drag.button {
		return
	}
	wm.drag = dragState{}
	wm.aux.Dpy.UngrabPointer()
}

const modMask1 = 1 << 3 // Mod1 (alt) in the X modifier bitfield

func setBool(v bool) ipc.SetArg[bool] {
	return ipc.SetArg[bool]{Val: v}
}

func toggleBool() ipc.SetArg[bool] {
	return ipc.SetArg[bool]{Val: true, Toggle: true}
}
