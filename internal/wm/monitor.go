package wm

import (
	"github.com/cwm-x11/cwm/internal/geom"
	"github.com/cwm-x11/cwm/internal/logger"
)

// Monitor is one RandR output with exactly one tag displayed on it.
type Monitor struct {
	ID   Atom
	Name string

	rect       geom.Rect
	focusedTag Atom
	prevTag    Atom

	// sticky holds indices into the currently focused tag's client pool;
	// these clients follow the monitor across tag switches.
	sticky map[int]struct{}

	panels      map[WinID]Struts
	desktopWins map[WinID]struct{}
	bg          WinID
	primary     bool
}

// freeRect is the monitor rect minus the space its panels reserve.
func (m *Monitor) freeRect() geom.Rect {
	var s Struts
	for _, p := range m.panels {
		if p.Left > s.Left {
			s.Left = p.Left
		}
		if p.Right > s.Right {
			s.Right = p.Right
		}
		if p.Top > s.Top {
			s.Top = p.Top
		}
		if p.Bottom > s.Bottom {
			s.Bottom = p.Bottom
		}
	}
	return m.rect.Shrink(int16(s.Left), int16(s.Top), int16(s.Right), int16(s.Bottom))
}

// addMonitor binds a tag (free, or freshly created temp) to a new output
// and creates its background window.
func (wm *WindowManager) addMonitor(info MonitorInfo) *Monitor {
	log := logger.WithComponent("monitor")
	mon := &Monitor{
		ID:          info.ID,
		Name:        info.Name,
		rect:        info.Rect,
		sticky:      make(map[int]struct{}),
		panels:      make(map[WinID]Struts),
		desktopWins: make(map[WinID]struct{}),
		primary:     info.Primary,
	}
	bg, err := wm.aux.Dpy.CreateBackground(info.Rect)
	if err != nil {
		log.Error().Err(err).Str("monitor", info.Name).Msg("failed to create background window")
	} else {
		mon.bg = bg
		wm.windows[bg] = Location{Kind: LocBackground, Mon: mon.ID}
	}
	wm.monitors[mon.ID] = mon
	wm.monitorOrder = append(wm.monitorOrder, mon.ID)

	if wm.supportWin == 0 && mon.bg != 0 {
		wm.supportWin = mon.bg
		wm.aux.Dpy.AdvertiseSupport(mon.bg)
	}

	tag := wm.takeFreeTag()
	if tag == 0 {
		tag = wm.createTempTag()
	}
	if wm.focusedMon == 0 || info.Primary {
		wm.focusedMon = mon.ID
		wm.prevMon = mon.ID
	}
	wm.setMonitorTag(mon, tag)
	mon.prevTag = tag
	wm.aux.Hooks.monOpen(mon.ID, mon.Name, mon.bg)
	log.Info().Str("monitor", mon.Name).Uint32("tag", tag).Msg("monitor added")
	return mon
}

// removeMonitor hides the monitor's tag and releases its resources.
// Sticky clients stay on the tag but lose their flag.
func (wm *WindowManager) removeMonitor(mon *Monitor) {
	if tag := wm.tags[mon.focusedTag]; tag != nil {
		for idx := range mon.sticky {
			if tag.clients[idx].live {
				tag.clients[idx].Flags.Sticky = false
			}
		}
		tag.hide(&wm.aux)
		wm.freeTags[tag.ID] = struct{}{}
	}
	for win := range mon.panels {
		delete(wm.windows, win)
	}
	for win := range mon.desktopWins {
		delete(wm.windows, win)
	}
	if mon.bg != 0 {
		delete(wm.windows, mon.bg)
		wm.aux.Dpy.DestroyWindow(mon.bg)
	}
	delete(wm.monitors, mon.ID)
	for i, id := range wm.monitorOrder {
		if id == mon.ID {
			wm.monitorOrder = append(wm.monitorOrder[:i], wm.monitorOrder[i+1:]...)
			break
		}
	}
	if wm.focusedMon == mon.ID {
		wm.focusedMon = 0
		if len(wm.monitorOrder) > 0 {
			wm.focusedMon = wm.monitorOrder[0]
		}
		wm.prevMon = wm.focusedMon
	}
	wm.reclaimTempTags()
	wm.aux.Hooks.monClose(mon.ID, mon.Name)
	wm.aux.Hooks.forgetMonitor(mon.ID)
	wm.aux.Hooks.tagStateChanged(wm)
}

// setMonitorTag displays tagID on mon, swapping tags when the target is
// attached elsewhere and migrating the monitor's sticky clients so they
// stay visible.
func (wm *WindowManager) setMonitorTag(mon *Monitor, tagID Atom) {
	oldID := mon.focusedTag
	if oldID == tagID {
		return
	}
	target := wm.tags[tagID]
	if target == nil {
		return
	}
	oldTag := wm.tags[oldID]

	// Keep this monitor's sticky clients with it.
	if oldTag != nil && len(mon.sticky) > 0 {
		mon.sticky = wm.migrateClients(oldTag, target, mon.sticky)
	}

	if oldTag != nil {
		wm.freeTags[oldID] = struct{}{}
		oldTag.hide(&wm.aux)
		wm.clearSelectionOn(oldID)
	}

	if otherID := target.monitor; otherID != 0 {
		// The target is visible elsewhere: swap, moving the other
		// monitor's sticky clients onto the tag it is about to receive.
		if other := wm.monitors[otherID]; other != nil && oldTag != nil {
			if len(other.sticky) > 0 {
				other.sticky = wm.migrateClients(target, oldTag, other.sticky)
			}
			target.hide(&wm.aux)
			wm.clearSelectionOn(target.ID)
			delete(wm.freeTags, oldID)
			oldTag.setMonitor(&wm.aux, other)
		}
	} else {
		delete(wm.freeTags, tagID)
	}

	target.setMonitor(&wm.aux, mon)
	mon.focusedTag = tagID
	if mon.ID == wm.focusedMon {
		target.setFocus(&wm.aux)
	}
	wm.aux.Hooks.tagStateChanged(wm)
}

// focusMonitor moves monitor focus, remembering the previous monitor for
// toggling.
func (wm *WindowManager) focusMonitor(mon *Monitor) {
	if wm.focusedMon == mon.ID {
		return
	}
	if cur := wm.monitors[wm.focusedMon]; cur != nil {
		if tag := wm.tags[cur.focusedTag]; tag != nil {
			if front, ok := tag.focus.Front(); ok {
				wm.aux.Dpy.SetBorderColor(tag.clients[front].Frame, wm.aux.Theme.BorderUnfocused)
			}
		}
	}
	wm.prevMon = wm.focusedMon
	wm.focusedMon = mon.ID
	if tag := wm.tags[mon.focusedTag]; tag != nil {
		tag.setFocus(&wm.aux)
	}
	wm.aux.Hooks.tagStateChanged(wm)
}

// updateMonitors reconciles the monitor set after a RandR change.
func (wm *WindowManager) updateMonitors() {
	infos, err := wm.aux.Dpy.Monitors()
	if err != nil {
		logger.WithComponent("monitor").Error().Err(err).Msg("failed to enumerate monitors")
		return
	}
	seen := make(map[Atom]struct{}, len(infos))
	for _, info := range infos {
		seen[info.ID] = struct{}{}
		if mon := wm.monitors[info.ID]; mon != nil {
			wm.resizeMonitor(mon, info.Rect)
			continue
		}
		duplicate := false
		for _, other := range wm.monitors {
			if other.rect == info.Rect {
				duplicate = true
				break
			}
		}
		if !duplicate {
			wm.addMonitor(info)
		}
	}
	for _, id := range append([]Atom(nil), wm.monitorOrder...) {
		if _, ok := seen[id]; !ok {
			if mon := wm.monitors[id]; mon != nil {
				wm.removeMonitor(mon)
			}
		}
	}
}

// resizeMonitor applies a new output geometry and relays the tag out.
func (wm *WindowManager) resizeMonitor(mon *Monitor, rect geom.Rect) {
	if mon.rect == rect {
		return
	}
	old := mon.rect
	mon.rect = rect
	if mon.bg != 0 {
		r := rect
		wm.aux.Dpy.Configure(mon.bg, WinChanges{Rect: &r})
	}
	if tag := wm.tags[mon.focusedTag]; tag != nil {
		available := tilingRegion(mon.freeRect(), wm.aux.Theme)
		tag.total = rect
		tag.tiling = available
		tag.resizeAll(&wm.aux, available, geom.Rect{X: old.X, Y: old.Y, W: old.W, H: old.H})
	}
}

// panelRegister adopts a dock window and reserves its struts.
func (wm *WindowManager) panelRegister(mon *Monitor, win WinID, struts Struts) {
	mon.panels[win] = struts
	wm.windows[win] = Location{Kind: LocPanel, Mon: mon.ID}
	wm.aux.Dpy.MapWindow(win)
	if tag := wm.tags[mon.focusedTag]; tag != nil {
		tag.setTilingRect(&wm.aux, mon.freeRect())
	}
}

// panelUnregister releases a dock window's reserved space.
func (wm *WindowManager) panelUnregister(mon *Monitor, win WinID) {
	delete(mon.panels, win)
	if tag := wm.tags[mon.focusedTag]; tag != nil {
		tag.setTilingRect(&wm.aux, mon.freeRect())
	}
}

// desktopWindowRegister keeps a desktop-type window at the bottom of the
// stack.
func (wm *WindowManager) desktopWindowRegister(mon *Monitor, win WinID) {
	mon.desktopWins[win] = struct{}{}
	wm.windows[win] = Location{Kind: LocDesktop, Mon: mon.ID}
	below := StackBelow
	wm.aux.Dpy.Configure(win, WinChanges{Stack: &below})
	wm.aux.Dpy.MapWindow(win)
}
