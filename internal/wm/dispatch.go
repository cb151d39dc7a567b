package wm

import (
	"encoding/json"

	"github.com/cwm-x11/cwm/internal/config"
	"github.com/cwm-x11/cwm/internal/ipc"
	"github.com/cwm-x11/cwm/internal/logger"
)

// resolveMonitor maps a monitor selector to a live monitor, or nil.
func (wm *WindowManager) resolveMonitor(sel ipc.MonSel) *Monitor {
	if sel.ID == nil {
		return wm.monitors[wm.focusedMon]
	}
	return wm.monitors[*sel.ID]
}

// resolveTag maps a tag selector to a live tag, or nil. An empty
// selector resolves to the focused tag.
func (wm *WindowManager) resolveTag(sel ipc.TagSel) *Tag {
	switch {
	case sel.Index != nil:
		if *sel.Index < 0 || *sel.Index >= len(wm.tagOrder) {
			return nil
		}
		return wm.tags[wm.tagOrder[*sel.Index]]
	case sel.Name != nil:
		for _, tag := range wm.tags {
			if tag.Name == *sel.Name {
				return tag
			}
		}
		return nil
	case sel.Focused != nil:
		if mon := wm.resolveMonitor(*sel.Focused); mon != nil {
			return wm.tags[mon.focusedTag]
		}
		return nil
	case sel.Next != nil:
		return wm.cyclicTag(*sel.Next, 1)
	case sel.Prev != nil:
		return wm.cyclicTag(*sel.Prev, -1)
	case sel.Last != nil:
		if mon := wm.resolveMonitor(*sel.Last); mon != nil {
			return wm.tags[mon.prevTag]
		}
		return nil
	default:
		return wm.focusedTag()
	}
}

func (wm *WindowManager) cyclicTag(sel ipc.MonSel, step int) *Tag {
	mon := wm.resolveMonitor(sel)
	if mon == nil || len(wm.tagOrder) == 0 {
		return nil
	}
	pos := -1
	for i, id := range wm.tagOrder {
		if id == mon.focusedTag {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil
	}
	n := len(wm.tagOrder)
	return wm.tags[wm.tagOrder[(pos+step+n)%n]]
}

// resolveClient maps a client selector to its tag and index.
func (wm *WindowManager) resolveClient(sel ipc.ClientSel) (*Tag, int) {
	if sel.Win == nil {
		tag := wm.focusedTag()
		if tag == nil {
			return nil, -1
		}
		if front, ok := tag.focus.Front(); ok {
			return tag, front
		}
		return nil, -1
	}
	loc, ok := wm.windows[*sel.Win]
	if !ok || loc.Kind != LocClient {
		return nil, -1
	}
	tag := wm.tags[loc.Tag]
	if tag == nil || !tag.clients[loc.Client].live {
		return nil, -1
	}
	return tag, loc.Client
}

func decodeInto[T any](data json.RawMessage) (T, bool) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.WithComponent("dispatch").Debug().Err(err).Msg("malformed request payload")
		return v, false
	}
	return v, true
}

func (wm *WindowManager) reply(s Sender, typ string, payload any) {
	if s == nil {
		return
	}
	resp, err := ipc.NewResponse(typ, payload)
	if err != nil {
		return
	}
	_ = s.Send(resp)
}

// Dispatch applies one request to the model. Queries write their reply
// to the originating stream; invalid selectors complete as no-ops. The
// tag-state diff runs after every request so subscribers hear about any
// change in the dispatch that produced it.
func (wm *WindowManager) Dispatch(req ipc.Request, s Sender) {
	defer wm.aux.Hooks.tagStateChanged(wm)
	switch req.Type {
	case ipc.ReqFocusedMonitor:
		wm.reply(s, ipc.RespFocusedMonitor, ipc.FocusedMonitorResp{Mon: wm.focusedMon})

	case ipc.ReqFocusedTag:
		if arg, ok := decodeInto[ipc.MonArg](req.Data); ok {
			if mon := wm.resolveMonitor(arg.Mon); mon != nil {
				if tag := wm.tags[mon.focusedTag]; tag != nil {
					wm.reply(s, ipc.RespFocusedTag, ipc.FocusedTagResp{Atom: tag.ID, Name: tag.Name})
				}
			}
		}

	case ipc.ReqFocusedWindow:
		if arg, ok := decodeInto[ipc.TagArg](req.Data); ok {
			if tag := wm.resolveTag(arg.Tag); tag != nil {
				var win *uint32
				if front, ok := tag.focus.Front(); ok {
					w := tag.clients[front].Win
					win = &w
				}
				wm.reply(s, ipc.RespFocusedWindow, ipc.FocusedWindowResp{Win: win})
			}
		}

	case ipc.ReqMonitorName:
		if arg, ok := decodeInto[ipc.MonArg](req.Data); ok {
			if mon := wm.resolveMonitor(arg.Mon); mon != nil {
				wm.reply(s, ipc.RespMonitorName, ipc.NameResp{Name: mon.Name})
			}
		}

	case ipc.ReqTagName:
		if arg, ok := decodeInto[ipc.TagArg](req.Data); ok {
			if tag := wm.resolveTag(arg.Tag); tag != nil {
				wm.reply(s, ipc.RespTagName, ipc.NameResp{Name: tag.Name})
			}
		}

	case ipc.ReqViewLayers:
		if arg, ok := decodeInto[ipc.TagArg](req.Data); ok {
			if tag := wm.resolveTag(arg.Tag); tag != nil {
				wm.reply(s, ipc.RespViewLayers, ipc.ViewLayersResp{Layers: tag.viewLayers()})
			}
		}

	case ipc.ReqViewStack:
		if arg, ok := decodeInto[ipc.TagArg](req.Data); ok {
			if tag := wm.resolveTag(arg.Tag); tag != nil {
				var wins []uint32
				tag.focus.Do(func(c int) { wins = append(wins, tag.clients[c].Win) })
				wm.reply(s, ipc.RespViewStack, ipc.ViewStackResp{Windows: wins})
			}
		}

	case ipc.ReqViewClients:
		if arg, ok := decodeInto[ipc.TagArg](req.Data); ok {
			if tag := wm.resolveTag(arg.Tag); tag != nil {
				infos := make([]ipc.ClientInfo, 0)
				for _, idx := range tag.liveClients() {
					c := &tag.clients[idx]
					infos = append(infos, ipc.ClientInfo{
						Win:        c.Win,
						Name:       c.Name,
						Class:      c.Class,
						Instance:   c.Instance,
						Layer:      c.Layer,
						Urgent:     c.Flags.Urgent,
						Hidden:     c.Flags.Hidden,
						Floating:   c.Flags.Floating,
						Fullscreen: c.Flags.Fullscreen,
						Sticky:     c.Flags.Sticky,
					})
				}
				wm.reply(s, ipc.RespViewClients, ipc.ViewClientsResp{Clients: infos})
			}
		}

	case ipc.ReqMonitorFocus:
		if arg, ok := decodeInto[ipc.MonArg](req.Data); ok && s != nil {
			if mon := wm.resolveMonitor(arg.Mon); mon != nil {
				wm.aux.Hooks.subscribeMonitorFocus(mon.ID, s)
			}
		}

	case ipc.ReqTagState:
		if s != nil {
			wm.aux.Hooks.subscribeTagState(wm, s)
		}

	case ipc.ReqQuit:
		wm.Quit()

	case ipc.ReqReload:
		wm.reload()

	case ipc.ReqCloseClient:
		if arg, ok := decodeInto[ipc.CloseClientArg](req.Data); ok {
			if tag, idx := wm.resolveClient(arg.Client); tag != nil {
				wm.closeClient(tag, idx, arg.Kill)
			}
		}

	case ipc.ReqSetFullscreen:
		if arg, ok := decodeInto[ipc.ClientFlagArg](req.Data); ok {
			if tag, idx := wm.resolveClient(arg.Client); tag != nil {
				tag.setFullscreen(&wm.aux, idx, arg.Arg)
			}
		}

	case ipc.ReqSetFloating:
		if arg, ok := decodeInto[ipc.ClientFlagArg](req.Data); ok {
			if tag, idx := wm.resolveClient(arg.Client); tag != nil {
				tag.setFloating(&wm.aux, idx, arg.Arg)
			}
		}

	case ipc.ReqSetSticky:
		if arg, ok := decodeInto[ipc.ClientFlagArg](req.Data); ok {
			if tag, idx := wm.resolveClient(arg.Client); tag != nil {
				wm.setSticky(tag, idx, arg.Arg)
			}
		}

	case ipc.ReqSetHidden:
		if arg, ok := decodeInto[ipc.ClientFlagArg](req.Data); ok {
			if tag, idx := wm.resolveClient(arg.Client); tag != nil {
				if tag.setHidden(&wm.aux, idx, arg.Arg) {
					wm.aux.Hooks.tagStateChanged(wm)
				}
			}
		}

	case ipc.ReqSetLayer:
		if arg, ok := decodeInto[ipc.ClientLayerArg](req.Data); ok {
			if tag, idx := wm.resolveClient(arg.Client); tag != nil {
				tag.setStackLayer(&wm.aux, idx, arg.Arg)
			}
		}

	case ipc.ReqSetMonocle:
		if arg, ok := decodeInto[ipc.MonocleArg](req.Data); ok {
			if tag := wm.resolveTag(arg.Tag); tag != nil {
				tag.setMonocle(&wm.aux, arg.Arg)
			}
		}

	case ipc.ReqShow:
		if arg, ok := decodeInto[ipc.ShowArg](req.Data); ok {
			if tag := wm.resolveTag(arg.Tag); tag != nil {
				tag.show(&wm.aux, arg.Mode)
				wm.aux.Hooks.tagStateChanged(wm)
			}
		}

	case ipc.ReqResizeWindow:
		if arg, ok := decodeInto[ipc.ResizeArg](req.Data); ok {
			if tag, idx := wm.resolveClient(arg.Client); tag != nil {
				wm.resizeWindow(tag, idx, arg.Side, arg.Amount)
			}
		}

	case ipc.ReqMoveWindow:
		if arg, ok := decodeInto[ipc.MoveArg](req.Data); ok {
			if tag, idx := wm.resolveClient(arg.Client); tag != nil {
				wm.moveWindow(tag, idx, arg.Side, arg.Amount)
			}
		}

	case ipc.ReqSelectNeighbour:
		if arg, ok := decodeInto[ipc.NeighbourArg](req.Data); ok {
			if tag, idx := wm.resolveClient(arg.Client); tag != nil {
				if other := tag.neighbour(idx, arg.Side); other >= 0 {
					tag.focusClient(&wm.aux, other)
				}
			}
		}

	case ipc.ReqCycleWindow:
		if arg, ok := decodeInto[ipc.CycleArg](req.Data); ok {
			if tag := wm.focusedTag(); tag != nil {
				tag.cycle(&wm.aux, arg.Reverse)
			}
		}

	case ipc.ReqFocusTag:
		if arg, ok := decodeInto[ipc.FocusTagArg](req.Data); ok {
			wm.focusTag(arg)
		}

	case ipc.ReqSetWindowTag:
		if arg, ok := decodeInto[ipc.WindowTagArg](req.Data); ok {
			wm.setWindowTag(arg)
		}

	case ipc.ReqBorderFocused:
		if arg, ok := decodeInto[ipc.ColorArg](req.Data); ok {
			wm.aux.Theme.BorderFocused = ipc.Premultiply(arg.Color)
			wm.repaintBorders()
		}

	case ipc.ReqBorderUnfocused:
		if arg, ok := decodeInto[ipc.ColorArg](req.Data); ok {
			wm.aux.Theme.BorderUnfocused = ipc.Premultiply(arg.Color)
			wm.repaintBorders()
		}

	case ipc.ReqBorderWidth:
		if arg, ok := decodeInto[ipc.WidthArg](req.Data); ok {
			wm.aux.Theme.BorderWidth = arg.Width
			wm.reconfigureAll()
		}

	case ipc.ReqGap:
		if arg, ok := decodeInto[ipc.GapArg](req.Data); ok {
			if wm.aux.Theme.Gap != arg.Gap {
				wm.aux.Theme.Gap = arg.Gap
				wm.retile()
			}
		}

	case ipc.ReqMargin:
		if arg, ok := decodeInto[ipc.MarginArg](req.Data); ok {
			switch arg.Side {
			case ipc.Left:
				wm.aux.Theme.MarginLeft = arg.Amount
			case ipc.Right:
				wm.aux.Theme.MarginRight = arg.Amount
			case ipc.Top:
				wm.aux.Theme.MarginTop = arg.Amount
			case ipc.Bottom:
				wm.aux.Theme.MarginBottom = arg.Amount
			}
			wm.retile()
		}

	case ipc.ReqAddRule:
		if rule, ok := decodeInto[ipc.Rule](req.Data); ok {
			wm.rules = append(wm.rules, rule)
		}

	case ipc.ReqAddTag:
		if arg, ok := decodeInto[ipc.AddTagArg](req.Data); ok && arg.Name != "" {
			wm.AddTag(arg.Name)
			wm.reclaimTempTags()
		}

	case ipc.ReqRemoveTag:
		if arg, ok := decodeInto[ipc.TagArg](req.Data); ok {
			if tag := wm.resolveTag(arg.Tag); tag != nil {
				wm.RemoveTag(tag.ID)
			}
		}

	case ipc.ReqSelect:
		if arg, ok := decodeInto[ipc.ClientArg](req.Data); ok {
			if tag, idx := wm.resolveClient(arg.Client); tag != nil {
				wm.selectClient(tag, idx)
			}
		}

	case ipc.ReqSelectDir:
		if arg, ok := decodeInto[ipc.SideArg](req.Data); ok {
			wm.selectDir(arg.Side)
		}

	case ipc.ReqSelectParent:
		wm.selectParent()

	case ipc.ReqPreselAmt:
		if arg, ok := decodeInto[ipc.RatioArg](req.Data); ok {
			wm.preselAmt(arg.Ratio)
		}

	case ipc.ReqSelectionCancel:
		wm.cancelSelection()

	case ipc.ReqRotate:
		if arg, ok := decodeInto[ipc.RotateArg](req.Data); ok {
			if tag := wm.focusedTag(); tag != nil {
				tag.rotate(&wm.aux, wm.selectedRotationRoot(tag), arg.Reverse)
			}
		}

	default:
		logger.WithComponent("dispatch").Debug().Str("type", req.Type).Msg("unknown request")
	}
}

// setSticky toggles the sticky flag and maintains the monitor's sticky
// set.
func (wm *WindowManager) setSticky(tag *Tag, idx int, arg ipc.SetArg[bool]) {
	c := &tag.clients[idx]
	if !ipc.ApplyFlag(arg, &c.Flags.Sticky) {
		return
	}
	mon := wm.monitors[tag.monitor]
	if mon == nil {
		return
	}
	if c.Flags.Sticky {
		mon.sticky[idx] = struct{}{}
	} else {
		delete(mon.sticky, idx)
	}
}

// resizeWindow converts an edge+amount request into a drag-style resize.
func (wm *WindowManager) resizeWindow(tag *Tag, idx int, side ipc.Side, amount int16) {
	var dx, dy int16
	if side.Vertical() {
		dx = amount
	} else {
		dy = amount
	}
	tag.resizeClient(&wm.aux, idx, dx, dy, side == ipc.Left, side == ipc.Top)
}

// moveWindow shifts a floating client toward a side, or swaps a tiled
// client with its neighbour there.
func (wm *WindowManager) moveWindow(tag *Tag, idx int, side ipc.Side, amount uint16) {
	c := &tag.clients[idx]
	if c.Flags.Fullscreen {
		return
	}
	if c.Flags.Floating {
		var dx, dy int16
		switch side {
		case ipc.Left:
			dx = -int16(amount)
		case ipc.Right:
			dx = int16(amount)
		case ipc.Top:
			dy = -int16(amount)
		case ipc.Bottom:
			dy = int16(amount)
		}
		n := &tag.nodes[c.node]
		n.floating.X += dx
		n.floating.Y += dy
		tag.applyPosSize(&wm.aux, idx)
		return
	}
	if other := tag.neighbour(idx, side); other >= 0 {
		tag.swapLeaves(&wm.aux, idx, other)
	}
}

// focusTag switches a monitor to a tag, toggling back to the previous
// tag when asked for the already-focused one.
func (wm *WindowManager) focusTag(arg ipc.FocusTagArg) {
	mon := wm.resolveMonitor(arg.Mon)
	if mon == nil {
		return
	}
	target := wm.resolveTag(arg.Tag)
	if target == nil {
		return
	}
	id := target.ID
	if id == mon.focusedTag {
		if !arg.Toggle {
			return
		}
		id = mon.prevTag
		if id == 0 || id == mon.focusedTag {
			return
		}
		if wm.tags[id] == nil {
			return
		}
	}
	wm.setMonitorTag(mon, id)
}

// setWindowTag moves a client to a tag; asking for its current tag with
// toggle moves it to the monitor's previous tag instead.
func (wm *WindowManager) setWindowTag(arg ipc.WindowTagArg) {
	src, idx := wm.resolveClient(arg.Client)
	if src == nil {
		return
	}
	target := wm.resolveTag(arg.Tag)
	if target == nil {
		return
	}
	if target.ID == src.ID {
		if !arg.Toggle {
			return
		}
		mon := wm.monitors[src.monitor]
		if mon == nil {
			return
		}
		target = wm.tags[mon.prevTag]
		if target == nil || target.ID == src.ID {
			return
		}
	}
	// a moved client cannot stay sticky to its old monitor
	if mon := wm.monitors[src.monitor]; mon != nil {
		delete(mon.sticky, idx)
	}
	wm.transferClient(src, idx, target, true)
	wm.aux.Hooks.tagStateChanged(wm)
}

// retile recomputes the tiling region of every displayed tag.
func (wm *WindowManager) retile() {
	for _, mon := range wm.monitors {
		if tag := wm.tags[mon.focusedTag]; tag != nil {
			tag.setTilingRect(&wm.aux, mon.freeRect())
		}
	}
}

// repaintBorders reapplies border colours everywhere.
func (wm *WindowManager) repaintBorders() {
	for _, mon := range wm.monitors {
		tag := wm.tags[mon.focusedTag]
		if tag == nil {
			continue
		}
		focused := -1
		if mon.ID == wm.focusedMon {
			if front, ok := tag.focus.Front(); ok {
				focused = front
			}
		}
		for _, idx := range tag.liveClients() {
			color := wm.aux.Theme.BorderUnfocused
			if idx == focused {
				color = wm.aux.Theme.BorderFocused
			}
			wm.aux.Dpy.SetBorderColor(tag.clients[idx].Frame, color)
		}
	}
}

// reconfigureAll pushes a changed border width to every client.
func (wm *WindowManager) reconfigureAll() {
	for _, tag := range wm.tags {
		for _, idx := range tag.liveClients() {
			tag.clients[idx].BorderWidth = wm.aux.Theme.BorderWidth
			tag.applyPosSize(&wm.aux, idx)
		}
	}
}

// reload re-reads the configuration and replays the monitor hooks.
func (wm *WindowManager) reload() {
	if cfg, err := config.Load(""); err == nil {
		*wm.aux.Theme = cfg.Theme
		wm.retile()
		wm.reconfigureAll()
		wm.repaintBorders()
	}
	for _, id := range wm.monitorOrder {
		if mon := wm.monitors[id]; mon != nil {
			wm.aux.Hooks.monClose(mon.ID, mon.Name)
			wm.aux.Hooks.monOpen(mon.ID, mon.Name, mon.bg)
		}
	}
	wm.aux.Hooks.tagStateChanged(wm)
}
