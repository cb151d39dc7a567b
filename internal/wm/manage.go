package wm

import (
	"github.com/cwm-x11/cwm/internal/geom"
	"github.com/cwm-x11/cwm/internal/ipc"
	"github.com/cwm-x11/cwm/internal/logger"
	"github.com/cwm-x11/cwm/internal/stack"
)

// clientArgs is the adoption decision: the flags and placement a new
// client starts with, assembled from window properties and rules.
type clientArgs struct {
	focus    bool
	managed  bool
	centered bool
	flags    Flags
	minSize  [2]uint16
	maxSize  [2]uint16
	size     [2]uint16
	pos      *[2]int16
	layer    ipc.StackLayer
	class    string
	instance string
	name     string
	netName        bool
	tag            Atom
	parent         int
	supportsDelete bool
}

// triage decides what kind of window this is and what a client would
// start as.
func (wm *WindowManager) triage(props WindowProps) (clientArgs, LocKind) {
	args := clientArgs{
		focus:   true,
		managed: true,
		flags: Flags{
			Fullscreen: props.Fullscreen,
			Sticky:     props.Sticky,
			Urgent:     props.Urgent,
		},
		minSize:  props.MinSize,
		maxSize:  props.MaxSize,
		size:     props.Size,
		layer:    ipc.LayerNormal,
		class:    props.Class,
		instance: props.Instance,
		name:     props.Name,
		netName:  props.NetName,
		parent:   -1,
	}
	if args.minSize[0] == 0 && args.minSize[1] == 0 {
		args.minSize = [2]uint16{wm.cfg.Theme.WindowMinWidth, wm.cfg.Theme.WindowMinHeight}
	}
	if args.size[0] == 0 || args.size[1] == 0 {
		args.size = [2]uint16{wm.cfg.Theme.WindowWidth, wm.cfg.Theme.WindowHeight}
	}
	if props.Transient {
		args.flags.Floating = true
	}
	if props.MinSize != ([2]uint16{}) && props.MinSize == props.MaxSize {
		args.flags.Floating = true
		args.size = props.MinSize
	}
	kind := LocClient
	for _, typ := range props.Types {
		switch typ {
		case wm.atoms.typeDock:
			kind = LocPanel
		case wm.atoms.typeDesktop:
			if kind == LocClient {
				kind = LocDesktop
			}
		case wm.atoms.typeToolbar, wm.atoms.typeUtility:
			args.focus = false
		case wm.atoms.typeDialog:
			args.flags.Floating = true
			args.centered = true
		case wm.atoms.typeNotification:
			args.managed = false
		}
	}
	return args, kind
}

// applyRules runs the rule list against the adoption args. Matching temp
// rules are consumed; non-temp rules all apply in order.
func (wm *WindowManager) applyRules(args *clientArgs) {
	kept := wm.rules[:0]
	for _, rule := range wm.rules {
		if !ruleMatches(rule, args) {
			kept = append(kept, rule)
			continue
		}
		if rule.Floating != nil {
			args.flags.Floating = *rule.Floating
		}
		if rule.Size != nil {
			args.size = *rule.Size
		}
		if rule.Pos != nil {
			p := *rule.Pos
			args.pos = &p
		}
		if !rule.Temp {
			kept = append(kept, rule)
		}
	}
	wm.rules = kept
}

func ruleMatches(rule ipc.Rule, args *clientArgs) bool {
	if rule.Class == nil && rule.Instance == nil && rule.Name == nil {
		return false
	}
	if rule.Class != nil && *rule.Class != args.class {
		return false
	}
	if rule.Instance != nil && *rule.Instance != args.instance {
		return false
	}
	if rule.Name != nil && *rule.Name != args.name {
		return false
	}
	return true
}

// manageWindow adopts a window that asked to be mapped: it becomes a
// client, a panel or a desktop window depending on its type.
func (wm *WindowManager) manageWindow(win WinID) {
	if _, ok := wm.windows[win]; ok {
		return
	}
	log := logger.WithComponent("manage")
	props, err := wm.aux.Dpy.ReadProps(win)
	if err != nil {
		log.Debug().Uint32("win", win).Err(err).Msg("failed to read window properties")
	}
	args, kind := wm.triage(props)
	mon := wm.monitors[wm.focusedMon]
	switch kind {
	case LocPanel:
		if mon != nil {
			wm.panelRegister(mon, win, props.Struts)
		}
	case LocDesktop:
		if mon != nil {
			wm.desktopWindowRegister(mon, win)
		}
	default:
		if !args.managed {
			wm.aux.Dpy.MapWindow(win)
			return
		}
		wm.applyRules(&args)
		args.supportsDelete = props.SupportsDelete
		wm.manageClient(win, args)
	}
}

// manageClient splices a new client into its tag, creates the frame and
// puts it on screen.
func (wm *WindowManager) manageClient(win WinID, args clientArgs) {
	tagID := args.tag
	if tagID == 0 {
		mon := wm.monitors[wm.focusedMon]
		if mon == nil {
			return
		}
		tagID = mon.focusedTag
	}
	tag := wm.tags[tagID]
	if tag == nil {
		return
	}

	floating := geom.Rect{W: args.size[0], H: args.size[1]}
	if args.pos != nil && !args.centered {
		floating.X = args.pos[0]
		floating.Y = args.pos[1]
	} else {
		floating.X = tag.tiling.X + int16(tag.tiling.W/2) - int16(args.size[0]/2)
		floating.Y = tag.tiling.Y + int16(tag.tiling.H/2) - int16(args.size[1]/2)
	}

	c := Client{
		Win:            win,
		Name:           args.name,
		netName:        args.netName,
		Class:          args.class,
		Instance:       args.instance,
		BorderWidth:    wm.aux.Theme.BorderWidth,
		Layer:          args.layer,
		lastLayer:      args.layer,
		Flags:          args.flags,
		SupportsDelete: args.supportsDelete,
		minSize:        args.minSize,
		maxSize:        args.maxSize,
		floatingRect:   floating,
		stackPos:       stack.None,
		hiddenPos:      stack.None,
		layerPos:       stack.None,
		live:           true,
	}
	idx := tag.allocClient(c)

	split, firstNew, ratio, parent := wm.consumePresel(tag, args.parent)
	tag.attachClient(&wm.aux, idx, split, firstNew, ratio, parent)

	rect := tag.clientRect(idx)
	frame, err := wm.aux.Dpy.CreateFrame(win, rect, wm.aux.Theme.BorderWidth, wm.aux.Theme.BorderUnfocused)
	if err != nil {
		logger.WithComponent("manage").Error().Uint32("win", win).Err(err).Msg("failed to frame client")
	}
	tag.clients[idx].Frame = frame
	wm.aux.Dpy.Reparent(win, frame, 0, 0)

	wm.windows[win] = Location{Kind: LocClient, Tag: tagID, Client: idx}
	wm.windows[frame] = Location{Kind: LocClient, Tag: tagID, Client: idx}
	wm.setDesktopProp(win, tagID)

	nc := &tag.clients[idx]
	if nc.Flags.Hidden {
		nc.hiddenPos = tag.hiddenQ.PushBack(idx)
		tag.hideClient(&wm.aux, idx)
	} else {
		if args.focus {
			nc.stackPos = tag.focus.PushFront(idx)
		} else {
			nc.stackPos = tag.focus.PushBack(idx)
		}
		tag.setLayer(&wm.aux, idx, args.focus)
		if tag.monitor != 0 {
			tag.showClient(&wm.aux, idx)
			if args.focus {
				tag.focusClient(&wm.aux, idx)
			}
		}
	}
	if nc.Flags.Urgent {
		tag.urgent[idx] = struct{}{}
	}
	if nc.Flags.Sticky && tag.monitor != 0 {
		if mon := wm.monitors[tag.monitor]; mon != nil {
			mon.sticky[idx] = struct{}{}
		}
	}
	wm.aux.Hooks.tagStateChanged(wm)
}

// unmanageClient forgets a client: its slot, node, stack and layer
// positions are all released. destroyed says the window is already gone
// so no unparenting is needed.
func (wm *WindowManager) unmanageClient(tagID Atom, idx int, destroyed bool) {
	tag := wm.tags[tagID]
	if tag == nil || !tag.clients[idx].live {
		return
	}
	c := &tag.clients[idx]

	if c.Flags.Hidden {
		tag.hiddenQ.Remove(c.hiddenPos)
	} else {
		tag.focus.Remove(c.stackPos)
		tag.layers[c.layerIdx].remove(idx, c.layerPos)
	}
	delete(tag.urgent, idx)
	delete(tag.pseudoUrgent, idx)
	if mon := wm.monitors[tag.monitor]; mon != nil {
		delete(mon.sticky, idx)
	}
	if wm.sel.tag == tagID && wm.sel.node == c.node {
		wm.cancelSelection()
	}

	delete(wm.windows, c.Win)
	delete(wm.windows, c.Frame)
	if c.Frame != 0 {
		if !destroyed {
			wm.aux.Dpy.Reparent(c.Win, wm.aux.Dpy.Root(), 0, 0)
		}
		wm.aux.Dpy.DestroyWindow(c.Frame)
	}

	tag.removeNode(&wm.aux, c.node)
	c.live = false
	tag.freeClients = append(tag.freeClients, idx)

	if tag.monitor != 0 && tag.monitor == wm.focusedMon {
		tag.setFocus(&wm.aux)
	}
	wm.aux.Hooks.tagStateChanged(wm)
}

// closeClient asks the client to close, or kills it outright.
func (wm *WindowManager) closeClient(tag *Tag, idx int, kill bool) {
	c := &tag.clients[idx]
	if c.SupportsDelete && !kill {
		wm.aux.Dpy.SendDelete(c.Win)
		return
	}
	wm.aux.Dpy.KillWindow(c.Win)
}
