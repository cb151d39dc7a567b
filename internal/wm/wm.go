package wm

import (
	"fmt"

	"github.com/cwm-x11/cwm/internal/config"
	"github.com/cwm-x11/cwm/internal/ipc"
	"github.com/cwm-x11/cwm/internal/logger"
	"github.com/cwm-x11/cwm/internal/stack"
)

// LocKind classifies what a window id in the global index refers to.
type LocKind int

const (
	LocClient LocKind = iota
	LocPanel
	LocDesktop
	LocBackground
)

// Location routes a display-server window id to the object that owns it.
type Location struct {
	Kind   LocKind
	Tag    Atom
	Client int
	Mon    Atom
}

// knownAtoms caches the atoms the event loop compares against.
type knownAtoms struct {
	wmName           Atom
	netWmName        Atom
	wmHints          Atom
	netWmState       Atom
	fullscreen       Atom
	demandsAttention Atom
	activeWindow     Atom
	strut            Atom
	strutPartial     Atom
	windowType       Atom
	typeDock         Atom
	typeDesktop      Atom
	typeDialog       Atom
	typeToolbar      Atom
	typeUtility      Atom
	typeNotification Atom
}

// WindowManager is the world: every tag, monitor and managed window,
// plus the dispatcher state that mutates them.
type WindowManager struct {
	aux Aux
	cfg *config.Config

	tags     map[Atom]*Tag
	tagOrder []Atom
	freeTags map[Atom]struct{}
	tempTags []Atom

	monitors     map[Atom]*Monitor
	monitorOrder []Atom
	focusedMon   Atom
	prevMon      Atom

	windows map[WinID]Location
	rules   []ipc.Rule
	sel     Selection
	atoms   knownAtoms

	supportWin WinID
	running    bool
	drag       dragState

	requests chan inboundRequest
	srv      *server
}

// New builds the world against a display and adopts any pre-existing
// windows.
func New(dpy Display, cfg *config.Config) (*WindowManager, error) {
	wm := &WindowManager{
		aux: Aux{
			Dpy:   dpy,
			Theme: &cfg.Theme,
			Hooks: newHooks(),
		},
		cfg:      cfg,
		tags:     make(map[Atom]*Tag),
		freeTags: make(map[Atom]struct{}),
		monitors: make(map[Atom]*Monitor),
		windows:  make(map[WinID]Location),
		rules:    append([]ipc.Rule(nil), cfg.Rules...),
		requests: make(chan inboundRequest, 16),
		running:  true,
	}
	wm.sel.node = -1

	if err := dpy.BecomeWM(); err != nil {
		return nil, err
	}
	if err := dpy.GrabButtons(); err != nil {
		logger.WithComponent("wm").Warn().Err(err).Msg("failed to grab buttons")
	}
	wm.internAtoms()

	for _, name := range cfg.Tags {
		if _, err := wm.AddTag(name); err != nil {
			return nil, err
		}
	}
	if len(wm.tagOrder) == 0 {
		if _, err := wm.AddTag("I"); err != nil {
			return nil, err
		}
	}

	infos, err := dpy.Monitors()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate monitors: %w", err)
	}
	if len(infos) == 0 {
		// Headless X server or RandR-less setup: treat the root as one
		// output.
		infos = []MonitorInfo{{ID: 1, Name: "default", Rect: dpy.RootRect(), Primary: true}}
	}
	for _, info := range infos {
		wm.addMonitor(info)
	}

	wm.adoptExisting()
	dpy.Flush()
	return wm, nil
}

func (wm *WindowManager) internAtoms() {
	intern := func(name string) Atom {
		a, err := wm.aux.Dpy.InternAtom(name)
		if err != nil {
			logger.WithComponent("wm").Error().Err(err).Str("atom", name).Msg("failed to intern atom")
		}
		return a
	}
	wm.atoms = knownAtoms{
		wmName:           intern("WM_NAME"),
		netWmName:        intern("_NET_WM_NAME"),
		wmHints:          intern("WM_HINTS"),
		netWmState:       intern("_NET_WM_STATE"),
		fullscreen:       intern("_NET_WM_STATE_FULLSCREEN"),
		demandsAttention: intern("_NET_WM_STATE_DEMANDS_ATTENTION"),
		activeWindow:     intern("_NET_ACTIVE_WINDOW"),
		strut:            intern("_NET_WM_STRUT"),
		strutPartial:     intern("_NET_WM_STRUT_PARTIAL"),
		windowType:       intern("_NET_WM_WINDOW_TYPE"),
		typeDock:         intern("_NET_WM_WINDOW_TYPE_DOCK"),
		typeDesktop:      intern("_NET_WM_WINDOW_TYPE_DESKTOP"),
		typeDialog:       intern("_NET_WM_WINDOW_TYPE_DIALOG"),
		typeToolbar:      intern("_NET_WM_WINDOW_TYPE_TOOLBAR"),
		typeUtility:      intern("_NET_WM_WINDOW_TYPE_UTILITY"),
		typeNotification: intern("_NET_WM_WINDOW_TYPE_NOTIFICATION"),
	}
}

func (wm *WindowManager) adoptExisting() {
	wins, err := wm.aux.Dpy.ExistingWindows()
	if err != nil {
		logger.WithComponent("wm").Warn().Err(err).Msg("failed to list existing windows")
		return
	}
	for _, win := range wins {
		wm.manageWindow(win)
	}
}

// AddTag registers a user tag by name. Adding an existing name is a
// no-op.
func (wm *WindowManager) AddTag(name string) (bool, error) {
	id, err := wm.aux.Dpy.InternAtom(name)
	if err != nil {
		return false, fmt.Errorf("failed to intern tag name %q: %w", name, err)
	}
	if _, ok := wm.tags[id]; ok {
		return false, nil
	}
	wm.tags[id] = newTag(id, name, false)
	wm.tagOrder = append(wm.tagOrder, id)
	wm.freeTags[id] = struct{}{}
	wm.aux.Hooks.tagStateChanged(wm)
	return true, nil
}

// RemoveTag drops an empty tag (user or temp). A displayed tag is first replaced
// on its monitor; the last remaining tag cannot be removed.
func (wm *WindowManager) RemoveTag(id Atom) bool {
	tag := wm.tags[id]
	if tag == nil || !tag.Empty() || len(wm.tagOrder) <= 1 {
		return false
	}
	if tag.monitor != 0 {
		mon := wm.monitors[tag.monitor]
		replacement := wm.takeFreeTagExcept(id)
		if replacement == 0 {
			replacement = wm.createTempTag()
		}
		if mon != nil {
			wm.setMonitorTag(mon, replacement)
		}
	}
	delete(wm.tags, id)
	delete(wm.freeTags, id)
	for i, t := range wm.tagOrder {
		if t == id {
			wm.tagOrder = append(wm.tagOrder[:i], wm.tagOrder[i+1:]...)
			break
		}
	}
	for i, t := range wm.tempTags {
		if t == id {
			wm.tempTags = append(wm.tempTags[:i], wm.tempTags[i+1:]...)
			break
		}
	}
	wm.clearSelectionOn(id)
	wm.aux.Hooks.tagStateChanged(wm)
	return true
}

func (wm *WindowManager) takeFreeTag() Atom {
	return wm.takeFreeTagExcept(0)
}

// takeFreeTagExcept returns the first free tag in display order, user
// tags before temp tags.
func (wm *WindowManager) takeFreeTagExcept(skip Atom) Atom {
	for _, wantTemp := range []bool{false, true} {
		for _, id := range wm.tagOrder {
			if id == skip {
				continue
			}
			if _, ok := wm.freeTags[id]; ok && wm.tags[id] != nil && wm.tags[id].temp == wantTemp {
				return id
			}
		}
	}
	return 0
}

// createTempTag allocates a reclaimable tag to satisfy a monitor when no
// free tag exists.
func (wm *WindowManager) createTempTag() Atom {
	name := tempTagName(len(wm.tempTags))
	id, err := wm.aux.Dpy.InternAtom(name)
	if err != nil {
		logger.WithComponent("wm").Error().Err(err).Msg("failed to intern temp tag")
		return 0
	}
	wm.tags[id] = newTag(id, name, true)
	wm.tagOrder = append(wm.tagOrder, id)
	wm.tempTags = append(wm.tempTags, id)
	wm.freeTags[id] = struct{}{}
	return id
}

// reclaimTempTags drops free, empty temp tags once user tags cover every
// monitor again.
func (wm *WindowManager) reclaimTempTags() {
	for len(wm.tempTags) > 0 {
		id := wm.tempTags[len(wm.tempTags)-1]
		tag := wm.tags[id]
		if tag == nil {
			wm.tempTags = wm.tempTags[:len(wm.tempTags)-1]
			continue
		}
		_, free := wm.freeTags[id]
		if !free || !tag.Empty() {
			return
		}
		userFree := 0
		for fid := range wm.freeTags {
			if t := wm.tags[fid]; t != nil && !t.temp {
				userFree++
			}
		}
		if userFree == 0 {
			return
		}
		wm.RemoveTag(id)
	}
}

// migrateClients moves the given client indices from src to dst,
// returning the translated index set.
func (wm *WindowManager) migrateClients(src, dst *Tag, idxs map[int]struct{}) map[int]struct{} {
	out := make(map[int]struct{}, len(idxs))
	for idx := range idxs {
		if !src.clients[idx].live {
			continue
		}
		out[wm.transferClient(src, idx, dst, false)] = struct{}{}
	}
	return out
}

// transferClient moves one client between tags, keeping its flags, frame
// and floating geometry.
func (wm *WindowManager) transferClient(src *Tag, idx int, dst *Tag, focus bool) int {
	c := src.clients[idx]
	leaf := src.nodes[c.node]

	if c.Flags.Hidden {
		src.hiddenQ.Remove(c.hiddenPos)
	} else {
		src.focus.Remove(c.stackPos)
		src.layers[c.layerIdx].remove(idx, c.layerPos)
	}
	delete(src.urgent, idx)
	delete(src.pseudoUrgent, idx)
	src.removeNode(&wm.aux, c.node)
	src.clients[idx].live = false
	src.freeClients = append(src.freeClients, idx)
	if src.monitor != 0 && !c.Flags.Hidden {
		src.setFocus(&wm.aux)
	}

	c.stackPos = stack.None
	c.hiddenPos = stack.None
	c.layerPos = stack.None
	c.minSize = leaf.minSize
	c.maxSize = leaf.maxSize
	c.floatingRect = leaf.floating

	newIdx := dst.allocClient(c)
	dst.attachClient(&wm.aux, newIdx, nil, false, 0.5, -1)
	nc := &dst.clients[newIdx]
	if c.Flags.Hidden {
		nc.hiddenPos = dst.hiddenQ.PushBack(newIdx)
	} else {
		if focus {
			nc.stackPos = dst.focus.PushFront(newIdx)
		} else {
			nc.stackPos = dst.focus.PushBack(newIdx)
		}
		dst.setLayer(&wm.aux, newIdx, focus)
		if dst.monitor != 0 {
			dst.showClient(&wm.aux, newIdx)
		} else {
			dst.hideClient(&wm.aux, newIdx)
		}
	}
	if c.Flags.Urgent {
		dst.urgent[newIdx] = struct{}{}
	}
	if c.Flags.PseudoUrgent {
		dst.pseudoUrgent[newIdx] = struct{}{}
	}
	wm.windows[c.Win] = Location{Kind: LocClient, Tag: dst.ID, Client: newIdx}
	wm.windows[c.Frame] = Location{Kind: LocClient, Tag: dst.ID, Client: newIdx}
	if dst.monitor != 0 {
		wm.setDesktopProp(c.Win, dst.ID)
	}
	return newIdx
}

func (wm *WindowManager) setDesktopProp(win WinID, tag Atom) {
	for i, id := range wm.tagOrder {
		if id == tag {
			wm.aux.Dpy.SetDesktop(win, uint32(i))
			return
		}
	}
}

// focusedTag returns the tag displayed on the focused monitor.
func (wm *WindowManager) focusedTag() *Tag {
	mon := wm.monitors[wm.focusedMon]
	if mon == nil {
		return nil
	}
	return wm.tags[mon.focusedTag]
}

// Quit stops the event loop.
func (wm *WindowManager) Quit() {
	wm.running = false
}
