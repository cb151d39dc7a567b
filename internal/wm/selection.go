package wm

import (
	"github.com/cwm-x11/cwm/internal/geom"
	"github.com/cwm-x11/cwm/internal/ipc"
)

type selKind int

const (
	selNone selKind = iota
	selNode
	selPresel
)

const selectionFill = 0x40142938 // premultiplied translucent highlight (0x4053A6E1)

// Selection is the process-wide overlay state: either a chosen BSP node
// or a prospective split point on a leaf. The overlay window is input
// transparent so it never steals pointer events.
type Selection struct {
	kind  selKind
	tag   Atom
	node  int
	side  ipc.Side
	ratio float32
	win   WinID
}

// selectionRect is the on-screen region the overlay should cover.
func (wm *WindowManager) selectionRect() (geom.Rect, bool) {
	tag := wm.tags[wm.sel.tag]
	if tag == nil || tag.monitor == 0 {
		return geom.Rect{}, false
	}
	if wm.sel.node < 0 || wm.sel.node >= len(tag.nodes) {
		return geom.Rect{}, false
	}
	n := &tag.nodes[wm.sel.node]
	if n.kind == nodeEmpty || n.absent {
		return geom.Rect{}, false
	}
	rect := n.rect
	if n.kind == nodeLeaf {
		rect = tag.clientRect(n.client)
	}
	if wm.sel.kind != selPresel {
		return rect, true
	}
	first, second := rect.Split(wm.sel.side.Vertical(), splitRatioFor(wm.sel.side, wm.sel.ratio), 0)
	if wm.sel.side == ipc.Left || wm.sel.side == ipc.Top {
		return first, true
	}
	return second, true
}

// splitRatioFor converts a presel amount (the share the new client gets)
// into the inner node's first-child ratio.
func splitRatioFor(side ipc.Side, amount float32) float32 {
	if side == ipc.Left || side == ipc.Top {
		return clampRatio(amount)
	}
	return clampRatio(1 - amount)
}

func (wm *WindowManager) drawSelection() {
	rect, ok := wm.selectionRect()
	if !ok {
		wm.hideSelection()
		return
	}
	if wm.sel.win == 0 {
		win, err := wm.aux.Dpy.CreateOverlay(rect, selectionFill)
		if err != nil {
			return
		}
		wm.sel.win = win
	}
	r := rect
	wm.aux.Dpy.Configure(wm.sel.win, WinChanges{Rect: &r})
	wm.aux.Dpy.MapWindow(wm.sel.win)
}

func (wm *WindowManager) hideSelection() {
	if wm.sel.win != 0 {
		wm.aux.Dpy.UnmapWindow(wm.sel.win)
	}
}

// cancelSelection clears the overlay state entirely.
func (wm *WindowManager) cancelSelection() {
	wm.sel.kind = selNone
	wm.sel.tag = 0
	wm.sel.node = -1
	wm.hideSelection()
}

// clearSelectionOn cancels the selection when it sits on the given tag.
func (wm *WindowManager) clearSelectionOn(tag Atom) {
	if wm.sel.tag == tag {
		wm.cancelSelection()
	}
}

// selectClient puts the node selection on a client's leaf.
func (wm *WindowManager) selectClient(tag *Tag, idx int) {
	wm.sel.kind = selNode
	wm.sel.tag = tag.ID
	wm.sel.node = tag.clients[idx].node
	wm.drawSelection()
}

// selectDir turns a leaf selection into a preselection on the given
// side, or re-aims an existing preselection.
func (wm *WindowManager) selectDir(side ipc.Side) {
	if wm.sel.kind == selNone {
		tag := wm.focusedTag()
		if tag == nil {
			return
		}
		front, ok := tag.focus.Front()
		if !ok {
			return
		}
		wm.selectClient(tag, front)
	}
	tag := wm.tags[wm.sel.tag]
	if tag == nil || tag.nodes[wm.sel.node].kind != nodeLeaf {
		return
	}
	if wm.sel.kind != selPresel {
		wm.sel.ratio = 0.5
	}
	wm.sel.kind = selPresel
	wm.sel.side = side
	wm.drawSelection()
}

// selectParent widens a node selection to its parent.
func (wm *WindowManager) selectParent() {
	if wm.sel.kind == selNone {
		return
	}
	tag := wm.tags[wm.sel.tag]
	if tag == nil {
		return
	}
	if parent := tag.nodes[wm.sel.node].parent; parent >= 0 {
		wm.sel.kind = selNode
		wm.sel.node = parent
		wm.drawSelection()
	}
}

// preselAmt adjusts the share a preselection reserves.
func (wm *WindowManager) preselAmt(ratio float32) {
	if wm.sel.kind != selPresel {
		return
	}
	wm.sel.ratio = clampRatio(ratio)
	wm.drawSelection()
}

// consumePresel resolves the split parameters for a client insertion on
// tag, eating an applicable preselection. The fallback parent is used
// when no preselection applies.
func (wm *WindowManager) consumePresel(tag *Tag, fallbackParent int) (*Split, bool, float32, int) {
	if wm.sel.kind != selPresel || wm.sel.tag != tag.ID {
		return nil, false, 0.5, fallbackParent
	}
	node := wm.sel.node
	if node < 0 || node >= len(tag.nodes) || tag.nodes[node].kind != nodeLeaf {
		return nil, false, 0.5, fallbackParent
	}
	side := wm.sel.side
	split := SplitHorizontal
	if side.Vertical() {
		split = SplitVertical
	}
	firstNew := side == ipc.Left || side == ipc.Top
	ratio := splitRatioFor(side, wm.sel.ratio)
	wm.cancelSelection()
	return &split, firstNew, ratio, node
}

// selectedRotationRoot picks the subtree a Rotate request applies to:
// the selected node when one is set on the focused tag, the root
// otherwise.
func (wm *WindowManager) selectedRotationRoot(tag *Tag) int {
	if wm.sel.kind == selNode && wm.sel.tag == tag.ID && wm.sel.node >= 0 {
		return wm.sel.node
	}
	return 0
}
