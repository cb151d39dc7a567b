package wm

import (
	"math"

	"github.com/cwm-x11/cwm/internal/geom"
	"github.com/cwm-x11/cwm/internal/ipc"
)

// Split is a BSP cut orientation. A vertical split puts its children side
// by side; a horizontal split stacks them.
type Split int

const (
	SplitHorizontal Split = iota
	SplitVertical
)

// Ratio bounds for any inner node.
const (
	splitMin = 0.1
	splitMax = 1.0 - splitMin
)

type nodeKind int

const (
	nodeEmpty nodeKind = iota
	nodeLeaf
	nodeInner
)

// Node is one slot of a tag's BSP arena. Node 0 is the permanent root.
// Every managed client hangs off a leaf, whether or not it consumes
// tiling space; a leaf whose client is floating, fullscreen or hidden is
// marked absent, and absence bubbles up through inner nodes whose
// children are all absent.
type Node struct {
	kind        nodeKind
	parent      int // -1 for the root
	parentFirst bool
	rect        geom.Rect
	absent      bool

	// leaf
	client   int
	minSize  [2]uint16
	maxSize  [2]uint16
	floating geom.Rect

	// inner
	split  Split
	ratio  float32
	first  int
	second int
}

func (n *Node) childOn(first bool) int {
	if first {
		return n.first
	}
	return n.second
}

func (t *Tag) allocNode(n Node) int {
	if ln := len(t.freeNodes); ln > 0 {
		idx := t.freeNodes[ln-1]
		t.freeNodes = t.freeNodes[:ln-1]
		t.nodes[idx] = n
		return idx
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// clientRect resolves the effective rect of a client per its flags.
func (t *Tag) clientRect(idx int) geom.Rect {
	c := &t.clients[idx]
	if c.Flags.Fullscreen {
		return t.total
	}
	n := &t.nodes[c.node]
	if c.Flags.Floating {
		return n.floating
	}
	return n.rect
}

// resizeNode recomputes the child rects of an inner node and queues the
// children for further processing.
func (t *Tag) resizeNode(x *Aux, node int, q *[]int) {
	n := &t.nodes[node]
	if n.kind != nodeInner {
		return
	}
	first, second := &t.nodes[n.first], &t.nodes[n.second]
	switch {
	case first.absent && second.absent:
		// parent is absent too; nothing to lay out
	case first.absent:
		second.rect = n.rect
		*q = append(*q, n.second)
	case second.absent:
		first.rect = n.rect
		*q = append(*q, n.first)
	default:
		if t.monocle {
			first.rect = n.rect
			second.rect = n.rect
		} else {
			first.rect, second.rect = n.rect.Split(n.split == SplitVertical, n.ratio, x.Theme.Gap)
		}
		*q = append(*q, n.first, n.second)
	}
}

// resizeTiledFrom walks the subtree under node, recomputing rects and
// reapplying geometry to every present leaf.
func (t *Tag) resizeTiledFrom(x *Aux, node int) {
	q := []int{node}
	for len(q) > 0 {
		cur := q[len(q)-1]
		q = q[:len(q)-1]
		n := &t.nodes[cur]
		switch n.kind {
		case nodeInner:
			t.resizeNode(x, cur, &q)
		case nodeLeaf:
			if !n.absent {
				t.applyPosSize(x, n.client)
			}
		}
	}
}

// splitLeaf converts the leaf at leafIdx into an inner node holding the
// old occupant and a new leaf for clientIdx. split, firstNew and ratio
// come from a consumed preselection; split == nil picks the orientation
// from the leaf's aspect.
func (t *Tag) splitLeaf(x *Aux, leafIdx int, split *Split, firstNew bool, ratio float32, absent bool, clientIdx int, payload Node) {
	leaf := t.nodes[leafIdx]
	s := SplitHorizontal
	if split != nil {
		s = *split
	} else if leaf.rect.W > leaf.rect.H {
		s = SplitVertical
	}

	old := Node{
		kind:        nodeLeaf,
		parent:      leafIdx,
		parentFirst: !firstNew,
		absent:      leaf.absent,
		client:      leaf.client,
		minSize:     leaf.minSize,
		maxSize:     leaf.maxSize,
		floating:    leaf.floating,
	}
	fresh := payload
	fresh.parent = leafIdx
	fresh.parentFirst = firstNew
	fresh.absent = absent

	var firstChild, secondChild int
	if firstNew {
		firstChild = t.allocNode(fresh)
		secondChild = t.allocNode(old)
		t.nodes[secondChild].parentFirst = false
		t.nodes[firstChild].parentFirst = true
	} else {
		firstChild = t.allocNode(old)
		secondChild = t.allocNode(fresh)
		t.nodes[firstChild].parentFirst = true
		t.nodes[secondChild].parentFirst = false
	}

	leafWasAbsent := leaf.absent
	oldClient := leaf.client
	n := &t.nodes[leafIdx]
	n.kind = nodeInner
	n.split = s
	n.ratio = ratio
	n.first = firstChild
	n.second = secondChild

	if firstNew {
		t.clients[oldClient].node = secondChild
		t.clients[clientIdx].node = firstChild
	} else {
		t.clients[oldClient].node = firstChild
		t.clients[clientIdx].node = secondChild
	}

	switch {
	case leafWasAbsent && !absent:
		t.propagateAbsent(x, leafIdx)
	case !(leafWasAbsent && absent):
		var q []int
		t.resizeNode(x, leafIdx, &q)
		for len(q) > 0 {
			cur := q[len(q)-1]
			q = q[:len(q)-1]
			t.resizeNode(x, cur, &q)
		}
	}
	if !leafWasAbsent {
		t.applyPosSize(x, oldClient)
	}
}

// attachClient splices a client into the tree: the root if empty,
// otherwise by splitting the preferred target leaf.
func (t *Tag) attachClient(x *Aux, clientIdx int, split *Split, firstNew bool, ratio float32, parent int) {
	c := &t.clients[clientIdx]
	absent := c.Flags.Absent()
	payload := Node{
		kind:     nodeLeaf,
		client:   clientIdx,
		minSize:  c.minSize,
		maxSize:  c.maxSize,
		floating: c.floatingRect,
	}
	switch t.nodes[0].kind {
	case nodeEmpty:
		payload.parent = -1
		payload.rect = t.tiling
		payload.absent = absent
		t.nodes[0] = payload
		c.node = 0
		if !absent {
			t.applyPosSize(x, clientIdx)
		}
	case nodeLeaf:
		t.splitLeaf(x, 0, split, firstNew, ratio, absent, clientIdx, payload)
	case nodeInner:
		target := parent
		if target < 0 {
			if front, ok := t.focus.Front(); ok {
				target = t.clients[front].node
			} else if back, ok := t.hiddenQ.Back(); ok {
				target = t.clients[back].node
			} else {
				target = 0
			}
		}
		t.splitLeaf(x, target, split, firstNew, ratio, absent, clientIdx, payload)
	}
}

// propagateAbsent recomputes absence from node upward, stopping at the
// first ancestor whose value is unchanged, then relays out from there.
func (t *Tag) propagateAbsent(x *Aux, node int) {
	cur := node
	last := node
	for cur >= 0 {
		last = cur
		n := &t.nodes[cur]
		if n.kind != nodeInner {
			break
		}
		absent := t.nodes[n.first].absent && t.nodes[n.second].absent
		if n.absent == absent {
			break
		}
		n.absent = absent
		cur = n.parent
	}
	t.resizeTiledFrom(x, last)
}

// setAbsent flips a client's leaf absence and propagates.
func (t *Tag) setAbsent(x *Aux, clientIdx int, absent bool) {
	node := t.clients[clientIdx].node
	n := &t.nodes[node]
	if n.absent == absent {
		return
	}
	n.absent = absent
	if n.parent >= 0 {
		t.propagateAbsent(x, n.parent)
	} else {
		t.resizeTiledFrom(x, node)
	}
}

// removeNode deletes a leaf, hoisting its sibling into the parent slot.
func (t *Tag) removeNode(x *Aux, node int) {
	if node == 0 {
		t.nodes[0] = Node{kind: nodeEmpty, parent: -1, rect: t.nodes[0].rect}
		return
	}
	parentIdx := t.nodes[node].parent
	first := t.nodes[node].parentFirst
	t.nodes[node].kind = nodeEmpty
	t.freeNodes = append(t.freeNodes, node)

	parent := &t.nodes[parentIdx]
	if parent.kind != nodeInner {
		return
	}
	siblingIdx := parent.childOn(!first)
	sibling := t.nodes[siblingIdx]
	t.freeNodes = append(t.freeNodes, siblingIdx)
	t.nodes[siblingIdx].kind = nodeEmpty

	keepParent := parent.parent
	keepFirst := parent.parentFirst
	keepRect := parent.rect
	sibling.parent = keepParent
	sibling.parentFirst = keepFirst
	sibling.rect = keepRect
	t.nodes[parentIdx] = sibling

	switch sibling.kind {
	case nodeLeaf:
		t.clients[sibling.client].node = parentIdx
	case nodeInner:
		t.nodes[sibling.first].parent = parentIdx
		t.nodes[sibling.second].parent = parentIdx
	}

	t.resizeTiledFrom(x, parentIdx)
	if keepParent >= 0 {
		t.propagateAbsent(x, keepParent)
	}
}

// getSplitParent walks toward the root looking for the nearest ancestor
// whose split separates node from the given side; returns the ancestor
// index (or -1) and the number of steps climbed.
func (t *Tag) getSplitParent(node int, side ipc.Side) (int, int) {
	subject := t.nodes[node].rect
	cur := t.nodes[node].parent
	depth := 0
	for cur >= 0 {
		n := &t.nodes[cur]
		if n.kind == nodeInner {
			switch {
			case side == ipc.Left && n.split == SplitVertical && n.rect.X < subject.X:
				return cur, depth
			case side == ipc.Right && n.split == SplitVertical &&
				n.rect.X+int16(n.rect.W) > subject.X+int16(subject.W):
				return cur, depth
			case side == ipc.Top && n.split == SplitHorizontal && n.rect.Y < subject.Y:
				return cur, depth
			case side == ipc.Bottom && n.split == SplitHorizontal &&
				n.rect.Y+int16(n.rect.H) > subject.Y+int16(subject.H):
				return cur, depth
			}
		}
		cur = n.parent
		depth++
	}
	return -1, depth
}

// neighbourLeaves collects the candidate clients adjacent to node across
// its split parent on the given side.
func (t *Tag) neighbourLeaves(node int, side ipc.Side) []int {
	parentIdx, _ := t.getSplitParent(node, side)
	if parentIdx < 0 {
		return nil
	}
	// Walk up from node to find which child of the parent we came
	// through, then descend the other subtree.
	childOfParent := node
	for t.nodes[childOfParent].parent != parentIdx {
		childOfParent = t.nodes[childOfParent].parent
	}
	other := t.nodes[parentIdx].second
	if childOfParent == t.nodes[parentIdx].second {
		other = t.nodes[parentIdx].first
	}

	var out []int
	q := []int{other}
	for len(q) > 0 {
		cur := q[len(q)-1]
		q = q[:len(q)-1]
		n := &t.nodes[cur]
		if n.absent {
			continue
		}
		switch n.kind {
		case nodeLeaf:
			out = append(out, n.client)
		case nodeInner:
			if n.split == SplitVertical == side.Vertical() {
				// Splits along the approach axis: only the child facing
				// the subject touches the shared edge.
				facingFirst := side == ipc.Right || side == ipc.Bottom
				q = append(q, n.childOn(facingFirst))
			} else {
				q = append(q, n.first, n.second)
			}
		}
	}
	return out
}

// neighbour returns the client adjacent to clientIdx on the given side,
// preferring the most recently focused candidate. Returns -1 when there
// is none.
func (t *Tag) neighbour(clientIdx int, side ipc.Side) int {
	candidates := t.neighbourLeaves(t.clients[clientIdx].node, side)
	if len(candidates) == 0 {
		return -1
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	in := make(map[int]struct{}, len(candidates))
	for _, c := range candidates {
		in[c] = struct{}{}
	}
	best := -1
	t.focus.Do(func(c int) {
		if best >= 0 {
			return
		}
		if _, ok := in[c]; ok {
			best = c
		}
	})
	if best < 0 {
		best = candidates[0]
	}
	return best
}

// clientUnderCursor hit-tests the present part of the tree.
func (t *Tag) clientUnderCursor(px, py int16) int {
	q := []int{}
	if t.nodes[0].rect.Contains(px, py) && !t.nodes[0].absent {
		q = append(q, 0)
	}
	for len(q) > 0 {
		cur := q[len(q)-1]
		q = q[:len(q)-1]
		n := &t.nodes[cur]
		switch n.kind {
		case nodeLeaf:
			return n.client
		case nodeInner:
			for _, child := range []int{n.first, n.second} {
				cn := &t.nodes[child]
				if cn.rect.Contains(px, py) && !cn.absent {
					q = append(q, child)
				}
			}
		}
	}
	return -1
}

// moveClient drags a floating client by delta, or swaps a tiled client
// with the leaf under the cursor once the pointer leaves its own rect.
func (t *Tag) moveClient(x *Aux, clientIdx int, dx, dy int16, px, py int16) {
	c := &t.clients[clientIdx]
	if c.Flags.Fullscreen {
		return
	}
	if c.Flags.Floating {
		n := &t.nodes[c.node]
		n.floating.X += dx
		n.floating.Y += dy
		t.applyPosSize(x, clientIdx)
		return
	}
	if t.nodes[c.node].rect.Contains(px, py) {
		return
	}
	other := t.clientUnderCursor(px, py)
	if other < 0 || other == clientIdx {
		return
	}
	t.swapLeaves(x, clientIdx, other)
}

// swapLeaves exchanges the leaf payloads of two clients.
func (t *Tag) swapLeaves(x *Aux, a, b int) {
	na, nb := t.clients[a].node, t.clients[b].node
	t.clients[a].node, t.clients[b].node = nb, na
	la, lb := t.nodes[na], t.nodes[nb]
	t.nodes[na].client, t.nodes[na].minSize, t.nodes[na].maxSize, t.nodes[na].floating =
		lb.client, lb.minSize, lb.maxSize, lb.floating
	t.nodes[nb].client, t.nodes[nb].minSize, t.nodes[nb].maxSize, t.nodes[nb].floating =
		la.client, la.minSize, la.maxSize, la.floating
	t.applyPosSize(x, a)
	t.applyPosSize(x, b)
}

// resizeClient drags an edge: floating windows clamp against their size
// hints, tiled windows adjust the ratio of the separating ancestors.
func (t *Tag) resizeClient(x *Aux, clientIdx int, dx, dy int16, left, top bool) {
	c := &t.clients[clientIdx]
	if c.Flags.Fullscreen {
		return
	}
	if c.Flags.Floating {
		n := &t.nodes[c.node]
		if left {
			n.floating.X += dx
			n.floating.W = clampDim(int32(n.floating.W)-int32(dx), n.minSize[0], n.maxSize[0])
		} else {
			n.floating.W = clampDim(int32(n.floating.W)+int32(dx), n.minSize[0], n.maxSize[0])
		}
		if top {
			n.floating.Y += dy
			n.floating.H = clampDim(int32(n.floating.H)-int32(dy), n.minSize[1], n.maxSize[1])
		} else {
			n.floating.H = clampDim(int32(n.floating.H)+int32(dy), n.minSize[1], n.maxSize[1])
		}
		t.applyPosSize(x, clientIdx)
		return
	}

	hSide, vSide := ipc.Right, ipc.Bottom
	if left {
		hSide = ipc.Left
	}
	if top {
		vSide = ipc.Top
	}
	parentH, depthH := t.getSplitParent(c.node, hSide)
	parentV, depthV := t.getSplitParent(c.node, vSide)
	var recompute []int
	if parentH >= 0 {
		n := &t.nodes[parentH]
		if n.rect.W > 0 {
			n.ratio = clampRatio(n.ratio + float32(dx)/float32(n.rect.W))
		}
		if parentV < 0 || depthH > depthV {
			recompute = append(recompute, parentH)
		}
	}
	if parentV >= 0 {
		n := &t.nodes[parentV]
		if n.rect.H > 0 {
			n.ratio = clampRatio(n.ratio + float32(dy)/float32(n.rect.H))
		}
		if len(recompute) == 0 {
			recompute = append(recompute, parentV)
		}
	}
	for _, node := range recompute {
		t.resizeTiledFrom(x, node)
	}
}

// rotate flips the split of every inner node in the subtree. Repeated
// forward rotations cycle through four distinct layouts.
func (t *Tag) rotate(x *Aux, node int, reverse bool) {
	q := []int{node}
	for len(q) > 0 {
		cur := q[len(q)-1]
		q = q[:len(q)-1]
		n := &t.nodes[cur]
		if n.kind != nodeInner {
			continue
		}
		swap := (n.split == SplitHorizontal) != reverse
		if n.split == SplitHorizontal {
			n.split = SplitVertical
		} else {
			n.split = SplitHorizontal
		}
		if swap {
			n.first, n.second = n.second, n.first
			t.nodes[n.first].parentFirst = true
			t.nodes[n.second].parentFirst = false
			n.ratio = 1 - n.ratio
		}
		q = append(q, n.first, n.second)
	}
	t.resizeTiledFrom(x, node)
}

// resizeAll lays the tree out in a new frame, repositioning the floating
// rect of every leaf (absent or not) relative to the monitor change.
// Callers must have updated t.total and t.tiling already.
func (t *Tag) resizeAll(x *Aux, available geom.Rect, oldTotal geom.Rect) {
	t.nodes[0].rect = available
	q := []int{0}
	for len(q) > 0 {
		cur := q[len(q)-1]
		q = q[:len(q)-1]
		n := &t.nodes[cur]
		switch n.kind {
		case nodeInner:
			var scratch []int
			t.resizeNode(x, cur, &scratch)
			q = append(q, n.first, n.second)
		case nodeLeaf:
			if oldTotal.W != 0 && oldTotal.H != 0 {
				n.floating = n.floating.Reposition(oldTotal, t.total)
			}
			if !t.clients[n.client].Flags.Hidden {
				t.applyPosSize(x, n.client)
			}
		}
	}
}

func clampRatio(r float32) float32 {
	return float32(math.Min(splitMax, math.Max(splitMin, float64(r))))
}

func clampDim(v int32, min, max uint16) uint16 {
	if max == 0 {
		max = math.MaxUint16
	}
	if v < int32(min) {
		return min
	}
	if v > int32(max) {
		return max
	}
	if v < 1 {
		return 1
	}
	return uint16(v)
}
