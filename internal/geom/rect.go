package geom

import "math"

// Rect is a screen-space rectangle. X11 geometry uses signed positions and
// unsigned sizes, so we keep the same widths here.
type Rect struct {
	X int16  `json:"x"`
	Y int16  `json:"y"`
	W uint16 `json:"w"`
	H uint16 `json:"h"`
}

// NewRect builds a Rect from its components.
func NewRect(x, y int16, w, h uint16) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Contains reports whether the point lies strictly inside the rectangle.
func (r Rect) Contains(x, y int16) bool {
	return x > r.X && x < r.X+int16(r.W) && y > r.Y && y < r.Y+int16(r.H)
}

// ContainsRect reports whether other lies fully within r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+int16(other.W) <= r.X+int16(r.W) &&
		other.Y+int16(other.H) <= r.Y+int16(r.H)
}

// Split cuts r in two along the given orientation at ratio, leaving gap
// pixels between the panes (half taken from each side). vert means a
// vertical cut line, producing a left and a right pane.
func (r Rect) Split(vert bool, ratio float32, gap uint16) (Rect, Rect) {
	half := int16(gap / 2)
	if vert {
		cut := int16(math.Round(float64(r.W) * float64(ratio)))
		first := Rect{X: r.X, Y: r.Y, W: clampSize(int32(cut) - int32(half)), H: r.H}
		second := Rect{
			X: r.X + cut + half,
			Y: r.Y,
			W: clampSize(int32(r.W) - int32(cut) - int32(half)),
			H: r.H,
		}
		return first, second
	}
	cut := int16(math.Round(float64(r.H) * float64(ratio)))
	first := Rect{X: r.X, Y: r.Y, W: r.W, H: clampSize(int32(cut) - int32(half))}
	second := Rect{
		X: r.X,
		Y: r.Y + cut + half,
		W: r.W,
		H: clampSize(int32(r.H) - int32(cut) - int32(half)),
	}
	return first, second
}

// Reposition rescales r's origin from the frame of old into the frame of
// updated. The size is left alone; only the origin moves, so a floating
// window keeps its dimensions when its tag lands on a different monitor.
func (r Rect) Reposition(old, updated Rect) Rect {
	out := r
	if old.W != 0 {
		out.X = updated.X + int16(math.Round(float64(r.X-old.X)/float64(old.W)*float64(updated.W)))
	}
	if old.H != 0 {
		out.Y = updated.Y + int16(math.Round(float64(r.Y-old.Y)/float64(old.H)*float64(updated.H)))
	}
	return out
}

// Shrink returns r inset by the given amounts on each side.
func (r Rect) Shrink(left, top, right, bottom int16) Rect {
	return Rect{
		X: r.X + left,
		Y: r.Y + top,
		W: clampSize(int32(r.W) - int32(left) - int32(right)),
		H: clampSize(int32(r.H) - int32(top) - int32(bottom)),
	}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int16, int16) {
	return r.X + int16(r.W/2), r.Y + int16(r.H/2)
}

func clampSize(v int32) uint16 {
	if v < 1 {
		return 1
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
