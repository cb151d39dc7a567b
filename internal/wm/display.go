package wm

import "github.com/cwm-x11/cwm/internal/geom"

// WinID is a window identifier assigned by the display server.
type WinID = uint32

// Atom is an interned string identifier from the display server.
type Atom = uint32

// StackMode positions a window relative to a sibling.
type StackMode int

const (
	StackAbove StackMode = iota
	StackBelow
)

// WinChanges is the payload of a single ConfigureWindow call. Nil fields
// are left out of the request.
type WinChanges struct {
	Rect        *geom.Rect
	BorderWidth *uint16
	Sibling     WinID
	Stack       *StackMode
}

// Struts is the screen space a panel reserves on each root edge.
type Struts struct {
	Left   uint32
	Right  uint32
	Top    uint32
	Bottom uint32
}

// WindowProps bundles everything the manager reads off a window when
// adopting it.
type WindowProps struct {
	Types          []Atom
	Fullscreen     bool
	Sticky         bool
	Urgent         bool
	MinSize        [2]uint16
	MaxSize        [2]uint16
	Size           [2]uint16
	Class          string
	Instance       string
	Name           string
	NetName        bool
	Transient      bool
	SupportsDelete bool
	Struts         Struts
}

// MonitorInfo describes one RandR output.
type MonitorInfo struct {
	ID      Atom
	Name    string
	Rect    geom.Rect
	Primary bool
}

// Display is the capability the geometry engine consumes from the
// display server. The engine never talks X11 directly; everything it
// needs funnels through here, which is also what makes it testable
// against a fake.
type Display interface {
	Root() WinID
	RootRect() geom.Rect
	Flush() error
	Close()

	InternAtom(name string) (Atom, error)
	AtomName(a Atom) (string, error)

	// BecomeWM claims substructure redirection on the root; fails when
	// another window manager is running.
	BecomeWM() error
	GrabButtons() error
	ExistingWindows() ([]WinID, error)

	CreateFrame(win WinID, r geom.Rect, borderWidth uint16, borderPixel uint32) (WinID, error)
	CreateBackground(r geom.Rect) (WinID, error)
	// CreateOverlay creates an ARGB, override-redirect, input-transparent
	// window for the selection overlay.
	CreateOverlay(r geom.Rect, fill uint32) (WinID, error)
	DestroyWindow(w WinID) error
	MapWindow(w WinID) error
	UnmapWindow(w WinID) error
	Reparent(win, parent WinID, x, y int16) error
	Configure(w WinID, ch WinChanges) error
	SetBorderColor(w WinID, pixel uint32) error

	// SetInputFocus focuses win, or reverts to POINTER_ROOT when win is 0.
	SetInputFocus(win WinID) error
	GrabPointer() error
	UngrabPointer() error
	ReplayPointer() error
	QueryPointer() (x, y int16, err error)

	ReadProps(win WinID) (WindowProps, error)
	WindowName(win WinID, net bool) (string, bool)
	WindowUrgent(win WinID) bool

	SetWMState(win WinID, iconic bool) error
	SetDesktop(win WinID, idx uint32) error
	// AdvertiseSupport publishes _NET_SUPPORTED and points
	// _NET_SUPPORTING_WM_CHECK at the given window.
	AdvertiseSupport(w WinID) error
	SendDelete(win WinID) error
	KillWindow(win WinID) error

	Monitors() ([]MonitorInfo, error)

	// Events yields the translated event stream. The channel closes when
	// the connection dies.
	Events() <-chan Event
}

// Event is one display-server event, already reduced to what the engine
// consumes.
type Event any

type MapRequestEvent struct {
	Win WinID
}

type DestroyNotifyEvent struct {
	Win WinID
}

type UnmapNotifyEvent struct {
	Win WinID
}

type ConfigureRequestEvent struct {
	Win         WinID
	Rect        geom.Rect
	BorderWidth uint16
}

type EnterNotifyEvent struct {
	Win WinID
}

type PropertyNotifyEvent struct {
	Win  WinID
	Atom Atom
}

type ClientMessageEvent struct {
	Win  WinID
	Type Atom
	Data [5]uint32
}

type ButtonPressEvent struct {
	Child  WinID
	Button byte
	X      int16
	Y      int16
	State  uint16
}

type ButtonReleaseEvent struct {
	Button byte
}

type MotionEvent struct {
	X int16
	Y int16
}

type ScreenChangeEvent struct{}
