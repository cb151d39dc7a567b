package wm

import (
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/cwm-x11/cwm/internal/geom"
	"github.com/cwm-x11/cwm/internal/logger"
)

const (
	wmHintsUrgency  = 1 << 8
	sizeHintMinSize = 1 << 4
	sizeHintMaxSize = 1 << 5
	sizeHintSize    = 1 << 3
	wmStateNormal   = 1
	wmStateIconic   = 3
)

// X11Display implements Display over a live X server connection.
type X11Display struct {
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
	root   xproto.Window

	mu    sync.Mutex
	atoms map[string]xproto.Atom
	names map[xproto.Atom]string

	argbDepth    byte
	argbVisual   xproto.Visualid
	argbColormap xproto.Colormap

	events chan Event
}

// NewX11Display connects to the X server and initialises the RandR, SHAPE
// and RENDER extensions.
func NewX11Display() (*X11Display, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	if err := randr.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to init RandR: %w", err)
	}
	if err := shape.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to init SHAPE: %w", err)
	}
	if err := render.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to init RENDER: %w", err)
	}

	d := &X11Display{
		conn:   conn,
		screen: screen,
		root:   screen.Root,
		atoms:  make(map[string]xproto.Atom),
		names:  make(map[xproto.Atom]string),
		events: make(chan Event, 64),
	}
	d.pickArgbVisual()

	if err := randr.SelectInputChecked(conn, d.root, randr.NotifyMaskScreenChange).Check(); err != nil {
		logger.WithComponent("x11").Warn().Err(err).Msg("failed to select RandR input")
	}

	go d.eventLoop()
	return d, nil
}

// pickArgbVisual walks the RENDER picture formats for a 32-bit visual with
// an alpha channel, used by the selection overlay.
func (d *X11Display) pickArgbVisual() {
	reply, err := render.QueryPictFormats(d.conn).Reply()
	if err != nil {
		return
	}
	var argbFormat render.Pictformat
	for _, f := range reply.Formats {
		if f.Depth == 32 && f.Direct.AlphaMask != 0 {
			argbFormat = f.Id
			break
		}
	}
	if argbFormat == 0 {
		return
	}
	for _, s := range reply.Screens {
		for _, depth := range s.Depths {
			if depth.Depth != 32 {
				continue
			}
			for _, v := range depth.Visuals {
				if v.Format == argbFormat {
					d.argbDepth = 32
					d.argbVisual = v.Visual
					cmap, err := d.conn.NewId()
					if err != nil {
						return
					}
					d.argbColormap = xproto.Colormap(cmap)
					xproto.CreateColormap(d.conn, xproto.ColormapAllocNone,
						d.argbColormap, d.root, d.argbVisual)
					return
				}
			}
		}
	}
}

func (d *X11Display) eventLoop() {
	log := logger.WithComponent("x11")
	defer close(d.events)
	for {
		ev, err := d.conn.WaitForEvent()
		if ev == nil && err == nil {
			log.Error().Msg("X connection closed")
			return
		}
		if err != nil {
			// Request errors (e.g. configure on a destroyed window) are
			// absorbed; only a dead connection ends the loop.
			log.Debug().Str("error", err.Error()).Msg("X error")
			continue
		}
		if out := translate(ev); out != nil {
			d.events <- out
		}
	}
}

func translate(ev xgb.Event) Event {
	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		return MapRequestEvent{Win: uint32(e.Window)}
	case xproto.DestroyNotifyEvent:
		return DestroyNotifyEvent{Win: uint32(e.Window)}
	case xproto.UnmapNotifyEvent:
		return UnmapNotifyEvent{Win: uint32(e.Window)}
	case xproto.ConfigureRequestEvent:
		return ConfigureRequestEvent{
			Win:         uint32(e.Window),
			Rect:        geom.NewRect(e.X, e.Y, e.Width, e.Height),
			BorderWidth: e.BorderWidth,
		}
	case xproto.EnterNotifyEvent:
		return EnterNotifyEvent{Win: uint32(e.Event)}
	case xproto.PropertyNotifyEvent:
		return PropertyNotifyEvent{Win: uint32(e.Window), Atom: uint32(e.Atom)}
	case xproto.ClientMessageEvent:
		out := ClientMessageEvent{Win: uint32(e.Window), Type: uint32(e.Type)}
		if e.Format == 32 {
			copy(out.Data[:], e.Data.Data32)
		}
		return out
	case xproto.ButtonPressEvent:
		return ButtonPressEvent{
			Child:  uint32(e.Child),
			Button: byte(e.Detail),
			X:      e.RootX,
			Y:      e.RootY,
			State:  e.State,
		}
	case xproto.ButtonReleaseEvent:
		return ButtonReleaseEvent{Button: byte(e.Detail)}
	case xproto.MotionNotifyEvent:
		return MotionEvent{X: e.RootX, Y: e.RootY}
	case randr.ScreenChangeNotifyEvent:
		return ScreenChangeEvent{}
	}
	return nil
}

// Events returns the translated event stream.
func (d *X11Display) Events() <-chan Event {
	return d.events
}

// Root returns the root window id.
func (d *X11Display) Root() WinID {
	return uint32(d.root)
}

// RootRect returns the root window geometry.
func (d *X11Display) RootRect() geom.Rect {
	return geom.NewRect(0, 0, d.screen.WidthInPixels, d.screen.HeightInPixels)
}

// Flush pushes all queued requests to the server.
func (d *X11Display) Flush() error {
	d.conn.Sync()
	return nil
}

// Close drops the connection.
func (d *X11Display) Close() {
	d.conn.Close()
}

// InternAtom resolves (and caches) an atom by name.
func (d *X11Display) InternAtom(name string) (Atom, error) {
	d.mu.Lock()
	if a, ok := d.atoms[name]; ok {
		d.mu.Unlock()
		return uint32(a), nil
	}
	d.mu.Unlock()
	reply, err := xproto.InternAtom(d.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern atom %q: %w", name, err)
	}
	d.mu.Lock()
	d.atoms[name] = reply.Atom
	d.names[reply.Atom] = name
	d.mu.Unlock()
	return uint32(reply.Atom), nil
}

// AtomName resolves an atom back to its name.
func (d *X11Display) AtomName(a Atom) (string, error) {
	d.mu.Lock()
	if n, ok := d.names[xproto.Atom(a)]; ok {
		d.mu.Unlock()
		return n, nil
	}
	d.mu.Unlock()
	reply, err := xproto.GetAtomName(d.conn, xproto.Atom(a)).Reply()
	if err != nil {
		return "", fmt.Errorf("failed to get atom name: %w", err)
	}
	d.mu.Lock()
	d.names[xproto.Atom(a)] = reply.Name
	d.atoms[reply.Name] = xproto.Atom(a)
	d.mu.Unlock()
	return reply.Name, nil
}

func (d *X11Display) atom(name string) xproto.Atom {
	a, err := d.InternAtom(name)
	if err != nil {
		return 0
	}
	return xproto.Atom(a)
}

// BecomeWM claims substructure redirection on the root window.
func (d *X11Display) BecomeWM() error {
	const mask = xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskSubstructureNotify |
		xproto.EventMaskStructureNotify
	err := xproto.ChangeWindowAttributesChecked(d.conn, d.root,
		xproto.CwEventMask, []uint32{mask}).Check()
	if err != nil {
		return fmt.Errorf("could not become window manager (another WM running?): %w", err)
	}
	return nil
}

// GrabButtons registers the pointer bindings: a sync grab on button 1 for
// click-to-raise, async grabs on mod+1 / mod+3 for move and resize.
func (d *X11Display) GrabButtons() error {
	xproto.UngrabButton(d.conn, xproto.ButtonIndexAny, d.root, xproto.ModMaskAny)
	eventMask := uint16(xproto.EventMaskButtonPress)
	if err := xproto.GrabButtonChecked(d.conn, false, d.root, eventMask,
		xproto.GrabModeSync, xproto.GrabModeAsync, d.root, xproto.CursorNone,
		xproto.ButtonIndex1, xproto.ModMaskAny).Check(); err != nil {
		return fmt.Errorf("failed to grab button 1: %w", err)
	}
	for _, mod := range []uint16{0, uint16(xproto.ModMaskLock)} {
		xproto.GrabButton(d.conn, false, d.root, eventMask,
			xproto.GrabModeAsync, xproto.GrabModeAsync, d.root, xproto.CursorNone,
			xproto.ButtonIndex1, uint16(xproto.ModMask1)|mod)
		xproto.GrabButton(d.conn, false, d.root, eventMask,
			xproto.GrabModeAsync, xproto.GrabModeAsync, d.root, xproto.CursorNone,
			xproto.ButtonIndex3, uint16(xproto.ModMask1)|mod)
	}
	return nil
}

// ExistingWindows lists viewable, non-override-redirect top-level windows
// for adoption at startup.
func (d *X11Display) ExistingWindows() ([]WinID, error) {
	tree, err := xproto.QueryTree(d.conn, d.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}
	var out []WinID
	for _, child := range tree.Children {
		attrs, err := xproto.GetWindowAttributes(d.conn, child).Reply()
		if err != nil || attrs.OverrideRedirect || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		out = append(out, uint32(child))
	}
	return out, nil
}

// CreateFrame creates the decoration frame for a client window.
func (d *X11Display) CreateFrame(win WinID, r geom.Rect, borderWidth uint16, borderPixel uint32) (WinID, error) {
	id, err := d.conn.NewId()
	if err != nil {
		return 0, err
	}
	frame := xproto.Window(id)
	const mask = xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwEventMask
	const events = xproto.EventMaskEnterWindow |
		xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskSubstructureNotify
	err = xproto.CreateWindowChecked(d.conn, xproto.WindowClassCopyFromParent, frame, d.root,
		r.X, r.Y, r.W, r.H, borderWidth,
		xproto.WindowClassInputOutput, d.screen.RootVisual,
		mask, []uint32{0, borderPixel, events}).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create frame for %d: %w", win, err)
	}
	xproto.ChangeWindowAttributes(d.conn, xproto.Window(win),
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange})
	return uint32(frame), nil
}

// CreateBackground creates a monitor background window. It sits below
// everything and exists to catch pointer-enter events for
// focus-follows-pointer across monitors.
func (d *X11Display) CreateBackground(r geom.Rect) (WinID, error) {
	id, err := d.conn.NewId()
	if err != nil {
		return 0, err
	}
	win := xproto.Window(id)
	const mask = xproto.CwBackPixel | xproto.CwOverrideRedirect | xproto.CwEventMask
	err = xproto.CreateWindowChecked(d.conn, xproto.WindowClassCopyFromParent, win, d.root,
		r.X, r.Y, r.W, r.H, 0,
		xproto.WindowClassInputOutput, d.screen.RootVisual,
		mask, []uint32{uint32(d.screen.BlackPixel), 1, xproto.EventMaskEnterWindow}).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create background window: %w", err)
	}
	xproto.ConfigureWindow(d.conn, win, xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeBelow})
	xproto.MapWindow(d.conn, win)
	return uint32(win), nil
}

// CreateOverlay creates the selection overlay: a 32-bit ARGB
// override-redirect window whose input region is zeroed via SHAPE so
// pointer events pass through it. Without an ARGB visual it uses the
// root depth and visual instead.
func (d *X11Display) CreateOverlay(r geom.Rect, fill uint32) (WinID, error) {
	id, err := d.conn.NewId()
	if err != nil {
		return 0, err
	}
	win := xproto.Window(id)
	depth := d.argbDepth
	visual := d.argbVisual
	mask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwOverrideRedirect | xproto.CwColormap)
	values := []uint32{fill, 0, 1, uint32(d.argbColormap)}
	if depth == 0 {
		depth = d.screen.RootDepth
		visual = d.screen.RootVisual
		mask = xproto.CwBackPixel | xproto.CwOverrideRedirect
		values = []uint32{fill, 1}
	}
	err = xproto.CreateWindowChecked(d.conn, depth, win, d.root,
		r.X, r.Y, r.W, r.H, 0,
		xproto.WindowClassInputOutput, visual, mask, values).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create overlay window: %w", err)
	}
	shape.Rectangles(d.conn, shape.SoSet, shape.SkInput, 0, win, 0, 0, nil)
	return uint32(win), nil
}

// DestroyWindow destroys w.
func (d *X11Display) DestroyWindow(w WinID) error {
	xproto.DestroyWindow(d.conn, xproto.Window(w))
	return nil
}

// MapWindow maps w.
func (d *X11Display) MapWindow(w WinID) error {
	xproto.MapWindow(d.conn, xproto.Window(w))
	return nil
}

// UnmapWindow unmaps w.
func (d *X11Display) UnmapWindow(w WinID) error {
	xproto.UnmapWindow(d.conn, xproto.Window(w))
	return nil
}

// Reparent moves win under parent at the given offset.
func (d *X11Display) Reparent(win, parent WinID, x, y int16) error {
	xproto.ReparentWindow(d.conn, xproto.Window(win), xproto.Window(parent), x, y)
	return nil
}

// Configure applies the given changes in one ConfigureWindow request.
func (d *X11Display) Configure(w WinID, ch WinChanges) error {
	var mask uint16
	var values []uint32
	if ch.Rect != nil {
		mask |= xproto.ConfigWindowX | xproto.ConfigWindowY |
			xproto.ConfigWindowWidth | xproto.ConfigWindowHeight
		values = append(values,
			uint32(uint16(ch.Rect.X)), uint32(uint16(ch.Rect.Y)),
			uint32(ch.Rect.W), uint32(ch.Rect.H))
	}
	if ch.BorderWidth != nil {
		mask |= xproto.ConfigWindowBorderWidth
		values = append(values, uint32(*ch.BorderWidth))
	}
	if ch.Stack != nil {
		if ch.Sibling != 0 {
			mask |= xproto.ConfigWindowSibling
			values = append(values, ch.Sibling)
		}
		mask |= xproto.ConfigWindowStackMode
		if *ch.Stack == StackBelow {
			values = append(values, xproto.StackModeBelow)
		} else {
			values = append(values, xproto.StackModeAbove)
		}
	}
	if mask == 0 {
		return nil
	}
	xproto.ConfigureWindow(d.conn, xproto.Window(w), mask, values)
	return nil
}

// SetBorderColor repaints the border of w.
func (d *X11Display) SetBorderColor(w WinID, pixel uint32) error {
	xproto.ChangeWindowAttributes(d.conn, xproto.Window(w),
		xproto.CwBorderPixel, []uint32{pixel})
	return nil
}

// SetInputFocus focuses win, reverting to POINTER_ROOT when win is 0.
func (d *X11Display) SetInputFocus(win WinID) error {
	if win == 0 {
		xproto.SetInputFocus(d.conn, xproto.InputFocusPointerRoot,
			xproto.Window(xproto.InputFocusPointerRoot), xproto.TimeCurrentTime)
		return nil
	}
	xproto.SetInputFocus(d.conn, xproto.InputFocusParent,
		xproto.Window(win), xproto.TimeCurrentTime)
	return nil
}

// GrabPointer starts a pointer grab for a move/resize drag.
func (d *X11Display) GrabPointer() error {
	const mask = uint16(xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion)
	_, err := xproto.GrabPointer(d.conn, false, d.root, mask,
		xproto.GrabModeAsync, xproto.GrabModeAsync, d.root,
		xproto.CursorNone, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return fmt.Errorf("failed to grab pointer: %w", err)
	}
	return nil
}

// UngrabPointer ends the drag grab.
func (d *X11Display) UngrabPointer() error {
	xproto.UngrabPointer(d.conn, xproto.TimeCurrentTime)
	return nil
}

// ReplayPointer releases a sync-grabbed button press back to the client.
func (d *X11Display) ReplayPointer() error {
	xproto.AllowEvents(d.conn, xproto.AllowReplayPointer, xproto.TimeCurrentTime)
	return nil
}

// QueryPointer returns the pointer position in root coordinates.
func (d *X11Display) QueryPointer() (int16, int16, error) {
	reply, err := xproto.QueryPointer(d.conn, d.root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return reply.RootX, reply.RootY, nil
}

func (d *X11Display) property(win xproto.Window, prop, typ xproto.Atom) []byte {
	reply, err := xproto.GetProperty(d.conn, false, win, prop, typ, 0, 1<<20).Reply()
	if err != nil || reply.ValueLen == 0 {
		return nil
	}
	return reply.Value
}

func decode32(data []byte) []uint32 {
	out := make([]uint32, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		out = append(out, uint32(data[i])|uint32(data[i+1])<<8|
			uint32(data[i+2])<<16|uint32(data[i+3])<<24)
	}
	return out
}

// ReadProps reads every property the manager consults on adoption.
func (d *X11Display) ReadProps(win WinID) (WindowProps, error) {
	w := xproto.Window(win)
	var p WindowProps

	for _, t := range decode32(d.property(w, d.atom("_NET_WM_WINDOW_TYPE"), xproto.AtomAtom)) {
		p.Types = append(p.Types, t)
	}
	for _, s := range decode32(d.property(w, d.atom("_NET_WM_STATE"), xproto.AtomAtom)) {
		if xproto.Atom(s) == d.atom("_NET_WM_STATE_FULLSCREEN") {
			p.Fullscreen = true
		}
		if xproto.Atom(s) == d.atom("_NET_WM_STATE_STICKY") {
			p.Sticky = true
		}
	}
	if hints := decode32(d.property(w, xproto.AtomWmHints, xproto.AtomWmHints)); len(hints) > 0 {
		p.Urgent = hints[0]&wmHintsUrgency != 0
	}
	if hints := decode32(d.property(w, xproto.AtomWmNormalHints, xproto.AtomWmSizeHints)); len(hints) >= 10 {
		flags := hints[0]
		if flags&sizeHintSize != 0 {
			p.Size = [2]uint16{uint16(hints[3]), uint16(hints[4])}
		}
		if flags&sizeHintMinSize != 0 {
			p.MinSize = [2]uint16{uint16(hints[5]), uint16(hints[6])}
		}
		if flags&sizeHintMaxSize != 0 {
			p.MaxSize = [2]uint16{uint16(hints[7]), uint16(hints[8])}
		}
	}
	// WM_CLASS is instance\0class\0
	if raw := d.property(w, xproto.AtomWmClass, xproto.AtomString); raw != nil {
		parts := strings.Split(string(raw), "\x00")
		if len(parts) >= 1 {
			p.Instance = parts[0]
		}
		if len(parts) >= 2 {
			p.Class = parts[1]
		}
	}
	if name := d.property(w, d.atom("_NET_WM_NAME"), d.atom("UTF8_STRING")); name != nil {
		p.Name = string(name)
		p.NetName = true
	} else if name := d.property(w, xproto.AtomWmName, xproto.GetPropertyTypeAny); name != nil {
		p.Name = string(name)
	}
	if transient := decode32(d.property(w, xproto.AtomWmTransientFor, xproto.AtomWindow)); len(transient) > 0 && transient[0] != 0 {
		p.Transient = true
	}
	for _, proto := range decode32(d.property(w, d.atom("WM_PROTOCOLS"), xproto.AtomAtom)) {
		if xproto.Atom(proto) == d.atom("WM_DELETE_WINDOW") {
			p.SupportsDelete = true
		}
	}
	if struts := decode32(d.property(w, d.atom("_NET_WM_STRUT_PARTIAL"), xproto.AtomCardinal)); len(struts) >= 4 {
		p.Struts = Struts{Left: struts[0], Right: struts[1], Top: struts[2], Bottom: struts[3]}
	} else if struts := decode32(d.property(w, d.atom("_NET_WM_STRUT"), xproto.AtomCardinal)); len(struts) >= 4 {
		p.Struts = Struts{Left: struts[0], Right: struts[1], Top: struts[2], Bottom: struts[3]}
	}
	return p, nil
}

// WindowName reads the window title, preferring _NET_WM_NAME.
func (d *X11Display) WindowName(win WinID, net bool) (string, bool) {
	w := xproto.Window(win)
	if net {
		if name := d.property(w, d.atom("_NET_WM_NAME"), d.atom("UTF8_STRING")); name != nil {
			return string(name), true
		}
	}
	if name := d.property(w, xproto.AtomWmName, xproto.GetPropertyTypeAny); name != nil {
		return string(name), true
	}
	return "", false
}

// WindowUrgent reads the urgency bit out of WM_HINTS.
func (d *X11Display) WindowUrgent(win WinID) bool {
	hints := decode32(d.property(xproto.Window(win), xproto.AtomWmHints, xproto.AtomWmHints))
	return len(hints) > 0 && hints[0]&wmHintsUrgency != 0
}

func encode32(values []uint32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return out
}

// SetWMState writes the ICCCM WM_STATE property.
func (d *X11Display) SetWMState(win WinID, iconic bool) error {
	state := uint32(wmStateNormal)
	if iconic {
		state = wmStateIconic
	}
	a := d.atom("WM_STATE")
	xproto.ChangeProperty(d.conn, xproto.PropModeReplace, xproto.Window(win),
		a, a, 32, 2, encode32([]uint32{state, 0}))
	return nil
}

// SetDesktop writes _NET_WM_DESKTOP.
func (d *X11Display) SetDesktop(win WinID, idx uint32) error {
	xproto.ChangeProperty(d.conn, xproto.PropModeReplace, xproto.Window(win),
		d.atom("_NET_WM_DESKTOP"), xproto.AtomCardinal, 32, 1, encode32([]uint32{idx}))
	return nil
}

// AdvertiseSupport publishes the EWMH support properties against w.
func (d *X11Display) AdvertiseSupport(w WinID) error {
	supported := []uint32{
		uint32(d.atom("_NET_WM_STATE")),
		uint32(d.atom("_NET_WM_STATE_FULLSCREEN")),
		uint32(d.atom("_NET_WM_STATE_DEMANDS_ATTENTION")),
		uint32(d.atom("_NET_ACTIVE_WINDOW")),
	}
	xproto.ChangeProperty(d.conn, xproto.PropModeReplace, d.root,
		d.atom("_NET_SUPPORTED"), xproto.AtomAtom, 32,
		uint32(len(supported)), encode32(supported))
	check := d.atom("_NET_SUPPORTING_WM_CHECK")
	xproto.ChangeProperty(d.conn, xproto.PropModeReplace, d.root,
		check, xproto.AtomWindow, 32, 1, encode32([]uint32{w}))
	xproto.ChangeProperty(d.conn, xproto.PropModeReplace, xproto.Window(w),
		check, xproto.AtomWindow, 32, 1, encode32([]uint32{w}))
	return nil
}

// SendDelete asks the client to close itself via WM_DELETE_WINDOW.
func (d *X11Display) SendDelete(win WinID) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(win),
		Type:   d.atom("WM_PROTOCOLS"),
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(d.atom("WM_DELETE_WINDOW")), uint32(xproto.TimeCurrentTime), 0, 0, 0,
		}),
	}
	xproto.SendEvent(d.conn, false, xproto.Window(win),
		xproto.EventMaskNoEvent, string(ev.Bytes()))
	return nil
}

// KillWindow force-kills the client owning win.
func (d *X11Display) KillWindow(win WinID) error {
	xproto.KillClient(d.conn, win)
	return nil
}

// Monitors enumerates active RandR monitors.
func (d *X11Display) Monitors() ([]MonitorInfo, error) {
	reply, err := randr.GetMonitors(d.conn, d.root, true).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get monitors: %w", err)
	}
	out := make([]MonitorInfo, 0, len(reply.Monitors))
	for _, m := range reply.Monitors {
		name, _ := d.AtomName(uint32(m.Name))
		out = append(out, MonitorInfo{
			ID:      uint32(m.Name),
			Name:    name,
			Rect:    geom.NewRect(m.X, m.Y, m.Width, m.Height),
			Primary: m.Primary,
		})
	}
	return out, nil
}
