package wm

import (
	"fmt"

	"github.com/cwm-x11/cwm/internal/geom"
)

// fakeDisplay is an in-memory Display. It records every configure so
// tests can assert on the wire traffic the engine produces.
type fakeDisplay struct {
	nextID   uint32
	nextAtom uint32
	atoms    map[string]Atom
	names    map[Atom]string

	monitors []MonitorInfo
	props    map[WinID]WindowProps
	mapped   map[WinID]bool
	rects    map[WinID]geom.Rect
	focus    WinID

	configures []configureCall
	deleted    []WinID
	killed     []WinID
	events     chan Event
}

type configureCall struct {
	win WinID
	ch  WinChanges
}

func newFakeDisplay(monitors ...MonitorInfo) *fakeDisplay {
	return &fakeDisplay{
		nextID:   0x400000,
		nextAtom: 100,
		atoms:    make(map[string]Atom),
		names:    make(map[Atom]string),
		monitors: monitors,
		props:    make(map[WinID]WindowProps),
		mapped:   make(map[WinID]bool),
		rects:    make(map[WinID]geom.Rect),
		events:   make(chan Event, 64),
	}
}

func (d *fakeDisplay) newWindow() WinID {
	d.nextID++
	return d.nextID
}

func (d *fakeDisplay) Root() WinID            { return 1 }
func (d *fakeDisplay) RootRect() geom.Rect    { return geom.NewRect(0, 0, 1920, 1080) }
func (d *fakeDisplay) Flush() error           { return nil }
func (d *fakeDisplay) Close()                 {}
func (d *fakeDisplay) BecomeWM() error        { return nil }
func (d *fakeDisplay) GrabButtons() error     { return nil }
func (d *fakeDisplay) Events() <-chan Event   { return d.events }

func (d *fakeDisplay) InternAtom(name string) (Atom, error) {
	if a, ok := d.atoms[name]; ok {
		return a, nil
	}
	d.nextAtom++
	d.atoms[name] = d.nextAtom
	d.names[d.nextAtom] = name
	return d.nextAtom, nil
}

func (d *fakeDisplay) AtomName(a Atom) (string, error) {
	if n, ok := d.names[a]; ok {
		return n, nil
	}
	return "", fmt.Errorf("unknown atom %d", a)
}

func (d *fakeDisplay) ExistingWindows() ([]WinID, error) { return nil, nil }

func (d *fakeDisplay) CreateFrame(win WinID, r geom.Rect, borderWidth uint16, borderPixel uint32) (WinID, error) {
	id := d.newWindow()
	d.rects[id] = r
	return id, nil
}

func (d *fakeDisplay) CreateBackground(r geom.Rect) (WinID, error) {
	id := d.newWindow()
	d.rects[id] = r
	d.mapped[id] = true
	return id, nil
}

func (d *fakeDisplay) CreateOverlay(r geom.Rect, fill uint32) (WinID, error) {
	id := d.newWindow()
	d.rects[id] = r
	return id, nil
}

func (d *fakeDisplay) DestroyWindow(w WinID) error {
	d.deleted = append(d.deleted, w)
	delete(d.mapped, w)
	return nil
}

func (d *fakeDisplay) MapWindow(w WinID) error {
	d.mapped[w] = true
	return nil
}

func (d *fakeDisplay) UnmapWindow(w WinID) error {
	d.mapped[w] = false
	return nil
}

func (d *fakeDisplay) Reparent(win, parent WinID, x, y int16) error { return nil }

func (d *fakeDisplay) Configure(w WinID, ch WinChanges) error {
	if ch.Rect != nil {
		d.rects[w] = *ch.Rect
	}
	d.configures = append(d.configures, configureCall{win: w, ch: ch})
	return nil
}

func (d *fakeDisplay) SetBorderColor(w WinID, pixel uint32) error { return nil }

func (d *fakeDisplay) SetInputFocus(win WinID) error {
	d.focus = win
	return nil
}

func (d *fakeDisplay) GrabPointer() error               { return nil }
func (d *fakeDisplay) UngrabPointer() error             { return nil }
func (d *fakeDisplay) ReplayPointer() error             { return nil }
func (d *fakeDisplay) QueryPointer() (int16, int16, error) { return 0, 0, nil }

func (d *fakeDisplay) ReadProps(win WinID) (WindowProps, error) {
	return d.props[win], nil
}

func (d *fakeDisplay) WindowName(win WinID, net bool) (string, bool) {
	p := d.props[win]
	if p.Name == "" {
		return "", false
	}
	return p.Name, true
}

func (d *fakeDisplay) WindowUrgent(win WinID) bool {
	return d.props[win].Urgent
}

func (d *fakeDisplay) SetWMState(win WinID, iconic bool) error  { return nil }
func (d *fakeDisplay) SetDesktop(win WinID, idx uint32) error   { return nil }
func (d *fakeDisplay) AdvertiseSupport(w WinID) error           { return nil }
func (d *fakeDisplay) SendDelete(win WinID) error {
	d.deleted = append(d.deleted, win)
	return nil
}

func (d *fakeDisplay) KillWindow(win WinID) error {
	d.killed = append(d.killed, win)
	return nil
}

func (d *fakeDisplay) Monitors() ([]MonitorInfo, error) {
	return d.monitors, nil
}

// lastConfigure returns the most recent configure for a window.
func (d *fakeDisplay) lastConfigure(w WinID) (configureCall, bool) {
	for i := len(d.configures) - 1; i >= 0; i-- {
		if d.configures[i].win == w {
			return d.configures[i], true
		}
	}
	return configureCall{}, false
}
