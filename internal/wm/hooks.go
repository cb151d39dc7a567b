package wm

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cwm-x11/cwm/internal/ipc"
	"github.com/cwm-x11/cwm/internal/logger"
)

// Sender delivers a response to one IPC stream. A failed send drops the
// subscription.
type Sender interface {
	Send(resp ipc.Response) error
}

type monFocusState struct {
	subs []Sender
	last *string
}

// Hooks pushes monitor-focus and tag-state changes to subscribed IPC
// streams, and spawns the optional monitor shell hooks.
type Hooks struct {
	monFocus map[Atom]*monFocusState

	tagSubs  []Sender
	lastTags []ipc.TagState
	lastMon  Atom

	scriptMonOpen  string
	scriptMonClose string
}

func newHooks() *Hooks {
	h := &Hooks{monFocus: make(map[Atom]*monFocusState)}
	if home, err := os.UserHomeDir(); err == nil {
		open := filepath.Join(home, ".config", "cwm", "mon_open")
		if _, err := os.Stat(open); err == nil {
			h.scriptMonOpen = open
		}
		closeScript := filepath.Join(home, ".config", "cwm", "mon_close")
		if _, err := os.Stat(closeScript); err == nil {
			h.scriptMonClose = closeScript
		}
	}
	return h
}

func runScript(path string, args ...string) {
	cmd := exec.Command(path, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		logger.WithComponent("hooks").Warn().Str("script", path).Err(err).Msg("failed to spawn hook script")
		return
	}
	go cmd.Wait()
}

// monOpen registers a monitor with the focus-hook table and runs the
// mon_open script.
func (h *Hooks) monOpen(id Atom, name string, bg WinID) {
	if h.monFocus[id] == nil {
		h.monFocus[id] = &monFocusState{}
	}
	if h.scriptMonOpen != "" {
		runScript(h.scriptMonOpen, fmt.Sprint(id), name, fmt.Sprint(bg))
	}
}

// monClose runs the mon_close script. Subscription state survives so a
// Reload does not sever focus hooks.
func (h *Hooks) monClose(id Atom, name string) {
	if h.scriptMonClose != "" {
		runScript(h.scriptMonClose, fmt.Sprint(id), name)
	}
}

// forgetMonitor drops a removed monitor's focus-hook state.
func (h *Hooks) forgetMonitor(id Atom) {
	delete(h.monFocus, id)
}

// monitorFocus publishes the focused-client name for a monitor when it
// changes.
func (h *Hooks) monitorFocus(mon Atom, name *string) {
	state := h.monFocus[mon]
	if state == nil {
		return
	}
	if equalStrPtr(state.last, name) {
		return
	}
	state.last = name
	resp, err := ipc.NewResponse(ipc.RespFocusedClient, ipc.FocusedClientResp{Name: name})
	if err != nil {
		return
	}
	state.subs = deliver(state.subs, resp)
}

// subscribeMonitorFocus registers a stream and sends it the current
// state immediately.
func (h *Hooks) subscribeMonitorFocus(mon Atom, s Sender) {
	state := h.monFocus[mon]
	if state == nil {
		return
	}
	resp, err := ipc.NewResponse(ipc.RespFocusedClient, ipc.FocusedClientResp{Name: state.last})
	if err != nil {
		return
	}
	if s.Send(resp) == nil {
		state.subs = append(state.subs, s)
	}
}

// subscribeTagState registers a stream and sends the current snapshot.
func (h *Hooks) subscribeTagState(wm *WindowManager, s Sender) {
	h.lastTags = tagSnapshot(wm)
	h.lastMon = wm.focusedMon
	resp, err := ipc.NewResponse(ipc.RespTagState, ipc.TagStateResp{
		Tags: h.lastTags, FocusedMon: h.lastMon,
	})
	if err != nil {
		return
	}
	if s.Send(resp) == nil {
		h.tagSubs = append(h.tagSubs, s)
	}
}

// tagStateChanged rebuilds the tag snapshot and broadcasts it when it
// differs from the last sent one.
func (h *Hooks) tagStateChanged(wm *WindowManager) {
	if len(h.tagSubs) == 0 {
		h.lastTags = nil
		return
	}
	next := tagSnapshot(wm)
	if wm.focusedMon == h.lastMon && equalTagStates(h.lastTags, next) {
		return
	}
	h.lastTags = next
	h.lastMon = wm.focusedMon
	resp, err := ipc.NewResponse(ipc.RespTagState, ipc.TagStateResp{
		Tags: next, FocusedMon: wm.focusedMon,
	})
	if err != nil {
		return
	}
	h.tagSubs = deliver(h.tagSubs, resp)
}

func tagSnapshot(wm *WindowManager) []ipc.TagState {
	out := make([]ipc.TagState, 0, len(wm.tagOrder))
	for _, id := range wm.tagOrder {
		tag := wm.tags[id]
		if tag == nil {
			continue
		}
		state := ipc.TagState{
			Name:   tag.Name,
			Urgent: tag.Urgent(),
			Empty:  tag.Empty(),
		}
		if tag.monitor != 0 {
			mon := tag.monitor
			state.Focused = &mon
		}
		out = append(out, state)
	}
	return out
}

func deliver(subs []Sender, resp ipc.Response) []Sender {
	kept := subs[:0]
	for _, s := range subs {
		if err := s.Send(resp); err == nil {
			kept = append(kept, s)
		}
	}
	return kept
}

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTagStates(a, b []ipc.TagState) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Urgent != b[i].Urgent || a[i].Empty != b[i].Empty {
			return false
		}
		af, bf := a[i].Focused, b[i].Focused
		if (af == nil) != (bf == nil) {
			return false
		}
		if af != nil && *af != *bf {
			return false
		}
	}
	return true
}
