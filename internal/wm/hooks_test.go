package wm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwm-x11/cwm/internal/ipc"
)

func tagStateOf(t *testing.T, resp ipc.Response) ipc.TagStateResp {
	t.Helper()
	require.Equal(t, ipc.RespTagState, resp.Type)
	var out ipc.TagStateResp
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

func TestTagStateSubscription(t *testing.T) {
	manager, dpy := newTestWM(t)
	s := &recordingSender{}

	manager.Dispatch(request(t, ipc.ReqTagState, nil), s)
	require.Len(t, s.responses, 1)
	initial := tagStateOf(t, s.responses[0])
	require.Len(t, initial.Tags, 3)
	require.Equal(t, uint32(900), initial.FocusedMon)
	require.True(t, initial.Tags[0].Empty)
	require.NotNil(t, initial.Tags[0].Focused)
	require.Nil(t, initial.Tags[1].Focused)

	// managing a client flips tag I's empty bit exactly once
	mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	require.Len(t, s.responses, 2)
	update := tagStateOf(t, s.responses[1])
	require.False(t, update.Tags[0].Empty)

	// a change that leaves the snapshot identical emits nothing
	manager.Dispatch(request(t, ipc.ReqReload, nil), s)
	require.Len(t, s.responses, 2)
}

func TestMonitorFocusSubscription(t *testing.T) {
	manager, dpy := newTestWM(t)
	s := &recordingSender{}

	manager.Dispatch(request(t, ipc.ReqMonitorFocus, ipc.MonArg{}), s)
	require.Len(t, s.responses, 1)

	mapWindow(t, manager, dpy, WindowProps{Name: "editor"})
	require.GreaterOrEqual(t, len(s.responses), 2)
	last := s.responses[len(s.responses)-1]
	require.Equal(t, ipc.RespFocusedClient, last.Type)
	var payload ipc.FocusedClientResp
	require.NoError(t, json.Unmarshal(last.Data, &payload))
	require.NotNil(t, payload.Name)
	require.Equal(t, "editor", *payload.Name)

	// the same name again produces no duplicate delivery
	count := len(s.responses)
	tag := manager.focusedTag()
	tag.setActiveWindow(payload.Name, manager.aux.Hooks)
	require.Equal(t, count, len(s.responses))
}

func TestDeadSubscriberIsDropped(t *testing.T) {
	manager, dpy := newTestWM(t)
	s := &recordingSender{}
	manager.Dispatch(request(t, ipc.ReqTagState, nil), s)
	require.Len(t, manager.aux.Hooks.tagSubs, 1)

	s.fail = true
	mapWindow(t, manager, dpy, WindowProps{Name: "a"})
	require.Empty(t, manager.aux.Hooks.tagSubs)
}

func TestUrgencyReachesTagState(t *testing.T) {
	manager, dpy := newTestWM(t)
	_, tag, idx := mapWindow(t, manager, dpy, WindowProps{Name: "a"})

	s := &recordingSender{}
	manager.Dispatch(request(t, ipc.ReqTagState, nil), s)

	require.True(t, tag.setUrgent(idx, true))
	manager.aux.Hooks.tagStateChanged(manager)
	update := tagStateOf(t, s.responses[len(s.responses)-1])
	require.True(t, update.Tags[0].Urgent)
}
