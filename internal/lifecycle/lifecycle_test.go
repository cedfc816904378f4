package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/akhmelev/evo-backend/internal/hub"
)

func recvHubMsg(t *testing.T, ch <-chan hub.HubMsg) hub.HubMsg {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for hub message")
		return nil // unreachable
	}
}

func TestManager_RelaysInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := make(chan hub.HubMsg, 8)
	m := NewManager(ctx, sink)

	sess := hub.NewSession("u0")
	m.Connected(sess)
	m.Disconnected(sess.ID, "u0")

	reg, ok := recvHubMsg(t, sink).(hub.Register)
	if !ok || reg.Session != sess {
		t.Fatalf("first message = %+v, want Register for the session", reg)
	}
	unreg, ok := recvHubMsg(t, sink).(hub.Unregister)
	if !ok || unreg.SessionID != sess.ID || unreg.UserID != "u0" {
		t.Fatalf("second message = %+v, want matching Unregister", unreg)
	}
}

func TestManager_ReconnectChurnStaysOrdered(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := make(chan hub.HubMsg, 16)
	m := NewManager(ctx, sink)

	// a client reconnecting quickly: old drop reported after the new
	// session registered must still arrive in that order
	old := hub.NewSession("u0")
	m.Connected(old)
	fresh := hub.NewSession("u0")
	m.Connected(fresh)
	m.Disconnected(old.ID, "u0")

	if _, ok := recvHubMsg(t, sink).(hub.Register); !ok {
		t.Fatal("want Register first")
	}
	reg, ok := recvHubMsg(t, sink).(hub.Register)
	if !ok || reg.Session != fresh {
		t.Fatal("want Register for the fresh session second")
	}
	unreg, ok := recvHubMsg(t, sink).(hub.Unregister)
	if !ok || unreg.SessionID != old.ID {
		t.Fatal("want the old session's Unregister last")
	}
}
