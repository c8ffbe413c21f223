package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// feedServer upgrades one connection, echoes a change event for every scope
// the client subscribes to, then waits for the test to close it. The upgraded
// server-side conn is handed back on the channel so tests can sever the link
// directly; websocket hijacks the connection from the HTTP server, so closing
// the httptest.Server alone never reaches it.
func feedServer(t *testing.T) (*httptest.Server, <-chan *websocket.Conn) {
	t.Helper()
	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conns <- conn

		for {
			var msg ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Action != ActionSubscribe {
				continue
			}
			for _, scope := range msg.Scopes {
				conn.WriteJSON(ServerMessage{Type: MessageSubscribed, Scopes: []string{scope}})
				conn.WriteJSON(ServerMessage{
					Type: MessageChange,
					Event: &Event{
						Kind:  KindInsert,
						Table: TableSchedules,
						Scope: scope,
						New:   json.RawMessage(`{"id":"s1","title":"PR Matematika","date":"2024-09-14","time":"10:00"}`),
					},
				})
			}
		}
	}))
	return srv, conns
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClientDeliversScopedEvents(t *testing.T) {
	srv, _ := feedServer(t)
	defer srv.Close()

	client := NewClient(wsURL(srv), "test-token")
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	events := make(chan Event, 1)
	scope := ScheduleScope("kelas-1")
	if err := client.Subscribe(scope, func(ev Event) { events <- ev }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Kind != KindInsert {
			t.Fatalf("expected insert event, got %s", ev.Kind)
		}
		if ev.Scope != scope {
			t.Fatalf("expected scope %s, got %s", scope, ev.Scope)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected change event within deadline")
	}
}

func TestClientIgnoresUnsubscribedScope(t *testing.T) {
	srv, _ := feedServer(t)
	defer srv.Close()

	client := NewClient(wsURL(srv), "test-token")
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	events := make(chan Event, 2)
	scope := ScheduleScope("kelas-1")
	if err := client.Subscribe(scope, func(ev Event) { events <- ev }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Drain the first event, then drop the handler. Later events for the
	// scope must not reach it.
	select {
	case <-events:
	case <-time.After(2 * time.Second):
		t.Fatal("expected initial event")
	}

	if err := client.Unsubscribe(scope); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err := client.send(ClientMessage{Action: ActionSubscribe, Scopes: []string{ScheduleScope("kelas-2")}}); err != nil {
		t.Fatalf("resubscribe other scope: %v", err)
	}

	select {
	case ev := <-events:
		t.Fatalf("did not expect event after unsubscribe, got %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestClientSignalsOfflineOnDisconnect(t *testing.T) {
	srv, conns := feedServer(t)
	defer srv.Close()

	states := make(chan State, 4)
	client := NewClient(wsURL(srv), "test-token", WithStateHandler(func(s State) { states <- s }))
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	select {
	case s := <-states:
		if s != StateOnline {
			t.Fatalf("expected online after connect, got %s", s)
		}
	case <-time.After(time.Second):
		t.Fatal("expected online state")
	}

	// Sever the server side of the link; the client must flip offline and
	// close Done.
	select {
	case conn := <-conns:
		conn.Close()
	case <-time.After(time.Second):
		t.Fatal("expected upgraded server conn")
	}

	select {
	case s := <-states:
		if s != StateOffline {
			t.Fatalf("expected offline after disconnect, got %s", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected offline state within deadline")
	}

	select {
	case <-client.Done():
	case <-time.After(time.Second):
		t.Fatal("expected Done to close after disconnect")
	}
}

func TestSubscribeBeforeConnectFails(t *testing.T) {
	client := NewClient("ws://127.0.0.1:0", "t")
	if err := client.Subscribe("x", func(Event) {}); err == nil {
		t.Fatal("expected error when subscribing before connect")
	}
}
