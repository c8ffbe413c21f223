package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/kelasku/kelasku-backend/pkg/feed"
)

func TestDispatcherPublishesToSubscriber(t *testing.T) {
	dispatcher := NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scope := feed.ScheduleScope("kelas-1")
	stream, cleanup := dispatcher.Subscribe(ctx, scope)
	defer cleanup()

	dispatcher.Publish(feed.Event{
		Kind:  feed.KindInsert,
		Table: feed.TableSchedules,
		Scope: scope,
		New:   json.RawMessage(`{"id":"s1"}`),
	})

	select {
	case ev := <-stream:
		if ev.Kind != feed.KindInsert {
			t.Fatalf("expected insert, got %s", ev.Kind)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event within deadline")
	}
}

func TestDispatcherIsolatesScopes(t *testing.T) {
	dispatcher := NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	oneStream, oneCleanup := dispatcher.Subscribe(ctx, feed.ScheduleScope("kelas-1"))
	defer oneCleanup()
	twoStream, twoCleanup := dispatcher.Subscribe(ctx, feed.ScheduleScope("kelas-2"))
	defer twoCleanup()

	dispatcher.Publish(feed.Event{
		Kind:  feed.KindDelete,
		Table: feed.TableSchedules,
		Scope: feed.ScheduleScope("kelas-2"),
		Old:   json.RawMessage(`{"id":"s9"}`),
	})

	select {
	case <-oneStream:
		t.Fatal("did not expect event for unrelated scope")
	case <-time.After(200 * time.Millisecond):
	}

	select {
	case ev := <-twoStream:
		if ev.Scope != feed.ScheduleScope("kelas-2") {
			t.Fatalf("unexpected scope %s", ev.Scope)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event for subscribed scope")
	}
}

func TestDispatcherCleanupStopsDelivery(t *testing.T) {
	dispatcher := NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scope := feed.MemberScope("kelas-1")
	_, cleanup := dispatcher.Subscribe(ctx, scope)

	if got := dispatcher.SubscriberCount(scope); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}

	cleanup()

	if got := dispatcher.SubscriberCount(scope); got != 0 {
		t.Fatalf("expected 0 subscribers after cleanup, got %d", got)
	}

	// Publishing into an empty scope must not panic.
	dispatcher.Publish(feed.Event{Kind: feed.KindInsert, Scope: scope})
}

func TestDispatcherContextCancelUnsubscribes(t *testing.T) {
	dispatcher := NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())

	scope := feed.NotificationScope("user-1")
	stream, _ := dispatcher.Subscribe(ctx, scope)
	cancel()

	// The stream closes once the context-driven cleanup runs.
	select {
	case _, open := <-stream:
		if open {
			t.Fatal("expected closed stream after context cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("expected stream to close within deadline")
	}
}
