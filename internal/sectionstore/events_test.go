package sectionstore

import (
	"context"
	"testing"
	"time"
)

func TestBroadcasterShedsOldestWhenWatcherIsFull(t *testing.T) {
	b := newChangeBroadcaster()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := b.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	key := Key{Domain: "site", Section: "hero", Locale: "en"}
	total := watcherBuffer + 3
	for version := 1; version <= total; version++ {
		b.Broadcast(ChangeEvent{Type: ChangeUpdated, Key: key, Version: version})
	}
	if shed := b.Shed(); shed != 3 {
		t.Fatalf("expected 3 shed events, got %d", shed)
	}

	var last ChangeEvent
	for i := 0; i < watcherBuffer; i++ {
		last = <-events
	}
	if last.Version != total {
		t.Fatalf("expected the latest version %d to be delivered, got %d", total, last.Version)
	}
}

func TestBroadcasterClosesOnCancel(t *testing.T) {
	b := newChangeBroadcaster()
	ctx, cancel := context.WithCancel(context.Background())
	events, _ := b.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-events:
		if ok {
			t.Fatal("expected no events before close")
		}
	case <-time.After(time.Second):
		t.Fatal("expected channel to close after cancel")
	}

	b.mu.Lock()
	live := len(b.watchers)
	b.mu.Unlock()
	if live != 0 {
		t.Fatalf("expected watcher to be removed, got %d", live)
	}

	done, stop := context.WithCancel(context.Background())
	stop()
	closed, _ := b.Subscribe(done)
	if _, ok := <-closed; ok {
		t.Fatal("expected a closed channel for a finished context")
	}
}
