package sectionstore

import (
	"context"
	"sync"
)

const watcherBuffer = 8

// watcher receives change events. A full buffer sheds its oldest event so
// the latest version of a section is always delivered.
type watcher struct {
	ch   chan ChangeEvent
	shed int
}

type changeBroadcaster struct {
	mu       sync.Mutex
	watchers map[*watcher]struct{}
}

func newChangeBroadcaster() *changeBroadcaster {
	return &changeBroadcaster{watchers: make(map[*watcher]struct{})}
}

// Subscribe streams change events until ctx is done, then closes the channel.
func (b *changeBroadcaster) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	w := &watcher{ch: make(chan ChangeEvent, watcherBuffer)}
	if ctx.Err() != nil {
		close(w.ch)
		return w.ch, nil
	}

	b.mu.Lock()
	b.watchers[w] = struct{}{}
	b.mu.Unlock()

	context.AfterFunc(ctx, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.watchers, w)
		close(w.ch)
	})
	return w.ch, nil
}

func (b *changeBroadcaster) Broadcast(evt ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for w := range b.watchers {
		select {
		case w.ch <- evt:
			continue
		default:
		}
		select {
		case <-w.ch:
			w.shed++
		default:
		}
		select {
		case w.ch <- evt:
		default:
		}
	}
}

// Shed reports how many events were discarded across all live watchers.
func (b *changeBroadcaster) Shed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for w := range b.watchers {
		total += w.shed
	}
	return total
}
