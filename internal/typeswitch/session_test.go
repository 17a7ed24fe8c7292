package typeswitch_test

import (
	"testing"

	"github.com/goliatone/go-cms-sections/internal/assets"
	"github.com/goliatone/go-cms-sections/internal/typeswitch"
)

func TestSessionScopesFieldsPerEntry(t *testing.T) {
	queue := typeswitch.NewQueue()
	session := typeswitch.NewSession(queue)

	first := session.Field("a", nil)
	second := session.Field("b", nil)
	if first == second {
		t.Fatalf("expected distinct fields per entry")
	}
	if again := session.Field("a", nil); again != first {
		t.Fatalf("expected field to be reused for the same entry")
	}

	first.SetFile(imageFile())
	_ = first.Switch(assets.KindLink)
	if queue.Len() != 1 {
		t.Fatalf("expected deferred validation on the session queue, got %d", queue.Len())
	}
	if second.Draft().File != nil {
		t.Fatalf("drafts leaked across entries")
	}

	session.Release("a")
	if _, ok := session.Lookup("a"); ok {
		t.Fatalf("expected released field to be gone")
	}
	if fresh := session.Field("a", nil); fresh.Kind() != assets.KindImage || !fresh.Draft().IsEmpty() {
		t.Fatalf("expected a fresh field after release")
	}

	session.Reset()
	if session.Len() != 0 {
		t.Fatalf("expected reset to discard all fields, got %d", session.Len())
	}
}

func TestSessionInputs(t *testing.T) {
	session := typeswitch.NewSession(nil)
	session.Field("a", &assets.Ref{URL: "https://cdn.local/a.png", Path: "a.png", ContentType: "image/png"})
	link := session.Field("b", nil)
	_ = link.Switch(assets.KindLink)
	link.SetURL("https://example.com")

	inputs := session.Inputs()
	if inputs["a"].Action != assets.ActionKeep {
		t.Fatalf("expected keep for untouched entry, got %+v", inputs["a"])
	}
	if inputs["b"].Action != assets.ActionLink {
		t.Fatalf("expected link for b, got %+v", inputs["b"])
	}
}

func TestSessionDefaultSchedulerDefersUntilTick(t *testing.T) {
	session := typeswitch.NewSession(nil)
	first := session.Field("e1", nil)
	second := session.Field("e2", nil)
	first.SetFile(imageFile())

	_ = first.Switch(assets.KindLink)
	_ = second.Switch(assets.KindVideo)
	if errs := first.Errors(); len(errs) != 0 {
		t.Fatalf("expected no errors mid transition, got %v", errs)
	}

	if ran := session.Tick(); ran != 2 {
		t.Fatalf("expected both fields to validate on tick, ran %d", ran)
	}
	if _, ok := first.Errors()[typeswitch.FieldURL]; !ok {
		t.Fatalf("expected empty link to be flagged, got %v", first.Errors())
	}
	if _, ok := second.Errors()[typeswitch.FieldURL]; !ok {
		t.Fatalf("expected empty video to be flagged, got %v", second.Errors())
	}
}

func TestCacheSwitchIsLossless(t *testing.T) {
	cache := typeswitch.NewCache()
	draft := typeswitch.Draft{URL: "https://example.com/a"}

	restored := cache.Switch(assets.KindLink, assets.KindImage, draft)
	if !restored.IsEmpty() {
		t.Fatalf("expected empty draft for unvisited kind, got %+v", restored)
	}
	back := cache.Switch(assets.KindImage, assets.KindLink, restored)
	if back.URL != draft.URL {
		t.Fatalf("expected link draft restored, got %+v", back)
	}
	if cache.Len() != 2 {
		t.Fatalf("expected two cached kinds, got %d", cache.Len())
	}
}

func TestQueueFlushDefersNestedCalls(t *testing.T) {
	queue := typeswitch.NewQueue()
	var order []string
	queue.Defer(func() {
		order = append(order, "first")
		queue.Defer(func() { order = append(order, "nested") })
	})
	queue.Defer(func() { order = append(order, "second") })

	if ran := queue.Flush(); ran != 2 {
		t.Fatalf("expected two calls in first flush, got %d", ran)
	}
	if queue.Len() != 1 {
		t.Fatalf("expected nested call to wait, got %d pending", queue.Len())
	}
	queue.Flush()
	if len(order) != 3 || order[2] != "nested" {
		t.Fatalf("unexpected order %v", order)
	}
}
