package assets_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cms-sections/internal/assets"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

func storedRef(path string) *assets.Ref {
	return &assets.Ref{URL: "https://cdn.local/" + path, Path: path, ContentType: "image/png"}
}

func pngFile(name string) interfaces.File {
	return interfaces.File{Name: name, ContentType: "image/png", Data: []byte("png:" + name)}
}

func TestResolveKeepRetainsPrevious(t *testing.T) {
	prev := storedRef("cards/a.png")

	plan, err := assets.Resolve(prev, assets.Keep(), "cards")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !plan.Noop() {
		t.Fatalf("expected no operations, got upload=%v delete=%v", plan.Upload, plan.Delete)
	}
	if plan.Ref == nil || plan.Ref.Path != "cards/a.png" {
		t.Fatalf("expected previous ref to be kept, got %+v", plan.Ref)
	}
	if plan.Ref == prev {
		t.Fatalf("expected kept ref to be a copy")
	}
}

func TestResolveFileSchedulesUploadThenDelete(t *testing.T) {
	plan, err := assets.Resolve(storedRef("cards/a.png"), assets.Upload(pngFile("b.png")), "cards")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.Upload == nil || plan.Upload.Folder != "cards" || plan.Upload.ContentType != "image/png" {
		t.Fatalf("expected upload into cards, got %+v", plan.Upload)
	}
	if plan.Ref != nil {
		t.Fatalf("expected ref to stay unset until commit, got %+v", plan.Ref)
	}
	if plan.Delete == nil || plan.Delete.Path != "cards/a.png" {
		t.Fatalf("expected delete of previous blob, got %+v", plan.Delete)
	}

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	del := plan.Commit(interfaces.StoredObject{URL: "https://cdn.local/cards/b.png", Path: "cards/b.png"}, now)
	if del == nil || del.Path != "cards/a.png" {
		t.Fatalf("expected delete after commit, got %+v", del)
	}
	if plan.Ref == nil || plan.Ref.Path != "cards/b.png" || plan.Ref.UploadedAt == nil || !plan.Ref.UploadedAt.Equal(now) {
		t.Fatalf("unexpected committed ref %+v", plan.Ref)
	}
	if plan.Pending() {
		t.Fatalf("expected plan to be settled after commit")
	}
}

func TestResolveFileWithoutPreviousOnlyUploads(t *testing.T) {
	plan, err := assets.Resolve(nil, assets.Upload(pngFile("a.png")), "cards")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.Upload == nil {
		t.Fatalf("expected upload")
	}
	if plan.Delete != nil {
		t.Fatalf("expected no delete, got %+v", plan.Delete)
	}
}

func TestCommitDropsDeleteWhenStoreReusesPath(t *testing.T) {
	plan, err := assets.Resolve(storedRef("cards/a.png"), assets.Upload(pngFile("a.png")), "cards")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if del := plan.Commit(interfaces.StoredObject{Path: "cards/a.png"}, time.Now()); del != nil {
		t.Fatalf("expected no delete for an overwritten path, got %+v", del)
	}
}

func TestResolveLinkReplacesStoredBlob(t *testing.T) {
	plan, err := assets.Resolve(storedRef("cards/a.png"), assets.Link(" https://video.example.com/v/1 "), "cards")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.Upload != nil {
		t.Fatalf("links never upload")
	}
	if plan.Ref == nil || !plan.Ref.IsLink() || plan.Ref.Path != "https://video.example.com/v/1" {
		t.Fatalf("unexpected link ref %+v", plan.Ref)
	}
	if plan.Delete == nil || plan.Delete.Path != "cards/a.png" {
		t.Fatalf("expected stored blob to be retired, got %+v", plan.Delete)
	}
}

func TestResolveLinkNeverDeletesPreviousLink(t *testing.T) {
	prev := assets.LinkRef("https://example.com/a")

	plan, err := assets.Resolve(prev, assets.Link("https://example.com/b"), "cards")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.Delete != nil {
		t.Fatalf("link paths are not storage keys, got delete %+v", plan.Delete)
	}

	same, err := assets.Resolve(prev, assets.Link("https://example.com/a"), "cards")
	if err != nil {
		t.Fatalf("resolve same link: %v", err)
	}
	if !same.Noop() || !assets.SameObject(same.Ref, prev) {
		t.Fatalf("expected resubmitted link to be a no-op, got %+v", same)
	}
}

func TestResolveRetypeWithoutInputClearsSlot(t *testing.T) {
	plan, err := assets.Resolve(storedRef("hero/a.png"), assets.Retype(assets.KindVideo), "hero")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.Ref != nil {
		t.Fatalf("expected slot to be cleared, got %+v", plan.Ref)
	}
	if plan.Delete == nil || plan.Delete.Path != "hero/a.png" {
		t.Fatalf("expected stale blob delete, got %+v", plan.Delete)
	}
}

func TestResolveRetypeToSameKindKeeps(t *testing.T) {
	plan, err := assets.Resolve(storedRef("hero/a.png"), assets.Retype(assets.KindImage), "hero")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !plan.Noop() || plan.Ref == nil {
		t.Fatalf("expected unchanged slot, got %+v", plan)
	}
}

func TestResolveClear(t *testing.T) {
	plan, err := assets.Resolve(storedRef("hero/a.png"), assets.Clear(), "hero")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if plan.Ref != nil || plan.Delete == nil {
		t.Fatalf("expected cleared slot with delete, got %+v", plan)
	}

	empty, err := assets.Resolve(assets.LinkRef("https://example.com"), assets.Clear(), "hero")
	if err != nil {
		t.Fatalf("resolve link clear: %v", err)
	}
	if empty.Delete != nil {
		t.Fatalf("clearing a link must not delete, got %+v", empty.Delete)
	}
}

func TestResolveRejectsIncompleteInput(t *testing.T) {
	if _, err := assets.Resolve(nil, assets.Input{Action: assets.ActionFile}, "x"); !errors.Is(err, assets.ErrFileRequired) {
		t.Fatalf("expected ErrFileRequired, got %v", err)
	}
	if _, err := assets.Resolve(nil, assets.Link("  "), "x"); !errors.Is(err, assets.ErrLinkRequired) {
		t.Fatalf("expected ErrLinkRequired, got %v", err)
	}
	if _, err := assets.Resolve(nil, assets.Input{Action: assets.Action(42)}, "x"); !errors.Is(err, assets.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestRefKind(t *testing.T) {
	cases := []struct {
		ref  *assets.Ref
		want assets.Kind
	}{
		{ref: storedRef("a.png"), want: assets.KindImage},
		{ref: &assets.Ref{Path: "a.mp4", ContentType: "video/mp4"}, want: assets.KindVideo},
		{ref: &assets.Ref{Path: "a.mp4", ContentType: "video"}, want: assets.KindVideo},
		{ref: assets.LinkRef("https://x"), want: assets.KindLink},
		{ref: nil, want: ""},
	}
	for _, tc := range cases {
		if got := tc.ref.Kind(); got != tc.want {
			t.Fatalf("Kind(%+v) = %q, want %q", tc.ref, got, tc.want)
		}
	}
}
