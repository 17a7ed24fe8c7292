package typeswitch_test

import (
	"testing"

	"github.com/goliatone/go-cms-sections/internal/assets"
	"github.com/goliatone/go-cms-sections/internal/typeswitch"
	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

func imageFile() *interfaces.File {
	return &interfaces.File{Name: "hero.png", ContentType: "image/png", Data: []byte{0x89, 0x50}}
}

func TestSwitchRoundTripRestoresDraftWithoutInterleavedErrors(t *testing.T) {
	queue := typeswitch.NewQueue()
	field := typeswitch.NewField(nil, typeswitch.WithScheduler(queue))
	field.SetFile(imageFile())

	if err := field.Switch(assets.KindLink); err != nil {
		t.Fatalf("switch to link: %v", err)
	}
	if !field.Draft().IsEmpty() {
		t.Fatalf("expected empty link draft, got %+v", field.Draft())
	}
	if errs := field.Errors(); len(errs) != 0 {
		t.Fatalf("expected no errors mid transition, got %v", errs)
	}

	if err := field.Switch(assets.KindImage); err != nil {
		t.Fatalf("switch back to image: %v", err)
	}
	if errs := field.Errors(); len(errs) != 0 {
		t.Fatalf("expected no errors after round trip, got %v", errs)
	}

	draft := field.Draft()
	if field.Kind() != assets.KindImage || draft.File == nil || draft.File.Name != "hero.png" || draft.URL != "" {
		t.Fatalf("expected image draft to be restored, got kind=%s draft=%+v", field.Kind(), draft)
	}

	if ran := queue.Flush(); ran != 1 {
		t.Fatalf("expected a single deferred validation, ran %d", ran)
	}
	if errs := field.Errors(); len(errs) != 0 {
		t.Fatalf("expected restored draft to validate, got %v", errs)
	}
}

func TestDefaultSchedulerWaitsForTick(t *testing.T) {
	field := typeswitch.NewField(nil)
	field.SetFile(imageFile())

	if err := field.Switch(assets.KindLink); err != nil {
		t.Fatalf("switch to link: %v", err)
	}
	if errs := field.Errors(); len(errs) != 0 {
		t.Fatalf("expected no errors before the next tick, got %v", errs)
	}

	if ran := field.Tick(); ran != 1 {
		t.Fatalf("expected one deferred validation, ran %d", ran)
	}
	if _, ok := field.Errors()[typeswitch.FieldURL]; !ok {
		t.Fatalf("expected empty link url to be flagged after the tick, got %v", field.Errors())
	}
}

func TestTickIsNoOpWithExternalScheduler(t *testing.T) {
	queue := typeswitch.NewQueue()
	field := typeswitch.NewField(nil, typeswitch.WithScheduler(queue))
	_ = field.Switch(assets.KindLink)

	if ran := field.Tick(); ran != 0 {
		t.Fatalf("expected tick to leave external scheduler alone, ran %d", ran)
	}
	if queue.Len() != 1 {
		t.Fatalf("expected validation queued on the external scheduler, got %d", queue.Len())
	}
}

func TestDeferredValidationChecksCurrentState(t *testing.T) {
	queue := typeswitch.NewQueue()
	field := typeswitch.NewField(nil, typeswitch.WithScheduler(queue))

	if err := field.Switch(assets.KindLink); err != nil {
		t.Fatalf("switch: %v", err)
	}
	field.SetURL("https://example.com/promo")
	queue.Flush()

	if errs := field.Errors(); len(errs) != 0 {
		t.Fatalf("expected url set after the switch to validate, got %v", errs)
	}
}

func TestSwitchClearsErrorsImmediately(t *testing.T) {
	queue := typeswitch.NewQueue()
	field := typeswitch.NewField(nil, typeswitch.WithScheduler(queue))
	if err := field.Validate(); err == nil {
		t.Fatalf("expected empty image field to fail validation")
	}
	if len(field.Errors()) == 0 {
		t.Fatalf("expected errors to be recorded")
	}

	if err := field.Switch(assets.KindVideo); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if errs := field.Errors(); len(errs) != 0 {
		t.Fatalf("expected errors cleared on switch, got %v", errs)
	}
	queue.Flush()
	if _, ok := field.Errors()[typeswitch.FieldURL]; !ok {
		t.Fatalf("expected deferred validation to flag the empty video field")
	}
}

func TestValidationRulesPerKind(t *testing.T) {
	cases := []struct {
		name    string
		kind    assets.Kind
		url     string
		file    *interfaces.File
		wantErr []string
	}{
		{name: "image file", kind: assets.KindImage, file: imageFile()},
		{name: "image existing url", kind: assets.KindImage, url: "https://cdn.local/a.png"},
		{name: "image wrong mime", kind: assets.KindImage, file: &interfaces.File{Name: "a.mp4", ContentType: "video/mp4", Data: []byte{1}}, wantErr: []string{typeswitch.FieldFile}},
		{name: "video file", kind: assets.KindVideo, file: &interfaces.File{Name: "a.mp4", ContentType: "video/mp4", Data: []byte{1}}},
		{name: "video missing", kind: assets.KindVideo, wantErr: []string{typeswitch.FieldURL}},
		{name: "link ok", kind: assets.KindLink, url: "https://example.com"},
		{name: "link missing", kind: assets.KindLink, wantErr: []string{typeswitch.FieldURL}},
		{name: "link malformed", kind: assets.KindLink, url: "not a url", wantErr: []string{typeswitch.FieldURL}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field := typeswitch.NewField(nil)
			if err := field.Switch(tc.kind); err != nil {
				t.Fatalf("switch: %v", err)
			}
			field.SetURL(tc.url)
			field.SetFile(tc.file)
			err := field.Validate()
			errs := field.Errors()
			if len(tc.wantErr) == 0 {
				if err != nil {
					t.Fatalf("expected valid field, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected validation error")
			}
			for _, key := range tc.wantErr {
				if _, ok := errs[key]; !ok {
					t.Fatalf("expected error on %s, got %v", key, errs)
				}
			}
		})
	}
}

func TestSwitchRejectsUnknownKind(t *testing.T) {
	field := typeswitch.NewField(nil)
	if err := field.Switch("audio"); err != typeswitch.ErrUnknownKind {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestFieldInput(t *testing.T) {
	stored := &assets.Ref{URL: "https://cdn.local/a.png", Path: "cards/a.png", ContentType: "image/png"}

	t.Run("untouched keeps", func(t *testing.T) {
		field := typeswitch.NewField(stored)
		if in := field.Input(); in.Action != assets.ActionKeep || in.Type != "" {
			t.Fatalf("expected keep, got %+v", in)
		}
	})

	t.Run("new file uploads", func(t *testing.T) {
		field := typeswitch.NewField(stored)
		field.SetFile(imageFile())
		in := field.Input()
		if in.Action != assets.ActionFile || in.Type != assets.KindImage || in.File == nil {
			t.Fatalf("expected file upload, got %+v", in)
		}
	})

	t.Run("switch without input retypes", func(t *testing.T) {
		field := typeswitch.NewField(stored)
		if err := field.Switch(assets.KindVideo); err != nil {
			t.Fatalf("switch: %v", err)
		}
		in := field.Input()
		if in.Action != assets.ActionKeep || in.Type != assets.KindVideo {
			t.Fatalf("expected retype, got %+v", in)
		}
		plan, err := assets.Resolve(stored, in, "cards")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if plan.Ref != nil || plan.Delete == nil || plan.Delete.Path != "cards/a.png" {
			t.Fatalf("expected stale blob to be retired, got %+v", plan)
		}
	})

	t.Run("link", func(t *testing.T) {
		field := typeswitch.NewField(stored)
		if err := field.Switch(assets.KindLink); err != nil {
			t.Fatalf("switch: %v", err)
		}
		field.SetURL("https://example.com/watch")
		in := field.Input()
		if in.Action != assets.ActionLink || in.URL != "https://example.com/watch" {
			t.Fatalf("expected link input, got %+v", in)
		}
	})

	t.Run("cleared url clears slot", func(t *testing.T) {
		field := typeswitch.NewField(stored)
		field.SetURL("")
		if in := field.Input(); in.Action != assets.ActionClear {
			t.Fatalf("expected clear, got %+v", in)
		}
	})
}

func TestFieldResetDropsDrafts(t *testing.T) {
	stored := &assets.Ref{URL: "https://cdn.local/a.png", Path: "cards/a.png", ContentType: "image/png"}
	field := typeswitch.NewField(stored)
	field.SetFile(imageFile())
	_ = field.Switch(assets.KindLink)
	field.SetURL("https://example.com")

	field.Reset()
	if field.Kind() != assets.KindImage || field.Draft().URL != stored.URL || field.Draft().File != nil {
		t.Fatalf("expected seeded state, got kind=%s draft=%+v", field.Kind(), field.Draft())
	}
	_ = field.Switch(assets.KindLink)
	if !field.Draft().IsEmpty() {
		t.Fatalf("expected cache to be dropped on reset, got %+v", field.Draft())
	}
}
