package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	p := &Profile{Name: "blog", Editor: "tinymce", Config: contracts.EditorConfig{"height": 400}}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.UpdatedAt.Equal(fixed) {
		t.Errorf("expected UpdatedAt to be stamped, got %v", p.UpdatedAt)
	}

	// mutating the caller's copy must not leak into the store
	p.Config["height"] = 1

	got, err := store.Get(ctx, "blog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Config["height"] != 400 || got.Editor != "tinymce" {
		t.Errorf("unexpected profile %+v", got)
	}

	got.Config["height"] = 2
	again, _ := store.Get(ctx, "blog")
	if again.Config["height"] != 400 {
		t.Error("returned profile shares state with the store")
	}

	if err := store.Save(ctx, &Profile{Name: "api", Editor: "codemirror"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].Name != "api" || list[1].Name != "blog" {
		t.Errorf("expected profiles ordered by name, got %v", list)
	}

	if err := store.Delete(ctx, "api"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, "api"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "api"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStore_SaveRequiresName(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Save(context.Background(), &Profile{Name: "  ", Editor: "demo"}); err == nil {
		t.Error("expected error for blank name")
	}
	if err := store.Save(context.Background(), nil); err == nil {
		t.Error("expected error for nil profile")
	}
}
