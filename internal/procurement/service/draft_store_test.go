package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
)

func TestMemoryDraftStoreRoundTrip(t *testing.T) {
	store := NewMemoryDraftStore()
	ctx := context.Background()

	draft := NewDraft(entity.OrderTypeDirectPurchase, "user-1")
	if _, err := draft.AddItem("gasket", 2, dec("12.50"), nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := store.Save(ctx, draft); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Get(ctx, draft.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(loaded.Items) != 1 || !loaded.Items[0].Amount.Equal(dec("25.00")) {
		t.Errorf("loaded draft lost data: %+v", loaded.Items)
	}

	// The stored draft is a snapshot; mutating the original must not leak in.
	draft.AddItem("later item", 1, dec("1"), nil)
	loaded, err = store.Get(ctx, draft.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(loaded.Items) != 1 {
		t.Error("store must hold a snapshot, not a live pointer")
	}

	if err := store.Delete(ctx, draft.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, draft.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("want ErrDraftNotFound, got %v", err)
	}
}

func TestMemoryDraftStoreUnknownID(t *testing.T) {
	store := NewMemoryDraftStore()
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("want ErrDraftNotFound, got %v", err)
	}
}
