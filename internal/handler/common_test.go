package handler

import (
	"context"
	"testing"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/cart"
	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/store"
)

func TestLoadOrderItemsRoundTrip(t *testing.T) {
	ctx := context.Background()
	sess := store.NewSession(store.NewMemory(), "dev-1")

	saved := []cart.Item{{DishID: "d1", Name: "Thali", Price: 350, Quantity: 1}}
	if err := saveOrderItems(ctx, sess, saved); err != nil {
		t.Fatalf("save: %v", err)
	}
	items, err := loadOrderItems(ctx, sess)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 1 || items[0] != saved[0] {
		t.Fatalf("snapshot did not round trip: %v", items)
	}
}

func TestGarbledOrderSnapshotKeepsOrderID(t *testing.T) {
	ctx := context.Background()
	sess := store.NewSession(store.NewMemory(), "dev-1")
	sess.SetOrderID(ctx, "o1")
	sess.SetOrderItems(ctx, "{not json")

	items, err := loadOrderItems(ctx, sess)
	if err != nil {
		t.Fatalf("a garbled snapshot should be dropped quietly, got %v", err)
	}
	if items != nil {
		t.Fatalf("expected no items from a garbled snapshot, got %v", items)
	}
	if raw, _ := sess.OrderItems(ctx); raw != "" {
		t.Fatal("garbled snapshot should be cleared")
	}
	if id, _ := sess.OrderID(ctx); id != "o1" {
		t.Fatal("order id must survive a bad local snapshot")
	}
}
