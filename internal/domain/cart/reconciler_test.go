package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newGuestCache(t *testing.T) (*GuestCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewGuestCache(client), mr
}

func TestMergeSumsIntoExistingLines(t *testing.T) {
	svc, db := newCartService(t)
	pidA := seedProduct(t, db, "A", 100)
	pidB := seedProduct(t, db, "B", 200)
	cache, _ := newGuestCache(t)
	rec := NewReconciler(svc, cache, newTestLogger())

	if _, err := svc.Add(1, pidA, 2); err != nil {
		t.Fatalf("Add: %v", err)
	}

	rec.Merge(1, []Line{
		{ProductID: pidA, Quantity: 3},
		{ProductID: pidB, Quantity: 1},
	})

	view, err := svc.GetCart(1)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	got := map[uint]int{}
	for _, item := range view.Items {
		got[item.ProductID] = item.Quantity
	}
	if got[pidA] != 5 || got[pidB] != 1 {
		t.Fatalf("expected quantities {A:5 B:1}, got %v", got)
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	svc, db := newCartService(t)
	pidA := seedProduct(t, db, "A", 100)
	pidB := seedProduct(t, db, "B", 200)
	cache, _ := newGuestCache(t)
	rec := NewReconciler(svc, cache, newTestLogger())

	lines := []Line{{ProductID: pidA, Quantity: 2}, {ProductID: pidB, Quantity: 3}}
	reversed := []Line{lines[1], lines[0]}

	rec.Merge(1, lines)
	rec.Merge(2, reversed)

	v1, _ := svc.GetCart(1)
	v2, _ := svc.GetCart(2)
	q1 := map[uint]int{}
	q2 := map[uint]int{}
	for _, item := range v1.Items {
		q1[item.ProductID] = item.Quantity
	}
	for _, item := range v2.Items {
		q2[item.ProductID] = item.Quantity
	}
	if len(q1) != len(q2) || q1[pidA] != q2[pidA] || q1[pidB] != q2[pidB] {
		t.Fatalf("merge must commute: %v vs %v", q1, q2)
	}
}

func TestMergeSkipsInvalidAndUnknownLines(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "A", 100)
	cache, _ := newGuestCache(t)
	rec := NewReconciler(svc, cache, newTestLogger())

	// Lines with bad quantities are skipped; a line for a product the
	// catalog cannot resolve still merges, because merge is lenient and the
	// cart read hides it later.
	rec.Merge(1, []Line{
		{ProductID: pid, Quantity: 2},
		{ProductID: pid, Quantity: 0},
		{ProductID: pid, Quantity: -3},
		{ProductID: 9999, Quantity: 1},
	})

	view, err := svc.GetCart(1)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("expected single visible line with quantity 2, got %+v", view.Items)
	}

	// The unresolvable line is persisted, only hidden from the view
	var count int64
	db.Model(&CartItem{}).Where("user_id = ?", 1).Count(&count)
	if count != 2 {
		t.Fatalf("expected the unresolvable line stored, got %d rows", count)
	}
}

func TestMergeEmptyIsNoOp(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "A", 100)
	cache, _ := newGuestCache(t)
	rec := NewReconciler(svc, cache, newTestLogger())

	if _, err := svc.Add(1, pid, 2); err != nil {
		t.Fatalf("Add: %v", err)
	}
	rec.Merge(1, nil)
	rec.Merge(1, []Line{})

	view, _ := svc.GetCart(1)
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("empty merge must not change the cart, got %+v", view.Items)
	}
}

func TestMergeSessionDrainsRedisCart(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "A", 100)
	cache, mr := newGuestCache(t)
	rec := NewReconciler(svc, cache, newTestLogger())

	ctx := context.Background()
	if err := cache.Save(ctx, "sess-1", []Line{{ProductID: pid, Quantity: 4}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec.MergeSession(ctx, 1, "sess-1")

	view, err := svc.GetCart(1)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 4 {
		t.Fatalf("expected drained session line, got %+v", view.Items)
	}

	if mr.Exists("cart:guest:sess-1") {
		t.Fatal("session key must be deleted after drain")
	}

	// Draining again is a no-op
	rec.MergeSession(ctx, 1, "sess-1")
	view, _ = svc.GetCart(1)
	if view.Items[0].Quantity != 4 {
		t.Fatalf("second drain must not double quantities, got %d", view.Items[0].Quantity)
	}
}

func TestGuestCacheLoadMissingSession(t *testing.T) {
	cache, _ := newGuestCache(t)

	lines, err := cache.Load(context.Background(), "nope")
	if err != nil {
		t.Fatalf("missing session must not error, got %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", lines)
	}
}

func TestGuestCacheSaveSetsTTL(t *testing.T) {
	cache, mr := newGuestCache(t)

	if err := cache.Save(context.Background(), "sess-ttl", []Line{{ProductID: 1, Quantity: 1}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if mr.TTL("cart:guest:sess-ttl") != guestCartTTL {
		t.Fatalf("expected 24h TTL, got %v", mr.TTL("cart:guest:sess-ttl"))
	}
}
